// Package mysql 负责建立 MySQL 连接、自动迁移表结构并初始化 Repository 层
package mysql

import (
	"fmt"

	"gatormmunity/internal/config"
	"gatormmunity/internal/dao/mysql/repository"
	"gatormmunity/internal/model"

	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init 打开数据库连接、迁移表结构并返回 Repository 实例
// 返回的 *gorm.DB 供调用方在退出时关闭连接池
func Init(cfg config.MysqlConfig) (*repository.Repositories, *gorm.DB, error) {
	// 格式：user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DatabaseName,
	)

	// TranslateError 将唯一索引冲突翻译为 gorm.ErrDuplicatedKey
	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("open mysql: %w", err)
	}

	err = db.AutoMigrate(
		&model.UserInfo{},
		&model.Listing{},
		&model.Thread{},
		&model.Post{},
		&model.GroupInfo{},
		&model.GroupMember{},
		&model.Message{},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("auto migrate: %w", err)
	}

	return repository.NewRepositories(db), db, nil
}
