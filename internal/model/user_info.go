// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含用户基本资料、平台角色和认证信息
package model

import (
	"database/sql"
	"strings"

	"golang.org/x/crypto/bcrypt" // 密码哈希库
	"gorm.io/gorm"
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表
type UserInfo struct {
	gorm.Model // ID 自增，兼作创建顺序

	// Uuid 用户唯一标识，格式：U + 日期 + 随机串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:用户唯一id"`

	FirstName string `gorm:"column:first_name;type:varchar(40);not null;comment:名"`
	LastName  string `gorm:"column:last_name;type:varchar(40);not null;comment:姓"`

	// Email 登录邮箱，唯一索引保证并发注册时只有一条记录成功
	Email string `gorm:"column:email;uniqueIndex;type:varchar(100);not null;comment:邮箱"`

	// Password bcrypt 哈希后的密码
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// Role 平台角色，参见 pkg/enum/user_info/user_role_enum
	Role int8 `gorm:"column:role;index;not null;default:0;comment:角色，0.待审核，1.已审核，2.版主，3.管理员"`

	// BannedBy 执行封禁的用户 UUID，非空即为封禁状态
	BannedBy sql.NullString `gorm:"column:banned_by;type:char(20);comment:封禁者uuid"`

	// Picture / Thumbnail 头像及缩略图在文件存储中的路径
	Picture   string `gorm:"column:picture;type:varchar(255);comment:头像"`
	Thumbnail string `gorm:"column:thumbnail;type:varchar(255);comment:头像缩略图"`

	// IdPicture 注册时上传的身份证明照片，仅版主审核时可见
	IdPicture string `gorm:"column:id_picture;type:varchar(255);comment:身份证明照片"`

	// RawPassword 明文密码，不入库，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave GORM Hook：在创建和更新前将 RawPassword 加密写入 Password
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = ""
	}
	return nil
}

// CheckPassword 校验明文密码是否与哈希匹配
func (u *UserInfo) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext)) == nil
}

// FullName 搜索和展示使用的全名
func (u *UserInfo) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsBanned 是否已被封禁
func (u *UserInfo) IsBanned() bool {
	return u.BannedBy.Valid && u.BannedBy.String != ""
}
