// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupRepository 接口，处理群组相关的数据库操作
package repository

import (
	"gatormmunity/internal/model"

	"gorm.io/gorm"
)

// groupRepository GroupRepository 接口的实现
type groupRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewGroupRepository 创建 GroupRepository 实例
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// FindByUuid 根据 UUID 查找群组
func (r *groupRepository) FindByUuid(uuid string) (*model.GroupInfo, error) {
	var group model.GroupInfo
	if err := r.db.First(&group, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "query group uuid=%s", uuid)
	}
	return &group, nil
}

// FindByUuids 根据UUID列表批量查找群组
func (r *groupRepository) FindByUuids(uuids []string) ([]model.GroupInfo, error) {
	var groups []model.GroupInfo
	if len(uuids) == 0 {
		return groups, nil
	}
	if err := r.db.Where("uuid IN ?", uuids).Order("id DESC").Find(&groups).Error; err != nil {
		return nil, wrapDBError(err, "batch query groups")
	}
	return groups, nil
}

// Create 创建群组
func (r *groupRepository) Create(group *model.GroupInfo) error {
	return wrapDBError(r.db.Create(group).Error, "create group")
}

// Search 按群名子串查找
func (r *groupRepository) Search(terms string, limit int) ([]model.GroupInfo, error) {
	var groups []model.GroupInfo
	query := r.db.Model(&model.GroupInfo{})
	if terms != "" {
		query = query.Where("LOWER(name) LIKE ?", ContainsPattern(terms))
	}
	if err := query.Order("id DESC").Limit(limit).Find(&groups).Error; err != nil {
		return nil, wrapDBError(err, "search groups")
	}
	return groups, nil
}

// UpdateAnnouncement 更新群公告
func (r *groupRepository) UpdateAnnouncement(uuid, announcement string) error {
	err := r.db.Model(&model.GroupInfo{}).Where("uuid = ?", uuid).Update("announcement", announcement).Error
	return wrapDBErrorf(err, "update announcement uuid=%s", uuid)
}

// IncrementMemberCount 原子调整群成员数量
func (r *groupRepository) IncrementMemberCount(uuid string, delta int) error {
	err := r.db.Model(&model.GroupInfo{}).Where("uuid = ?", uuid).
		Update("member_cnt", gorm.Expr("member_cnt + ?", delta)).Error
	return wrapDBErrorf(err, "update member count uuid=%s", uuid)
}

// DeleteByUuid 物理删除群组
func (r *groupRepository) DeleteByUuid(uuid string) error {
	err := r.db.Unscoped().Where("uuid = ?", uuid).Delete(&model.GroupInfo{}).Error
	return wrapDBErrorf(err, "delete group uuid=%s", uuid)
}
