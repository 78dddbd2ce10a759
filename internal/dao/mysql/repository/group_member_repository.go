// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupMemberRepository 接口，处理群成员相关的数据库操作
package repository

import (
	"errors"

	"gatormmunity/internal/model"
	"gatormmunity/pkg/enum/group_member/group_role_enum"

	"gorm.io/gorm"
)

// groupMemberRepository GroupMemberRepository 接口的实现
type groupMemberRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewGroupMemberRepository 创建 GroupMemberRepository 实例
func NewGroupMemberRepository(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepository{db: db}
}

// GetRole 查询群内角色，没有成员记录即为 NON_MEMBER
func (r *groupMemberRepository) GetRole(groupUuid, userUuid string) (int8, error) {
	var member model.GroupMember
	err := r.db.Where("group_uuid = ? AND user_uuid = ?", groupUuid, userUuid).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return group_role_enum.NON_MEMBER, nil
	}
	if err != nil {
		return group_role_enum.NON_MEMBER, wrapDBErrorf(err, "query member group=%s user=%s", groupUuid, userUuid)
	}
	return member.Role, nil
}

// FindMembersWithUserInfo 查找群成员（含用户资料），按角色从高到低
func (r *groupMemberRepository) FindMembersWithUserInfo(groupUuid string) ([]GroupMemberWithUserInfo, error) {
	var members []GroupMemberWithUserInfo
	err := r.db.Table("group_member").
		Select("user_info.uuid as user_id, user_info.first_name, user_info.last_name, user_info.thumbnail, group_member.role").
		Joins("JOIN user_info ON group_member.user_uuid = user_info.uuid").
		Where("group_member.group_uuid = ?", groupUuid).
		Order("group_member.role DESC, group_member.id ASC").
		Scan(&members).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query members group=%s", groupUuid)
	}
	return members, nil
}

// FindGroupUuidsByUser 用户加入的全部群组
func (r *groupMemberRepository) FindGroupUuidsByUser(userUuid string) ([]string, error) {
	var uuids []string
	err := r.db.Model(&model.GroupMember{}).Where("user_uuid = ?", userUuid).Pluck("group_uuid", &uuids).Error
	return uuids, wrapDBErrorf(err, "query groups of user=%s", userUuid)
}

// FindUserUuidsByGroup 群内全部成员，用于聊天推送
func (r *groupMemberRepository) FindUserUuidsByGroup(groupUuid string) ([]string, error) {
	var uuids []string
	err := r.db.Model(&model.GroupMember{}).Where("group_uuid = ?", groupUuid).Pluck("user_uuid", &uuids).Error
	return uuids, wrapDBErrorf(err, "query member ids group=%s", groupUuid)
}

// CountByGroupUuid 统计成员记录数
func (r *groupMemberRepository) CountByGroupUuid(groupUuid string) (int64, error) {
	var count int64
	err := r.db.Model(&model.GroupMember{}).Where("group_uuid = ?", groupUuid).Count(&count).Error
	return count, wrapDBErrorf(err, "count members group=%s", groupUuid)
}

// Create 添加群成员，(group_uuid, user_uuid) 唯一
func (r *groupMemberRepository) Create(member *model.GroupMember) error {
	return wrapDBError(r.db.Create(member).Error, "create group member")
}

// UpdateRole 比较并交换群内角色
func (r *groupMemberRepository) UpdateRole(groupUuid, userUuid string, expected, role int8) error {
	tx := r.db.Model(&model.GroupMember{}).
		Where("group_uuid = ? AND user_uuid = ? AND role = ?", groupUuid, userUuid, expected).
		Update("role", role)
	return checkSwapped(tx, ErrMembershipChanged, "update member role")
}

// Delete 删除指定角色的成员记录
func (r *groupMemberRepository) Delete(groupUuid, userUuid string, expected int8) error {
	tx := r.db.Where("group_uuid = ? AND user_uuid = ? AND role = ?", groupUuid, userUuid, expected).
		Delete(&model.GroupMember{})
	return checkSwapped(tx, ErrMembershipChanged, "delete group member")
}

// DeleteByGroupUuid 删除群组所有成员
func (r *groupMemberRepository) DeleteByGroupUuid(groupUuid string) error {
	err := r.db.Where("group_uuid = ?", groupUuid).Delete(&model.GroupMember{}).Error
	return wrapDBErrorf(err, "delete members group=%s", groupUuid)
}

// DeleteByUserUuid 删除用户的全部成员记录
func (r *groupMemberRepository) DeleteByUserUuid(userUuid string) ([]string, error) {
	groupUuids, err := r.FindGroupUuidsByUser(userUuid)
	if err != nil || len(groupUuids) == 0 {
		return nil, err
	}
	err = r.db.Where("user_uuid = ?", userUuid).Delete(&model.GroupMember{}).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "delete memberships user=%s", userUuid)
	}
	return groupUuids, nil
}
