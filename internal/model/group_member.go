package model

import "time"

// GroupMember 群成员关联表
// 每个 (群组, 用户) 至多一行，离开或被移除时物理删除
type GroupMember struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	GroupUuid string `gorm:"column:group_uuid;type:char(20);uniqueIndex:idx_group_user;not null;comment:群组ID"`
	UserUuid  string `gorm:"column:user_uuid;type:char(20);uniqueIndex:idx_group_user;index;not null;comment:用户ID"`
	Role      int8   `gorm:"column:role;default:1;comment:1成员 2版主 3管理员"`
}

func (GroupMember) TableName() string {
	return "group_member"
}
