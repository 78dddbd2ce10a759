package model

import (
	"gorm.io/gorm"
)

// GroupInfo 群组
type GroupInfo struct {
	gorm.Model
	Uuid         string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:群组唯一id"`
	Name         string `gorm:"column:name;type:varchar(60);not null;comment:群名称"`
	Description  string `gorm:"column:description;type:varchar(500);comment:群简介"`
	Announcement string `gorm:"column:announcement;type:varchar(1000);comment:群公告"`
	JoinCode     string `gorm:"column:join_code;type:varchar(16);not null;comment:加入码"`
	CreatorUuid  string `gorm:"column:creator_uuid;type:char(20);not null;comment:创建者uuid"`
	MemberCnt    int    `gorm:"column:member_cnt;default:1;comment:群人数"`
	Picture      string `gorm:"column:picture;type:varchar(255);comment:群头像"`
	Thumbnail    string `gorm:"column:thumbnail;type:varchar(255);comment:群头像缩略图"`
}

func (GroupInfo) TableName() string {
	return "group_info"
}
