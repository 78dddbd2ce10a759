package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// Thread 论坛主题帖
// GroupUuid 为 NULL 表示全局论坛
type Thread struct {
	gorm.Model
	Uuid        string         `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:主题唯一id"`
	Title       string         `gorm:"column:title;type:varchar(150);not null;comment:标题"`
	Category    string         `gorm:"column:category;type:varchar(40);index;not null;comment:分类"`
	GroupUuid   sql.NullString `gorm:"column:group_uuid;type:char(20);index;comment:所属群组，NULL为全局"`
	CreatorUuid string         `gorm:"column:creator_uuid;type:char(20);index;not null;comment:发帖人uuid"`
	Picture     string         `gorm:"column:picture;type:varchar(255);comment:图片"`
	Thumbnail   string         `gorm:"column:thumbnail;type:varchar(255);comment:缩略图"`
}

func (Thread) TableName() string {
	return "thread"
}

// Scope 主题所在的作用域
func (t *Thread) Scope() Scope {
	if !t.GroupUuid.Valid {
		return GlobalScope()
	}
	return ScopeOf(t.GroupUuid.String)
}

// Post 主题下的回复，第一条即为主题正文
type Post struct {
	gorm.Model
	Uuid       string `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:回复唯一id"`
	ThreadUuid string `gorm:"column:thread_uuid;type:char(20);index;not null;comment:主题uuid"`
	AuthorUuid string `gorm:"column:author_uuid;type:char(20);index;not null;comment:作者uuid"`
	Body       string `gorm:"column:body;type:text;not null;comment:内容"`
}

func (Post) TableName() string {
	return "post"
}
