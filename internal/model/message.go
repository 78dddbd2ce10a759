// Package model 定义数据库实体模型
// 本文件定义消息模型，私信、群聊和全局聊天共用一张只追加的表
package model

import "time"

// Message 消息模型
// 对应数据库 message 表，同一会话内按 ID 递增排序
type Message struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`

	// Uuid 雪花算法生成的消息 ID
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// ChannelType 0=私信, 1=群聊, 2=全局聊天，参见 pkg/enum/message/channel_type_enum
	ChannelType int8 `gorm:"column:channel_type;index:idx_channel;not null;comment:会话类型"`

	// SendId 发送者 UUID
	SendId string `gorm:"column:send_id;index;type:char(20);not null;comment:发送者uuid"`

	// ReceiveId 私信为对方用户 UUID，群聊为群组 UUID，全局聊天为空串
	ReceiveId string `gorm:"column:receive_id;index:idx_channel;type:char(20);not null;default:'';comment:接收者uuid"`

	Content string `gorm:"column:content;type:text;not null;comment:消息内容"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
