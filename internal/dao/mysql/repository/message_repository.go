package repository

import (
	"gatormmunity/internal/model"
	"gatormmunity/pkg/enum/message/channel_type_enum"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 创建消息
func (r *messageRepository) Create(message *model.Message) error {
	return wrapDBError(r.db.Create(message).Error, "create message")
}

// FindDirect 查找两个用户之间的私信（双向），afterId 之后的 limit 条
func (r *messageRepository) FindDirect(userOneId, userTwoId string, afterId uint, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("channel_type = ? AND ((send_id = ? AND receive_id = ?) OR (send_id = ? AND receive_id = ?)) AND id > ?",
		channel_type_enum.DIRECT, userOneId, userTwoId, userTwoId, userOneId, afterId).
		Order("id ASC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query direct messages user1=%s user2=%s", userOneId, userTwoId)
	}
	return messages, nil
}

// FindChannel 查找群聊或全局聊天消息
func (r *messageRepository) FindChannel(channelType int8, receiveId string, afterId uint, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("channel_type = ? AND receive_id = ? AND id > ?", channelType, receiveId, afterId).
		Order("id ASC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query channel messages receive_id=%s", receiveId)
	}
	return messages, nil
}

// latestDirectSQL 按对端分组取每个私信会话的最大消息 ID
const latestDirectSQL = `SELECT * FROM message WHERE id IN (
	SELECT MAX(id) FROM message
	WHERE channel_type = ? AND (send_id = ? OR receive_id = ?)
	GROUP BY IF(send_id = ?, receive_id, send_id)
) ORDER BY id DESC`

// FindLatestDirect 每个会话对端取最大 ID 的一条
func (r *messageRepository) FindLatestDirect(userUuid string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Raw(latestDirectSQL, channel_type_enum.DIRECT, userUuid, userUuid, userUuid).Scan(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "query conversations user=%s", userUuid)
	}
	return messages, nil
}

// DeleteChannel 删除某个群聊的全部消息
func (r *messageRepository) DeleteChannel(channelType int8, receiveId string) error {
	err := r.db.Where("channel_type = ? AND receive_id = ?", channelType, receiveId).Delete(&model.Message{}).Error
	return wrapDBErrorf(err, "delete messages receive_id=%s", receiveId)
}
