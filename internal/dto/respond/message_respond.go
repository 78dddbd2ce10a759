package respond

import "time"

// MessageRespond 一条消息
// uuid 为雪花 ID，以字符串返回避免前端精度丢失
type MessageRespond struct {
	Id          uint      `json:"id"`
	Uuid        string    `json:"uuid"`
	ChannelType int8      `json:"channel_type"`
	SendId      string    `json:"send_id"`
	SendName    string    `json:"send_name"`
	ReceiveId   string    `json:"receive_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// ConversationRespond 私信会话列表项
type ConversationRespond struct {
	PeerId        string         `json:"peer_id"`
	PeerName      string         `json:"peer_name"`
	PeerThumbnail string         `json:"peer_thumbnail"`
	LastMessage   MessageRespond `json:"last_message"`
}

// PushRespond WebSocket 推送的数据帧
type PushRespond struct {
	Type    string         `json:"type"` // direct / group / global
	Message MessageRespond `json:"message"`
}
