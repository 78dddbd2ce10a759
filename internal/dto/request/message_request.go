package request

// SendDirectMessageRequest 发送私信
type SendDirectMessageRequest struct {
	ReceiveId string `json:"receive_id" binding:"required"`
	Content   string `json:"content" binding:"required,max=2000"`
}

// GetConversationRequest 获取私信记录，after_id 之后的消息，用于增量拉取
type GetConversationRequest struct {
	UserId  string `form:"user_id" json:"user_id" binding:"required"`
	AfterId uint   `form:"after_id" json:"after_id"`
}

// SendGroupMessageRequest 发送群聊消息，group_id 为空表示全局聊天
type SendGroupMessageRequest struct {
	GroupId string `json:"group_id"`
	Content string `json:"content" binding:"required,max=2000"`
}

// GetGroupMessageListRequest 获取群聊记录，group_id 为空表示全局聊天
type GetGroupMessageListRequest struct {
	GroupId string `form:"group_id" json:"group_id"`
	AfterId uint   `form:"after_id" json:"after_id"`
}
