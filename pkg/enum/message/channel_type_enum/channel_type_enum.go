package channel_type_enum

const (
	DIRECT int8 = 0 // 私信
	GROUP  int8 = 1 // 群聊
	GLOBAL int8 = 2 // 全局聊天
)
