package constants

const (
	CHANNEL_SIZE       = 100                // 通道大小
	FILE_MAX_SIZE      = 10 << 20           // 上传文件最大大小（10MB）
	REDIS_TIMEOUT      = 30                 // 缓存过期时间（分钟）
	SESSION_COOKIE     = "gatormmunity_sid" // 默认会话 Cookie 名
	JOIN_CODE_LENGTH   = 8                  // 群组加入码长度
	SEARCH_CAP         = 250                // 主搜索结果上限
	RECOMMENDATION_CAP = 10                 // 推荐结果上限
	MESSAGE_PAGE_SIZE  = 200                // 单次拉取消息条数上限
	CONTEXT_USER_ID    = "user_id"          // gin 上下文中的用户 UUID
	CONTEXT_SESSION_ID = "session_id"       // gin 上下文中的会话 ID
	CONTEXT_SESSION    = "session"          // gin 上下文中的会话快照
	GROUP_INFO_PREFIX  = "group_info_"      // 群信息缓存 Key 前缀
)

// 上传文件分类
const (
	CATEGORY_USERS    = "users"
	CATEGORY_IDS      = "ids" // 私有目录，不对外提供静态访问
	CATEGORY_LISTINGS = "listings"
	CATEGORY_THREADS  = "threads"
	CATEGORY_GROUPS   = "groups"
)
