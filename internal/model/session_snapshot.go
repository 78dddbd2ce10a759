package model

import "time"

// SessionSnapshot 登录时写入会话存储的用户快照
// 权限判断以数据库中的最新角色为准，快照只用于身份识别和展示
type SessionSnapshot struct {
	UserUuid  string    `json:"user_uuid"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      int8      `json:"role"`
	LoginAt   time.Time `json:"login_at"`
}
