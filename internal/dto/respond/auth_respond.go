package respond

import "time"

// LoginRespond 登录响应，token 同时写入 Cookie
type LoginRespond struct {
	Uuid      string    `json:"uuid"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      int8      `json:"role"`
	RoleName  string    `json:"role_name"`
	Thumbnail string    `json:"thumbnail"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterRespond 注册响应，新账号处于待审核状态
type RegisterRespond struct {
	Uuid     string `json:"uuid"`
	Email    string `json:"email"`
	Role     int8   `json:"role"`
	RoleName string `json:"role_name"`
}
