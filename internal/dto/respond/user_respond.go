package respond

import "time"

// UserInfoRespond 用户资料
type UserInfoRespond struct {
	Uuid      string    `json:"uuid"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      int8      `json:"role"`
	RoleName  string    `json:"role_name"`
	Banned    bool      `json:"banned"`
	Picture   string    `json:"picture"`
	Thumbnail string    `json:"thumbnail"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchUsersRespond 用户搜索结果，matched 为 false 时 users 为推荐
type SearchUsersRespond struct {
	Matched    bool              `json:"matched"`
	NumMatched int               `json:"num_matched"`
	Users      []UserInfoRespond `json:"users"`
}

// PictureRespond 上传后的图片地址
type PictureRespond struct {
	Picture   string `json:"picture"`
	Thumbnail string `json:"thumbnail"`
}
