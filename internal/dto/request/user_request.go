package request

import "mime/multipart"

// UserIdRequest 按 UUID 查询用户
type UserIdRequest struct {
	UserId string `form:"user_id" json:"user_id" binding:"required"`
}

// SearchUsersRequest 用户搜索，role 为空表示不限
type SearchUsersRequest struct {
	SearchTerms string `form:"search_terms" json:"search_terms"`
	Role        *int8  `form:"role" json:"role" binding:"omitempty,min=0,max=3"`
}

// UpdatePictureRequest 更新头像，multipart 表单
type UpdatePictureRequest struct {
	Picture *multipart.FileHeader `form:"picture" json:"-" binding:"required"`
}
