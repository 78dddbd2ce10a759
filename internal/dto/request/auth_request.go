package request

import "mime/multipart"

// LoginRequest 邮箱密码登录
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest 注册，multipart 表单，id_picture 为身份证明照片
type RegisterRequest struct {
	FirstName string                `form:"first_name" json:"first_name" binding:"required,max=40"`
	LastName  string                `form:"last_name" json:"last_name" binding:"required,max=40"`
	Email     string                `form:"email" json:"email" binding:"required,email,max=100"`
	Password  string                `form:"password" json:"password" binding:"required,min=8,max=72"`
	IdPicture *multipart.FileHeader `form:"id_picture" json:"-" binding:"required"`
}
