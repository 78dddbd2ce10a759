package request

import "mime/multipart"

// CreateThreadRequest 发布主题，multipart 表单
// group_id 为空表示全局论坛，picture 可选
type CreateThreadRequest struct {
	Title    string                `form:"title" json:"title" binding:"required,max=150"`
	Category string                `form:"category" json:"category" binding:"required,max=40"`
	Body     string                `form:"body" json:"body" binding:"required,max=10000"`
	GroupId  string                `form:"group_id" json:"group_id"`
	Picture  *multipart.FileHeader `form:"picture" json:"-"`
}

// ReplyThreadRequest 回复主题
type ReplyThreadRequest struct {
	ThreadId string `json:"thread_id" binding:"required"`
	Body     string `json:"body" binding:"required,max=10000"`
}

// ThreadIdRequest 按 UUID 操作主题
type ThreadIdRequest struct {
	ThreadId string `form:"thread_id" json:"thread_id" binding:"required"`
}

// SearchThreadsRequest 主题搜索，group_id 为空表示全局论坛
type SearchThreadsRequest struct {
	SearchTerms string `form:"search_terms" json:"search_terms"`
	Category    string `form:"category" json:"category"`
	GroupId     string `form:"group_id" json:"group_id"`
}
