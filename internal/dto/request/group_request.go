package request

import "mime/multipart"

// CreateGroupRequest 创建群组，multipart 表单，picture 可选
type CreateGroupRequest struct {
	Name        string                `form:"name" json:"name" binding:"required,max=60"`
	Description string                `form:"description" json:"description" binding:"max=500"`
	Picture     *multipart.FileHeader `form:"picture" json:"-"`
}

// GroupIdRequest 按 UUID 操作群组
type GroupIdRequest struct {
	GroupId string `form:"group_id" json:"group_id" binding:"required"`
}

// SearchGroupsRequest 群组搜索
type SearchGroupsRequest struct {
	SearchTerms string `form:"search_terms" json:"search_terms"`
}

// JoinGroupRequest 凭加入码入群
type JoinGroupRequest struct {
	GroupId  string `json:"group_id" binding:"required"`
	JoinCode string `json:"join_code" binding:"required"`
}

// GroupMemberRequest 针对群内某个成员的操作：邀请、踢出、升降级
type GroupMemberRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	UserId  string `json:"user_id" binding:"required"`
}

// UpdateAnnouncementRequest 更新群公告，空串表示清空
type UpdateAnnouncementRequest struct {
	GroupId      string `json:"group_id" binding:"required"`
	Announcement string `json:"announcement" binding:"max=1000"`
}
