// Package service 定义业务层接口
// 本文件定义所有 Service 接口，供 Handler 层调用
package service

import (
	"context"
	"io"

	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/dto/respond"
	"gatormmunity/internal/model"
)

// AuthService 登录、登出与会话校验
type AuthService interface {
	// Login 邮箱密码登录，返回会话令牌
	Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error)
	// Logout 销毁当前会话
	Logout(ctx context.Context, sessionId string) error
	// Authenticate 校验令牌，返回会话快照和会话 ID
	Authenticate(ctx context.Context, token string) (*model.SessionSnapshot, string, error)
}

// UserService 注册和用户资料
type UserService interface {
	// Register 注册，新用户处于待审核状态
	Register(ctx context.Context, req request.RegisterRequest) (*respond.RegisterRespond, error)
	// GetUserInfo 查看用户资料，邮箱只对本人和版主可见
	GetUserInfo(ctx context.Context, viewerId, userId string) (*respond.UserInfoRespond, error)
	SearchUsers(ctx context.Context, req request.SearchUsersRequest) (*respond.SearchUsersRespond, error)
	// UpdatePicture 更换头像
	UpdatePicture(ctx context.Context, userId string, req request.UpdatePictureRequest) (*respond.PictureRespond, error)
}

// ModerationService 平台版主和管理员的用户管理
type ModerationService interface {
	ApproveUser(ctx context.Context, actorId, targetId string) error
	RejectUser(ctx context.Context, actorId, targetId string) error
	BanUser(ctx context.Context, actorId, targetId string) error
	AppointModerator(ctx context.Context, actorId, targetId string) error
	UnappointModerator(ctx context.Context, actorId, targetId string) error
	// GetIdPicture 读取身份证明照片，调用方负责关闭
	GetIdPicture(ctx context.Context, actorId, targetId string) (io.ReadCloser, string, error)
}

// ListingService 二手市场
type ListingService interface {
	CreateListing(ctx context.Context, userId string, req request.CreateListingRequest) (*respond.ListingRespond, error)
	GetListing(ctx context.Context, listingId string) (*respond.ListingRespond, error)
	SearchListings(ctx context.Context, req request.SearchListingsRequest) (*respond.SearchListingsRespond, error)
	DeleteListing(ctx context.Context, userId, listingId string) error
}

// ForumService 全局论坛和群论坛
type ForumService interface {
	CreateThread(ctx context.Context, userId string, req request.CreateThreadRequest) (*respond.ThreadRespond, error)
	ReplyThread(ctx context.Context, userId string, req request.ReplyThreadRequest) (*respond.PostRespond, error)
	GetThread(ctx context.Context, userId, threadId string) (*respond.ThreadDetailRespond, error)
	SearchThreads(ctx context.Context, userId string, req request.SearchThreadsRequest) (*respond.SearchThreadsRespond, error)
	DeleteThread(ctx context.Context, userId, threadId string) error
}

// GroupService 群组及成员管理
type GroupService interface {
	CreateGroup(ctx context.Context, userId string, req request.CreateGroupRequest) (*respond.GroupInfoRespond, error)
	GetGroupInfo(ctx context.Context, userId, groupId string) (*respond.GroupInfoRespond, error)
	SearchGroups(ctx context.Context, req request.SearchGroupsRequest) (*respond.SearchGroupsRespond, error)
	// LoadMyGroups 当前用户加入的群组
	LoadMyGroups(ctx context.Context, userId string) ([]respond.GroupInfoRespond, error)
	GetGroupMemberList(ctx context.Context, userId, groupId string) ([]respond.GroupMemberRespond, error)
	JoinGroup(ctx context.Context, userId string, req request.JoinGroupRequest) (*respond.GroupInfoRespond, error)
	InviteMember(ctx context.Context, userId string, req request.GroupMemberRequest) error
	KickMember(ctx context.Context, userId string, req request.GroupMemberRequest) error
	LeaveGroup(ctx context.Context, userId, groupId string) error
	PromoteMember(ctx context.Context, userId string, req request.GroupMemberRequest) error
	DemoteMember(ctx context.Context, userId string, req request.GroupMemberRequest) error
	// DeleteGroup 解散群组
	DeleteGroup(ctx context.Context, userId, groupId string) error
	UpdateAnnouncement(ctx context.Context, userId string, req request.UpdateAnnouncementRequest) error
}

// MessageService 私信、群聊和全局聊天
type MessageService interface {
	SendDirectMessage(ctx context.Context, userId string, req request.SendDirectMessageRequest) (*respond.MessageRespond, error)
	GetConversation(ctx context.Context, userId string, req request.GetConversationRequest) ([]respond.MessageRespond, error)
	// GetConversationList 每个私信对象的最新一条消息
	GetConversationList(ctx context.Context, userId string) ([]respond.ConversationRespond, error)
	// SendGroupMessage 群组 ID 为空时发到全局聊天
	SendGroupMessage(ctx context.Context, userId string, req request.SendGroupMessageRequest) (*respond.MessageRespond, error)
	GetGroupMessageList(ctx context.Context, userId string, req request.GetGroupMessageListRequest) ([]respond.MessageRespond, error)
}
