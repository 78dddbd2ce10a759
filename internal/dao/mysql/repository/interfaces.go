// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"gatormmunity/internal/model"

	"gorm.io/gorm"
)

// ==================== 搜索过滤条件 ====================
// 结构化过滤条件总是生效；文本条件由 Search 的 terms 参数单独传入，空串表示不限

// UserFilter 用户搜索过滤条件
type UserFilter struct {
	Role *int8 // 平台角色，nil 表示不限
}

// ListingFilter 商品搜索过滤条件
type ListingFilter struct {
	Category string   // 分类，空串表示不限
	MaxPrice *float64 // 最高价格（含），nil 表示不限
}

// ThreadFilter 论坛主题搜索过滤条件
type ThreadFilter struct {
	Category string      // 分类，空串表示不限
	Scope    model.Scope // 全局论坛或某个群组论坛
}

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	FindByUuid(uuid string) (*model.UserInfo, error)
	FindByEmail(email string) (*model.UserInfo, error)
	FindByUuids(uuids []string) ([]model.UserInfo, error)
	Create(user *model.UserInfo) error
	// Search 按过滤条件和姓名子串查找，新注册的在前
	Search(filter UserFilter, terms string, limit int) ([]model.UserInfo, error)
	// UpdateRole 仅当当前角色为 expected 时更新角色
	UpdateRole(uuid string, expected, role int8) error
	// Ban 仅当当前角色为 expected 且未被封禁时写入 banned_by
	Ban(uuid string, expected int8, bannedBy string) error
	// DeleteUnapproved 物理删除仍处于待审核状态的用户
	DeleteUnapproved(uuid string) error
	UpdatePicture(uuid, picture, thumbnail string) error
}

// ListingRepository 商品数据访问接口
type ListingRepository interface {
	FindByUuid(uuid string) (*model.Listing, error)
	Create(listing *model.Listing) error
	Search(filter ListingFilter, terms string, limit int) ([]model.Listing, error)
	DeleteByUuid(uuid string) error
}

// ThreadRepository 论坛主题数据访问接口
type ThreadRepository interface {
	FindByUuid(uuid string) (*model.Thread, error)
	FindByGroupUuid(groupUuid string) ([]model.Thread, error)
	Create(thread *model.Thread) error
	Search(filter ThreadFilter, terms string, limit int) ([]model.Thread, error)
	DeleteByUuid(uuid string) error
	DeleteByGroupUuid(groupUuid string) error
}

// PostRepository 主题回复数据访问接口
type PostRepository interface {
	// FindByThreadUuid 按发布顺序返回主题下的全部回复
	FindByThreadUuid(threadUuid string) ([]model.Post, error)
	Create(post *model.Post) error
	DeleteByThreadUuids(threadUuids []string) error
}

// GroupRepository 群组数据访问接口
type GroupRepository interface {
	FindByUuid(uuid string) (*model.GroupInfo, error)
	FindByUuids(uuids []string) ([]model.GroupInfo, error)
	Create(group *model.GroupInfo) error
	// Search 按群名子串查找，新建的在前
	Search(terms string, limit int) ([]model.GroupInfo, error)
	UpdateAnnouncement(uuid, announcement string) error
	// IncrementMemberCount 调整群成员数量，delta 可为负
	IncrementMemberCount(uuid string, delta int) error
	DeleteByUuid(uuid string) error
}

// GroupMemberWithUserInfo 群成员详细信息（含用户资料）
type GroupMemberWithUserInfo struct {
	UserId    string `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Thumbnail string `json:"thumbnail"`
	Role      int8   `json:"role"`
}

// GroupMemberRepository 群成员数据访问接口
type GroupMemberRepository interface {
	// GetRole 返回用户在群内的角色，无记录时返回 NON_MEMBER 而非错误
	GetRole(groupUuid, userUuid string) (int8, error)
	FindMembersWithUserInfo(groupUuid string) ([]GroupMemberWithUserInfo, error)
	FindGroupUuidsByUser(userUuid string) ([]string, error)
	FindUserUuidsByGroup(groupUuid string) ([]string, error)
	CountByGroupUuid(groupUuid string) (int64, error)
	Create(member *model.GroupMember) error
	// UpdateRole 仅当当前角色为 expected 时更新
	UpdateRole(groupUuid, userUuid string, expected, role int8) error
	// Delete 仅当当前角色为 expected 时删除成员记录
	Delete(groupUuid, userUuid string, expected int8) error
	DeleteByGroupUuid(groupUuid string) error
	// DeleteByUserUuid 删除用户的全部成员记录，返回受影响的群组
	DeleteByUserUuid(userUuid string) ([]string, error)
}

// MessageRepository 消息数据访问接口
// 所有列表按 ID 升序返回
type MessageRepository interface {
	Create(message *model.Message) error
	FindDirect(userOneId, userTwoId string, afterId uint, limit int) ([]model.Message, error)
	FindChannel(channelType int8, receiveId string, afterId uint, limit int) ([]model.Message, error)
	// FindLatestDirect 每个私信会话的最后一条消息，最近的会话在前
	FindLatestDirect(userUuid string) ([]model.Message, error)
	DeleteChannel(channelType int8, receiveId string) error
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db          *gorm.DB
	User        UserRepository
	Listing     ListingRepository
	Thread      ThreadRepository
	Post        PostRepository
	Group       GroupRepository
	GroupMember GroupMemberRepository
	Message     MessageRepository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:          db,
		User:        NewUserRepository(db),
		Listing:     NewListingRepository(db),
		Thread:      NewThreadRepository(db),
		Post:        NewPostRepository(db),
		Group:       NewGroupRepository(db),
		GroupMember: NewGroupMemberRepository(db),
		Message:     NewMessageRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// 未绑定数据库（内存实现）时直接在当前实例上执行
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
