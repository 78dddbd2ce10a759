// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"gatormmunity/internal/dao/mysql/repository"
	myredis "gatormmunity/internal/dao/redis"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/infrastructure/mailer"
	"gatormmunity/internal/service/auth"
	"gatormmunity/internal/service/forum"
	"gatormmunity/internal/service/group"
	"gatormmunity/internal/service/listing"
	"gatormmunity/internal/service/message"
	"gatormmunity/internal/service/moderation"
	"gatormmunity/internal/service/search"
	"gatormmunity/internal/service/user"
)

// Deps Service 层的外部依赖
type Deps struct {
	Repos     *repository.Repositories
	Cache     myredis.AsyncCacheService
	Sessions  myredis.SessionStore
	Files     filestore.FileStore
	Mailer    mailer.Mailer
	Publisher message.Publisher
	Mail      moderation.MailOptions
	Caps      search.Caps
	Thumb     filestore.Size
}

// Services 聚合所有 Service 实例
// Handler 层通过 Services 访问各个 Service
type Services struct {
	Auth       AuthService
	User       UserService
	Moderation ModerationService
	Listing    ListingService
	Forum      ForumService
	Group      GroupService
	Message    MessageService
}

// NewServices 创建并注入所有 Service 实例
// 群组邀请通过私信发送，因此 Message 先于 Group 创建
func NewServices(deps Deps) *Services {
	messageSvc := message.NewMessageService(deps.Repos, deps.Files, deps.Publisher)

	return &Services{
		Auth:       auth.NewAuthService(deps.Repos, deps.Sessions),
		User:       user.NewUserService(deps.Repos, deps.Files, deps.Caps, deps.Thumb),
		Moderation: moderation.NewModerationService(deps.Repos, deps.Sessions, deps.Cache, deps.Files, deps.Cache,
			deps.Publisher, deps.Mailer, deps.Mail),
		Listing:    listing.NewListingService(deps.Repos, deps.Files, deps.Caps, deps.Thumb),
		Forum:      forum.NewForumService(deps.Repos, deps.Files, deps.Caps, deps.Thumb),
		Group:      group.NewGroupService(deps.Repos, deps.Cache, deps.Files, messageSvc, deps.Caps, deps.Thumb),
		Message:    messageSvc,
	}
}
