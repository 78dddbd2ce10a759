// Package moderation 处理平台角色的变更：审核、拒绝、封禁和版主任免
package moderation

import (
	"context"
	"io"
	"mime"
	"path"

	"gatormmunity/internal/dao/mysql/repository"
	myredis "gatormmunity/internal/dao/redis"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/infrastructure/mailer"
	"gatormmunity/internal/model"
	"gatormmunity/internal/service/chat"
	"gatormmunity/internal/service/rolegate"
	"gatormmunity/pkg/constants"
	"gatormmunity/pkg/enum/user_info/user_role_enum"
	"gatormmunity/pkg/errorx"

	"go.uber.org/zap"
)

// TaskRunner 异步任务队列
type TaskRunner interface {
	SubmitTask(action func())
}

// Publisher 推送出口，用于断开被封禁用户的实时连接
type Publisher interface {
	Publish(ctx context.Context, d chat.Delivery) error
}

// MailOptions 通知邮件的应用名和发件人
type MailOptions struct {
	AppName string
	From    string
}

type moderationService struct {
	repos     *repository.Repositories
	sessions  myredis.SessionStore
	cache     myredis.CacheService
	files     filestore.FileStore
	tasks     TaskRunner
	publisher Publisher
	mailer    mailer.Mailer
	mail      MailOptions
}

// NewModerationService 构造函数
func NewModerationService(repos *repository.Repositories, sessions myredis.SessionStore, cache myredis.CacheService,
	files filestore.FileStore, tasks TaskRunner, publisher Publisher, m mailer.Mailer, mail MailOptions) *moderationService {
	return &moderationService{
		repos:     repos,
		sessions:  sessions,
		cache:     cache,
		files:     files,
		tasks:     tasks,
		publisher: publisher,
		mailer:    m,
		mail:      mail,
	}
}

// authorize 读取双方并判定，返回目标用户
func (s *moderationService) authorize(action rolegate.Action, actorId, targetId string) (*model.UserInfo, error) {
	global := model.GlobalScope()
	actor, _, err := rolegate.LoadSubject(s.repos.User, s.repos.GroupMember, global, actorId)
	if err != nil {
		return nil, err
	}
	target, user, err := rolegate.LoadSubject(s.repos.User, s.repos.GroupMember, global, targetId)
	if err != nil {
		return nil, err
	}
	if err := rolegate.Authorize(action, actor, &target, rolegate.Resource{Scope: global}).Err(); err != nil {
		zap.L().Info("moderation denied",
			zap.Stringer("action", action), zap.String("actor", actorId), zap.String("target", targetId), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// mutationError 条件更新冲突原样返回，其余错误记录后屏蔽
func mutationError(err error, action rolegate.Action, targetId string) error {
	if errorx.Is(err, errorx.CodeConflict) {
		return err
	}
	zap.L().Error("moderation failed", zap.Stringer("action", action), zap.String("target", targetId), zap.Error(err))
	return errorx.ErrServerBusy
}

// ApproveUser 待审核 -> 已审核
func (s *moderationService) ApproveUser(ctx context.Context, actorId, targetId string) error {
	target, err := s.authorize(rolegate.Approve, actorId, targetId)
	if err != nil {
		return err
	}
	if err := s.repos.User.UpdateRole(targetId, user_role_enum.UNAPPROVED, user_role_enum.APPROVED); err != nil {
		return mutationError(err, rolegate.Approve, targetId)
	}
	zap.L().Info("user approved", zap.String("actor", actorId), zap.String("target", targetId))
	s.notify(target, mailer.ApprovedNotice)
	return nil
}

// RejectUser 删除待审核用户、其群成员记录及身份证明照片
func (s *moderationService) RejectUser(ctx context.Context, actorId, targetId string) error {
	target, err := s.authorize(rolegate.Reject, actorId, targetId)
	if err != nil {
		return err
	}
	var groups []string
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.User.DeleteUnapproved(targetId); err != nil {
			return err
		}
		var err error
		if groups, err = tx.GroupMember.DeleteByUserUuid(targetId); err != nil {
			return err
		}
		for _, groupId := range groups {
			if err := tx.Group.IncrementMemberCount(groupId, -1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mutationError(err, rolegate.Reject, targetId)
	}
	for _, groupId := range groups {
		if err := s.cache.Delete(ctx, constants.GROUP_INFO_PREFIX+groupId); err != nil {
			zap.L().Error("delete group cache", zap.String("group_id", groupId), zap.Error(err))
		}
	}
	filestore.Cleanup(ctx, s.files, target.IdPicture, target.Picture, target.Thumbnail)
	s.signOut(ctx, targetId)
	zap.L().Info("user rejected", zap.String("actor", actorId), zap.String("target", targetId))
	s.notify(target, mailer.RejectedNotice)
	return nil
}

// BanUser 封禁用户并立即注销其全部会话和实时连接，角色保持不变
func (s *moderationService) BanUser(ctx context.Context, actorId, targetId string) error {
	target, err := s.authorize(rolegate.Ban, actorId, targetId)
	if err != nil {
		return err
	}
	if err := s.repos.User.Ban(targetId, target.Role, actorId); err != nil {
		return mutationError(err, rolegate.Ban, targetId)
	}
	s.signOut(ctx, targetId)
	zap.L().Info("user banned", zap.String("actor", actorId), zap.String("target", targetId))
	s.notify(target, mailer.BannedNotice)
	return nil
}

// AppointModerator 已审核 -> 版主
func (s *moderationService) AppointModerator(ctx context.Context, actorId, targetId string) error {
	if _, err := s.authorize(rolegate.AppointModerator, actorId, targetId); err != nil {
		return err
	}
	if err := s.repos.User.UpdateRole(targetId, user_role_enum.APPROVED, user_role_enum.MODERATOR); err != nil {
		return mutationError(err, rolegate.AppointModerator, targetId)
	}
	zap.L().Info("moderator appointed", zap.String("actor", actorId), zap.String("target", targetId))
	return nil
}

// UnappointModerator 版主 -> 已审核
func (s *moderationService) UnappointModerator(ctx context.Context, actorId, targetId string) error {
	if _, err := s.authorize(rolegate.UnappointModerator, actorId, targetId); err != nil {
		return err
	}
	if err := s.repos.User.UpdateRole(targetId, user_role_enum.MODERATOR, user_role_enum.APPROVED); err != nil {
		return mutationError(err, rolegate.UnappointModerator, targetId)
	}
	zap.L().Info("moderator unappointed", zap.String("actor", actorId), zap.String("target", targetId))
	return nil
}

// GetIdPicture 读取用户的身份证明照片，返回内容和 MIME 类型，调用方负责关闭
func (s *moderationService) GetIdPicture(ctx context.Context, actorId, targetId string) (io.ReadCloser, string, error) {
	target, err := s.authorize(rolegate.ViewIdPicture, actorId, targetId)
	if err != nil {
		return nil, "", err
	}
	if target.IdPicture == "" {
		return nil, "", errorx.New(errorx.CodeNotFound, "id picture not found")
	}
	rc, err := s.files.Open(ctx, target.IdPicture)
	if err != nil {
		if errorx.Is(err, errorx.CodeNotFound) {
			return nil, "", errorx.New(errorx.CodeNotFound, "id picture not found")
		}
		zap.L().Error("open id picture", zap.String("target", targetId), zap.Error(err))
		return nil, "", errorx.ErrServerBusy
	}
	contentType := mime.TypeByExtension(path.Ext(target.IdPicture))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rc, contentType, nil
}

// signOut 删除全部会话并断开各实例上的推送连接
func (s *moderationService) signOut(ctx context.Context, userId string) {
	if err := s.sessions.DestroyByUser(ctx, userId); err != nil {
		zap.L().Error("destroy user sessions", zap.String("user_id", userId), zap.Error(err))
	}
	if err := s.publisher.Publish(ctx, chat.DisconnectOf(userId)); err != nil {
		zap.L().Error("disconnect user", zap.String("user_id", userId), zap.Error(err))
	}
}

// notify 异步发送通知邮件，失败只记录日志
func (s *moderationService) notify(to *model.UserInfo, build func(app, name string) mailer.Notice) {
	notice := build(s.mail.AppName, to.FullName())
	email := to.Email
	s.tasks.SubmitTask(func() {
		if err := s.mailer.Send(s.mail.From, email, notice.Subject, notice.HTML); err != nil {
			zap.L().Error("send notice mail", zap.String("to", email), zap.String("subject", notice.Subject), zap.Error(err))
		}
	})
}
