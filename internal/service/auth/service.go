// Package auth 处理登录、登出和会话令牌校验
package auth

import (
	"context"
	"strings"
	"time"

	"gatormmunity/internal/dao/mysql/repository"
	myredis "gatormmunity/internal/dao/redis"
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/dto/respond"
	"gatormmunity/internal/model"
	"gatormmunity/pkg/enum/user_info/user_role_enum"
	"gatormmunity/pkg/errorx"
	"gatormmunity/pkg/util/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	errBadCredentials = errorx.New(errorx.CodeInvalidPassword, "incorrect email or password")
	errBanned         = errorx.New(errorx.CodeForbidden, "your account has been banned")
	errSessionExpired = errorx.New(errorx.CodeUnauthorized, "session expired, please log in again")
)

type authService struct {
	repos    *repository.Repositories
	sessions myredis.SessionStore
}

// NewAuthService 构造函数
func NewAuthService(repos *repository.Repositories, sessions myredis.SessionStore) *authService {
	return &authService{repos: repos, sessions: sessions}
}

// Login 邮箱密码登录
// 待审核用户可以登录，但在通过审核前不能发布内容
func (a *authService) Login(ctx context.Context, req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := a.repos.User.FindByEmail(NormalizeEmail(req.Email))
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errBadCredentials
		}
		zap.L().Error("find user by email", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errBadCredentials
	}
	if user.IsBanned() {
		return nil, errBanned
	}

	sessionId := uuid.NewString()
	token, err := jwt.GenerateSessionToken(user.Uuid, sessionId)
	if err != nil {
		zap.L().Error("generate session token", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	now := time.Now()
	snapshot := &model.SessionSnapshot{
		UserUuid:  user.Uuid,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		LoginAt:   now,
	}
	if err := a.sessions.Set(ctx, sessionId, snapshot); err != nil {
		zap.L().Error("save session", zap.String("user_id", user.Uuid), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("user logged in", zap.String("user_id", user.Uuid))

	return &respond.LoginRespond{
		Uuid:      user.Uuid,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		RoleName:  user_role_enum.Name(user.Role),
		Thumbnail: user.Thumbnail,
		Token:     token,
		ExpiresAt: now.Add(jwt.Expiry()),
	}, nil
}

// Logout 销毁当前会话
func (a *authService) Logout(ctx context.Context, sessionId string) error {
	if err := a.sessions.Destroy(ctx, sessionId); err != nil {
		zap.L().Error("destroy session", zap.String("session_id", sessionId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// Authenticate 校验令牌签名并确认会话仍然存在
func (a *authService) Authenticate(ctx context.Context, token string) (*model.SessionSnapshot, string, error) {
	claims, err := jwt.ParseToken(token)
	if err != nil {
		return nil, "", errorx.Wrap(err, errorx.CodeUnauthorized, errSessionExpired.Msg)
	}
	snapshot, err := a.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, "", err
	}
	if snapshot == nil || snapshot.UserUuid != claims.UserID {
		return nil, "", errSessionExpired
	}
	return snapshot, claims.SessionID, nil
}

// NormalizeEmail 邮箱统一小写存储和比较
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
