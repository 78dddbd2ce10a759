package rolegate

import (
	"gatormmunity/internal/model"
	"gatormmunity/pkg/errorx"

	"go.uber.org/zap"
)

// UserReader 按 UUID 读取用户
type UserReader interface {
	FindByUuid(uuid string) (*model.UserInfo, error)
}

// ErrUserNotExist 操作涉及的用户不存在
var ErrUserNotExist = errorx.New(errorx.CodeUserNotExist, "user not found")

// LoadSubject 读取用户并查询其在作用域内的角色
// 用户不存在返回 ErrUserNotExist，存储错误记录日志后返回 ErrServerBusy
func LoadSubject(users UserReader, members GroupRoleReader, scope model.Scope, userUuid string) (Subject, *model.UserInfo, error) {
	user, err := users.FindByUuid(userUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return Subject{}, nil, ErrUserNotExist
		}
		zap.L().Error("load subject", zap.String("user_id", userUuid), zap.Error(err))
		return Subject{}, nil, errorx.ErrServerBusy
	}
	role, err := GroupRole(members, scope, userUuid)
	if err != nil {
		zap.L().Error("load group role", zap.String("user_id", userUuid), zap.Stringer("scope", scope), zap.Error(err))
		return Subject{}, nil, errorx.ErrServerBusy
	}
	return SubjectOf(user, role), user, nil
}
