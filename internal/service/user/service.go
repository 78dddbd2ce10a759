// Package user 处理注册、资料查询、用户搜索和头像更新
package user

import (
	"context"
	"fmt"

	"gatormmunity/internal/dao/mysql/repository"
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/dto/respond"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/model"
	"gatormmunity/internal/service/auth"
	"gatormmunity/internal/service/rolegate"
	"gatormmunity/internal/service/search"
	"gatormmunity/pkg/constants"
	"gatormmunity/pkg/enum/user_info/user_role_enum"
	"gatormmunity/pkg/errorx"
	"gatormmunity/pkg/util/random"

	"go.uber.org/zap"
)

var errEmailInUse = errorx.New(errorx.CodeUserExist, "email already in use")

// userInfoService 用户业务逻辑实现
type userInfoService struct {
	repos *repository.Repositories
	files filestore.FileStore
	caps  search.Caps
	thumb filestore.Size
}

// NewUserService 构造函数
func NewUserService(repos *repository.Repositories, files filestore.FileStore, caps search.Caps, thumb filestore.Size) *userInfoService {
	return &userInfoService{repos: repos, files: files, caps: caps, thumb: thumb}
}

// Register 注册新用户，初始角色为待审核
// 身份证明照片先于用户记录写入，记录写入失败时删除照片
func (u *userInfoService) Register(ctx context.Context, req request.RegisterRequest) (*respond.RegisterRespond, error) {
	email := auth.NormalizeEmail(req.Email)
	if _, err := u.repos.User.FindByEmail(email); err == nil {
		return nil, errEmailInUse
	} else if !errorx.IsNotFound(err) {
		zap.L().Error("check email", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	idPicture, err := filestore.SaveUpload(ctx, u.files, req.IdPicture, constants.CATEGORY_IDS)
	if err != nil {
		return nil, err
	}

	user := model.UserInfo{
		Uuid:        fmt.Sprintf("U%s", random.GetNowAndLenRandomString(11)),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       email,
		Role:        user_role_enum.UNAPPROVED,
		IdPicture:   idPicture,
		RawPassword: req.Password,
	}
	if err := u.repos.User.Create(&user); err != nil {
		filestore.Cleanup(ctx, u.files, idPicture)
		if errorx.Is(err, errorx.CodeUserExist) {
			return nil, errEmailInUse
		}
		zap.L().Error("create user", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	zap.L().Info("user registered", zap.String("user_id", user.Uuid))

	return &respond.RegisterRespond{
		Uuid:     user.Uuid,
		Email:    user.Email,
		Role:     user.Role,
		RoleName: user_role_enum.Name(user.Role),
	}, nil
}

// GetUserInfo 获取用户资料，邮箱只对本人和版主可见
func (u *userInfoService) GetUserInfo(ctx context.Context, viewerId, userId string) (*respond.UserInfoRespond, error) {
	user, err := u.repos.User.FindByUuid(userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, rolegate.ErrUserNotExist
		}
		zap.L().Error("get user info", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := u.toRespond(user)
	if viewerId != userId {
		viewer, err := u.repos.User.FindByUuid(viewerId)
		if err != nil || viewer.Role < user_role_enum.MODERATOR {
			rsp.Email = ""
		}
	}
	return &rsp, nil
}

// SearchUsers 按姓名和角色搜索用户，无匹配时返回最新注册的用户
func (u *userInfoService) SearchUsers(ctx context.Context, req request.SearchUsersRequest) (*respond.SearchUsersRespond, error) {
	filter := repository.UserFilter{Role: req.Role}
	result, err := search.Search(req.SearchTerms, u.caps, func(terms string, limit int) ([]model.UserInfo, error) {
		return u.repos.User.Search(filter, terms, limit)
	})
	if err != nil {
		return nil, err
	}
	users := make([]respond.UserInfoRespond, 0, len(result.Records))
	for i := range result.Records {
		rsp := u.toRespond(&result.Records[i])
		rsp.Email = ""
		users = append(users, rsp)
	}
	return &respond.SearchUsersRespond{
		Matched:    result.Matched,
		NumMatched: result.NumMatched(),
		Users:      users,
	}, nil
}

// UpdatePicture 更新头像并生成缩略图，成功后删除旧文件
func (u *userInfoService) UpdatePicture(ctx context.Context, userId string, req request.UpdatePictureRequest) (*respond.PictureRespond, error) {
	old, err := u.repos.User.FindByUuid(userId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, rolegate.ErrUserNotExist
		}
		zap.L().Error("find user", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	saved, err := filestore.SaveImageWithThumbnail(ctx, u.files, req.Picture, constants.CATEGORY_USERS, u.thumb.Width, u.thumb.Height)
	if err != nil {
		return nil, err
	}
	if err := u.repos.User.UpdatePicture(userId, saved.Picture, saved.Thumbnail); err != nil {
		filestore.Cleanup(ctx, u.files, saved.Paths()...)
		zap.L().Error("update picture", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	filestore.Cleanup(ctx, u.files, old.Picture, old.Thumbnail)

	return &respond.PictureRespond{
		Picture:   u.files.URL(saved.Picture),
		Thumbnail: u.files.URL(saved.Thumbnail),
	}, nil
}

func (u *userInfoService) toRespond(user *model.UserInfo) respond.UserInfoRespond {
	return respond.UserInfoRespond{
		Uuid:      user.Uuid,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		RoleName:  user_role_enum.Name(user.Role),
		Banned:    user.IsBanned(),
		Picture:   u.files.URL(user.Picture),
		Thumbnail: u.files.URL(user.Thumbnail),
		CreatedAt: user.CreatedAt,
	}
}
