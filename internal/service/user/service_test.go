package user

import (
	"context"
	"testing"

	"gatormmunity/internal/dao/mysql/repository/repotest"
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/service/search"
	"gatormmunity/internal/service/servicetest"
	"gatormmunity/pkg/enum/user_info/user_role_enum"
	"gatormmunity/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*userInfoService, *repotest.Store, *servicetest.Files) {
	repos, store := repotest.NewRepositories()
	files := servicetest.NewFiles(t)
	return NewUserService(repos, files, search.DefaultCaps, filestore.Size{Width: 16, Height: 16}), store, files
}

func registerReq(t *testing.T, email string) request.RegisterRequest {
	return request.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "password123",
		IdPicture: servicetest.Image(t),
	}
}

func TestRegister(t *testing.T) {
	svc, store, files := newTestService(t)

	rsp, err := svc.Register(context.Background(), registerReq(t, "Ada@Uni.edu"))
	require.NoError(t, err)
	assert.Equal(t, user_role_enum.UNAPPROVED, rsp.Role)
	assert.Equal(t, "ada@uni.edu", rsp.Email)
	assert.Equal(t, 1, store.UserCount())
	assert.Equal(t, 1, files.Count(t))

	user, err := svc.repos.User.FindByUuid(rsp.Uuid)
	require.NoError(t, err)
	assert.True(t, user.CheckPassword("password123"))
	assert.True(t, files.Exists(user.IdPicture))
	assert.Empty(t, files.URL(user.IdPicture), "id pictures are never public")
}

func TestRegisterDuplicateEmailLeavesNoRowOrFile(t *testing.T) {
	svc, store, files := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq(t, "ada@uni.edu"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq(t, "ADA@uni.edu"))
	require.Error(t, err)
	assert.Equal(t, errorx.CodeUserExist, errorx.GetCode(err))
	assert.EqualError(t, err, "email already in use")
	assert.Equal(t, 1, store.UserCount())
	assert.Equal(t, 1, files.Count(t))
}

func TestRegisterRejectsNonImage(t *testing.T) {
	svc, store, files := newTestService(t)
	req := registerReq(t, "ada@uni.edu")
	req.IdPicture = servicetest.FileHeader(t, "id.png", []byte("definitely not an image"))

	_, err := svc.Register(context.Background(), req)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
	assert.Zero(t, store.UserCount())
	assert.Zero(t, files.Count(t))
}

func TestSearchUsers(t *testing.T) {
	svc, _, _ := newTestService(t)
	servicetest.AddUser(t, svc.repos, "U1", "Ada", "Lovelace", user_role_enum.APPROVED)
	servicetest.AddUser(t, svc.repos, "U2", "Alan", "Turing", user_role_enum.APPROVED)
	servicetest.AddUser(t, svc.repos, "U3", "Grace", "Hopper", user_role_enum.UNAPPROVED)

	t.Run("match", func(t *testing.T) {
		rsp, err := svc.SearchUsers(context.Background(), request.SearchUsersRequest{SearchTerms: "tur"})
		require.NoError(t, err)
		assert.True(t, rsp.Matched)
		assert.Equal(t, 1, rsp.NumMatched)
		require.Len(t, rsp.Users, 1)
		assert.Equal(t, "U2", rsp.Users[0].Uuid)
		assert.Empty(t, rsp.Users[0].Email)
	})

	t.Run("role filter with fallback", func(t *testing.T) {
		role := user_role_enum.APPROVED
		rsp, err := svc.SearchUsers(context.Background(), request.SearchUsersRequest{SearchTerms: "hopper", Role: &role})
		require.NoError(t, err)
		assert.False(t, rsp.Matched)
		assert.Zero(t, rsp.NumMatched)
		require.Len(t, rsp.Users, 2)
		assert.Equal(t, "U2", rsp.Users[0].Uuid)
		assert.Equal(t, "U1", rsp.Users[1].Uuid)
	})
}

func TestGetUserInfoHidesEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	servicetest.AddUser(t, svc.repos, "U1", "Ada", "Lovelace", user_role_enum.APPROVED)
	servicetest.AddUser(t, svc.repos, "U2", "Alan", "Turing", user_role_enum.APPROVED)
	servicetest.AddUser(t, svc.repos, "M1", "Mod", "Erator", user_role_enum.MODERATOR)
	ctx := context.Background()

	self, err := svc.GetUserInfo(ctx, "U1", "U1")
	require.NoError(t, err)
	assert.Equal(t, "U1@uni.edu", self.Email)

	other, err := svc.GetUserInfo(ctx, "U2", "U1")
	require.NoError(t, err)
	assert.Empty(t, other.Email)

	mod, err := svc.GetUserInfo(ctx, "M1", "U1")
	require.NoError(t, err)
	assert.Equal(t, "U1@uni.edu", mod.Email)

	_, err = svc.GetUserInfo(ctx, "U1", "missing")
	assert.Equal(t, errorx.CodeUserNotExist, errorx.GetCode(err))
}

func TestUpdatePictureReplacesOldFiles(t *testing.T) {
	svc, _, files := newTestService(t)
	servicetest.AddUser(t, svc.repos, "U1", "Ada", "Lovelace", user_role_enum.APPROVED)
	ctx := context.Background()

	first, err := svc.UpdatePicture(ctx, "U1", request.UpdatePictureRequest{Picture: servicetest.Image(t)})
	require.NoError(t, err)
	assert.Contains(t, first.Thumbnail, "_thumb")
	assert.Equal(t, 2, files.Count(t))

	_, err = svc.UpdatePicture(ctx, "U1", request.UpdatePictureRequest{Picture: servicetest.Image(t)})
	require.NoError(t, err)
	assert.Equal(t, 2, files.Count(t))
}
