package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"gatormmunity/internal/dao/mysql/repository/repotest"
	myredis "gatormmunity/internal/dao/redis"
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/model"
	"gatormmunity/pkg/errorx"
	"gatormmunity/pkg/util/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*authService, *repotest.Store, *miniredis.Miniredis) {
	t.Helper()
	jwt.Init("test-secret-test-secret-test-secret", 1)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repos, store := repotest.NewRepositories()
	require.NoError(t, repos.User.Create(&model.UserInfo{
		Uuid: "U1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@uni.edu", RawPassword: "correct-horse",
	}))
	require.NoError(t, repos.User.Create(&model.UserInfo{
		Uuid: "U2", FirstName: "Bad", LastName: "Actor", Email: "bad@uni.edu", RawPassword: "correct-horse",
		BannedBy: sql.NullString{String: "U9", Valid: true},
	}))
	return NewAuthService(repos, myredis.NewRedisSessionStore(client, time.Hour)), store, mr
}

func TestLoginAndAuthenticate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	rsp, err := svc.Login(ctx, request.LoginRequest{Email: " ADA@uni.edu ", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "U1", rsp.Uuid)
	assert.Equal(t, "unapproved", rsp.RoleName)
	require.NotEmpty(t, rsp.Token)

	snapshot, sessionId, err := svc.Authenticate(ctx, rsp.Token)
	require.NoError(t, err)
	assert.Equal(t, "U1", snapshot.UserUuid)
	assert.NotEmpty(t, sessionId)

	require.NoError(t, svc.Logout(ctx, sessionId))
	_, _, err = svc.Authenticate(ctx, rsp.Token)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestLoginRejects(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		req      request.LoginRequest
		wantCode int
		wantMsg  string
	}{
		{"unknown email", request.LoginRequest{Email: "nobody@uni.edu", Password: "x"}, errorx.CodeInvalidPassword, "incorrect email or password"},
		{"wrong password", request.LoginRequest{Email: "ada@uni.edu", Password: "wrong"}, errorx.CodeInvalidPassword, "incorrect email or password"},
		{"banned", request.LoginRequest{Email: "bad@uni.edu", Password: "correct-horse"}, errorx.CodeForbidden, "your account has been banned"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.req)
			require.Error(t, err)
			var codeErr *errorx.CodeError
			require.ErrorAs(t, err, &codeErr)
			assert.Equal(t, tt.wantCode, codeErr.Code)
			assert.Equal(t, tt.wantMsg, codeErr.Msg)
		})
	}
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	rsp, err := svc.Login(context.Background(), request.LoginRequest{Email: "ada@uni.edu", Password: "correct-horse"})
	require.NoError(t, err)

	_, _, err = svc.Authenticate(context.Background(), rsp.Token+"x")
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))

	_, _, err = svc.Authenticate(context.Background(), "not-a-token")
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}

func TestAuthenticateAfterSessionsDestroyed(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	rsp, err := svc.Login(ctx, request.LoginRequest{Email: "ada@uni.edu", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, svc.sessions.DestroyByUser(ctx, "U1"))
	_, _, err = svc.Authenticate(ctx, rsp.Token)
	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(err))
}
