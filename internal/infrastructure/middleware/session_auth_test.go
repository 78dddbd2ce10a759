package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gatormmunity/internal/model"
	"gatormmunity/pkg/constants"
	"gatormmunity/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth map[string]*model.SessionSnapshot

func (f fakeAuth) Authenticate(_ context.Context, token string) (*model.SessionSnapshot, string, error) {
	if s, ok := f[token]; ok {
		return s, "sid-" + token, nil
	}
	return nil, "", errorx.ErrUnauthorized
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionAuth(fakeAuth{"good": {UserUuid: "U1"}}, "sid"))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":    c.GetString(constants.CONTEXT_USER_ID),
			"session": c.GetString(constants.CONTEXT_SESSION_ID),
		})
	})
	return r
}

func TestSessionAuth(t *testing.T) {
	r := newEngine()
	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: "sid", Value: "good"}) }, http.StatusOK},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
		{"bad scheme", func(req *http.Request) { req.Header.Set("Authorization", "Basic good") }, http.StatusUnauthorized},
		{"unknown token", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.status, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.status == http.StatusOK {
				assert.Equal(t, "U1", body["user"])
				assert.Equal(t, "sid-good", body["session"])
			} else {
				assert.Equal(t, "error", body["status"])
				assert.EqualValues(t, errorx.CodeUnauthorized, body["code"])
			}
		})
	}
}
