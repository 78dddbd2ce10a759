package model

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScopeOf(t *testing.T) {
	assert.True(t, ScopeOf("").IsGlobal())
	assert.True(t, ScopeOf("global").IsGlobal())

	s := ScopeOf("G241017abc")
	assert.False(t, s.IsGlobal())
	id, ok := s.GroupUuid()
	assert.True(t, ok)
	assert.Equal(t, "G241017abc", id)
	assert.Equal(t, "group:G241017abc", s.String())
}

func TestThreadScope(t *testing.T) {
	global := Thread{}
	assert.True(t, global.Scope().IsGlobal())

	grouped := Thread{GroupUuid: sql.NullString{String: "G1", Valid: true}}
	id, ok := grouped.Scope().GroupUuid()
	assert.True(t, ok)
	assert.Equal(t, "G1", id)
}

func TestUserPasswordAndName(t *testing.T) {
	u := &UserInfo{FirstName: "Ada", LastName: "Lovelace", RawPassword: "secret123"}
	assert.NoError(t, u.BeforeSave(nil))
	assert.Empty(t, u.RawPassword)
	assert.True(t, u.CheckPassword("secret123"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.Equal(t, "Ada Lovelace", u.FullName())

	assert.False(t, u.IsBanned())
	u.BannedBy = sql.NullString{String: "U2", Valid: true}
	assert.True(t, u.IsBanned())
}
