package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeDBError, "query user")

	assert.Equal(t, "query user: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeDBError, GetCode(err))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	inner := New(CodeForbidden, "only administrators can appoint moderators")
	outer := fmt.Errorf("appoint: %w", inner)

	assert.Equal(t, CodeForbidden, GetCode(outer))
	assert.True(t, Is(outer, CodeForbidden))
	assert.False(t, Is(outer, CodeNotFound))
}

func TestGetCodeDefaultsToServerBusy(t *testing.T) {
	assert.Equal(t, CodeServerBusy, GetCode(errors.New("boom")))
}

func TestIsNotFound(t *testing.T) {
	require.True(t, IsNotFound(Wrap(errors.New("record not found"), CodeNotFound, "user")))
	require.True(t, IsNotFound(errors.New("record not found")))
	require.False(t, IsNotFound(nil))
	require.False(t, IsNotFound(New(CodeDBError, "db")))
}

func TestNewf(t *testing.T) {
	err := Newf(CodeInvalidParam, "invalid file type: %s", "text/plain")
	assert.Equal(t, "invalid file type: text/plain", err.Msg)
}
