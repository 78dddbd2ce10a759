package repository

import (
	"errors"
	"testing"

	"gatormmunity/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		terms string
		want  string
	}{
		{"Desk", "%desk%"},
		{"100%", `%100\%%`},
		{"a_b", `%a\_b%`},
		{`c:\tmp`, `%c:\\tmp%`},
	}
	for _, tt := range tests {
		t.Run(tt.terms, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsPattern(tt.terms))
		})
	}
}

func TestWrapDBError(t *testing.T) {
	assert.Nil(t, wrapDBError(nil, "noop"))
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(wrapDBError(gorm.ErrRecordNotFound, "query")))
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(wrapDBError(gorm.ErrDuplicatedKey, "insert")))
	assert.Equal(t, errorx.CodeDBError, errorx.GetCode(wrapDBErrorf(errors.New("timeout"), "query %s", "x")))
}

func TestTransactionWithoutDB(t *testing.T) {
	repos := &Repositories{}
	called := false
	err := repos.Transaction(func(tx *Repositories) error {
		called = true
		assert.Same(t, repos, tx)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}
