package random

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetNowAndLenRandomString(t *testing.T) {
	s := GetNowAndLenRandomString(11)
	assert.Len(t, s, 17)
	assert.NotEqual(t, s, GetNowAndLenRandomString(11))
}

func TestGetJoinCode(t *testing.T) {
	code := GetJoinCode(8)
	assert.Len(t, code, 8)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(joinCodeCharset, r), "unexpected rune %q", r)
	}
}

func TestGetRandomInt(t *testing.T) {
	for i := 0; i < 20; i++ {
		n := GetRandomInt(6)
		assert.GreaterOrEqual(t, n, 100000)
		assert.Less(t, n, 1000000)
	}
}
