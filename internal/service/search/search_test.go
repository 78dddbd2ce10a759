package search

import (
	"errors"
	"strings"
	"testing"

	"gatormmunity/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id       int
	title    string
	category string
}

// store 按 id 倒序返回满足条件的记录
func store(items []item, category string) (Finder[item], *[]string) {
	var calls []string
	return func(terms string, limit int) ([]item, error) {
		calls = append(calls, terms)
		var out []item
		for i := len(items) - 1; i >= 0 && len(out) < limit; i-- {
			it := items[i]
			if category != "" && it.category != category {
				continue
			}
			if terms != "" && !strings.Contains(strings.ToLower(it.title), strings.ToLower(terms)) {
				continue
			}
			out = append(out, it)
		}
		return out, nil
	}, &calls
}

func fixtures(n int) []item {
	items := make([]item, n)
	for i := range items {
		items[i] = item{id: i + 1, title: "item", category: "misc"}
	}
	return items
}

func TestEmptyTermsReturnsNewestBoundedByCap(t *testing.T) {
	find, calls := store(fixtures(30), "")
	res, err := Search("", Caps{Cap: 25, RecommendationCap: 10}, find)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	require.Len(t, res.Records, 25)
	assert.Equal(t, 30, res.Records[0].id)
	assert.Equal(t, 6, res.Records[24].id)
	assert.Equal(t, 25, res.NumMatched())
	assert.Len(t, *calls, 1)
}

func TestMatchIsCaseInsensitiveSubstring(t *testing.T) {
	items := []item{{1, "Calculus Textbook", "books"}, {2, "Desk", "furniture"}, {3, "Physics textbook", "books"}}
	find, _ := store(items, "")
	res, err := Search("  TEXTBOOK ", DefaultCaps, find)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 3, res.Records[0].id)
	assert.Equal(t, 1, res.Records[1].id)
}

func TestNoMatchFallsBackToRecommendations(t *testing.T) {
	find, calls := store(fixtures(20), "")
	res, err := Search("nothing like this", Caps{Cap: 250, RecommendationCap: 10}, find)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	require.Len(t, res.Records, 10)
	assert.Equal(t, 20, res.Records[0].id)
	assert.Equal(t, 0, res.NumMatched())
	assert.Equal(t, []string{"nothing like this", ""}, *calls)
}

func TestFallbackKeepsStructuredFilters(t *testing.T) {
	items := []item{{1, "Lamp", "furniture"}, {2, "Phone", "electronics"}, {3, "Chair", "furniture"}}
	find, _ := store(items, "furniture")
	res, err := Search("phone", DefaultCaps, find)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 3, res.Records[0].id)
	assert.Equal(t, 1, res.Records[1].id)
}

func TestEmptyStoreNeverFails(t *testing.T) {
	find, calls := store(nil, "")
	res, err := Search("anything", DefaultCaps, find)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.NotNil(t, res.Records)
	assert.Empty(t, res.Records)
	assert.Len(t, *calls, 2)

	find, calls = store(nil, "")
	res, err = Search("", DefaultCaps, find)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.NotNil(t, res.Records)
	assert.Len(t, *calls, 1)
}

func TestStorageErrorSurfacesAsSearchFailed(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := Search("x", DefaultCaps, func(string, int) ([]item, error) { return nil, boom })
	require.Error(t, err)
	assert.Equal(t, errorx.CodeSearchFailed, errorx.GetCode(err))
	assert.ErrorIs(t, err, boom)

	// 推荐查询失败同样不重试
	calls := 0
	_, err = Search("x", DefaultCaps, func(terms string, _ int) ([]item, error) {
		calls++
		if terms == "" {
			return nil, boom
		}
		return nil, nil
	})
	assert.Equal(t, errorx.CodeSearchFailed, errorx.GetCode(err))
	assert.Equal(t, 2, calls)
}
