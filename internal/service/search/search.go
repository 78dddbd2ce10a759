// Package search 实现带推荐回退的搜索
// 文本和结构化条件查不到任何记录时，去掉文本条件取最新的若干条作为推荐
package search

import (
	"strings"

	"gatormmunity/pkg/errorx"

	"go.uber.org/zap"
)

// Finder 执行一次查询
// terms 为空表示不做文本匹配；结构化过滤条件由 Finder 自己绑定，结果按创建顺序倒序，最多 limit 条
type Finder[T any] func(terms string, limit int) ([]T, error)

// Caps 主搜索和推荐的结果上限，均须为正数
type Caps struct {
	Cap               int
	RecommendationCap int
}

// DefaultCaps 主搜索 250 条，推荐 10 条
var DefaultCaps = Caps{Cap: 250, RecommendationCap: 10}

// Result 搜索结果
// Matched 为 false 时 Records 是推荐集合
type Result[T any] struct {
	Matched bool
	Records []T
}

// NumMatched 实际命中的条数，推荐结果不计入
func (r Result[T]) NumMatched() int {
	if !r.Matched {
		return 0
	}
	return len(r.Records)
}

// Search 执行搜索，命中为空时回退到推荐
// 存储错误统一返回 "search failed"，不重试
func Search[T any](terms string, caps Caps, find Finder[T]) (Result[T], error) {
	terms = strings.TrimSpace(terms)

	records, err := find(terms, caps.Cap)
	if err != nil {
		zap.L().Error("search query failed", zap.String("terms", terms), zap.Error(err))
		return Result[T]{}, errorx.Wrap(err, errorx.CodeSearchFailed, errorx.ErrSearchFailed.Msg)
	}
	if len(records) > 0 {
		return Result[T]{Matched: true, Records: records}, nil
	}

	// 不带文本条件的查询为空，说明过滤后本就没有记录，推荐也必然为空
	if terms == "" {
		return Result[T]{Records: []T{}}, nil
	}

	records, err = find("", caps.RecommendationCap)
	if err != nil {
		zap.L().Error("recommendation query failed", zap.Error(err))
		return Result[T]{}, errorx.Wrap(err, errorx.CodeSearchFailed, errorx.ErrSearchFailed.Msg)
	}
	if records == nil {
		records = []T{}
	}
	return Result[T]{Records: records}, nil
}
