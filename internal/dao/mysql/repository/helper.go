package repository

import (
	"errors"
	"strings"

	"gatormmunity/pkg/errorx"

	"gorm.io/gorm"
)

// ==================== 错误包装辅助函数 ====================

// wrapDBError 包装数据库错误
// 根据错误类型返回不同的错误码：
//   - ErrRecordNotFound -> CodeNotFound
//   - ErrDuplicatedKey -> CodeConflict
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Wrap(err, errorx.CodeConflict, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

// wrapDBErrorf 功能同 wrapDBError，支持格式化消息
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Wrapf(err, errorx.CodeConflict, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}

// ErrStateChanged 条件更新未命中任何行：目标在读取之后被并发修改
var ErrStateChanged = errorx.New(errorx.CodeConflict, "user state changed, please retry")

// ErrMembershipChanged 群成员角色被并发修改
var ErrMembershipChanged = errorx.New(errorx.CodeConflict, "membership changed, please retry")

// checkSwapped 将条件更新的结果转换为错误
func checkSwapped(tx *gorm.DB, conflict error, msg string) error {
	if tx.Error != nil {
		return wrapDBError(tx.Error, msg)
	}
	if tx.RowsAffected == 0 {
		return conflict
	}
	return nil
}

// ContainsPattern 构造大小写不敏感的子串匹配模式
// 用户输入中的 LIKE 通配符按字面量处理
func ContainsPattern(terms string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(terms)) + "%"
}
