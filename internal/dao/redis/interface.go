// Package redis 定义缓存服务和会话存储接口
// Service 层依赖这些接口而非具体 Redis 实现
package redis

import (
	"context"
	"time"

	"gatormmunity/internal/model"
)

// CacheService 缓存服务接口
type CacheService interface {
	// Set 设置键值对并指定过期时间
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Get 获取键对应的值（键不存在返回空字符串和 nil）
	Get(ctx context.Context, key string) (string, error)
	// Delete 删除键（如果存在）
	Delete(ctx context.Context, key string) error
	// DeleteByPattern 删除匹配模式的所有键
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AsyncCacheService 异步缓存服务接口
// 提供异步任务提交能力，用于回写缓存和发送通知邮件等非阻塞操作
type AsyncCacheService interface {
	CacheService
	// SubmitTask 提交异步任务，队列满时同步执行
	SubmitTask(action func())
}

// SessionStore 会话存储接口
// 会话 ID 与登录用户的快照一一对应
type SessionStore interface {
	// Get 读取会话快照，会话不存在或已过期时返回 nil, nil
	Get(ctx context.Context, sessionId string) (*model.SessionSnapshot, error)
	// Set 写入会话快照并刷新有效期
	Set(ctx context.Context, sessionId string, snapshot *model.SessionSnapshot) error
	// Destroy 删除单个会话
	Destroy(ctx context.Context, sessionId string) error
	// DestroyByUser 删除某用户的全部会话，封禁时使用
	DestroyByUser(ctx context.Context, userUuid string) error
}
