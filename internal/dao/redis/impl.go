// Package redis 提供 CacheService 接口的 Redis 实现
package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gatormmunity/pkg/errorx"
)

// RedisCache Redis 缓存实现，同时带一个固定大小的 Worker Pool 执行异步任务
// 只需要读写缓存的模块依赖 CacheService，需要异步队列的依赖 AsyncCacheService
type RedisCache struct {
	client   *redis.Client
	taskChan chan func()

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewRedisCache 创建 Redis 缓存实例并启动 workerNum 个 Worker
func NewRedisCache(client *redis.Client, workerNum, taskChanSize int) *RedisCache {
	rc := &RedisCache{
		client:   client,
		taskChan: make(chan func(), taskChanSize),
	}
	rc.wg.Add(workerNum)
	for i := 0; i < workerNum; i++ {
		go func() {
			defer rc.wg.Done()
			rc.startWorker()
		}()
	}
	zap.L().Info("redis cache workers started", zap.Int("workers", workerNum), zap.Int("buffer", taskChanSize))
	return rc
}

// startWorker 消费任务直到通道关闭，单个任务 panic 不影响后续任务
func (r *RedisCache) startWorker() {
	for task := range r.taskChan {
		r.run(task)
	}
}

func (r *RedisCache) run(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("redis worker task panic", zap.Any("recover", rec))
		}
	}()
	if task != nil {
		task()
	}
}

// ==================== String 操作 ====================

// Set 设置键值对并指定过期时间
func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis set key %s", key)
	}
	return nil
}

// Get 获取键对应的值（键不存在返回空字符串和 nil）
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errorx.Wrapf(err, errorx.CodeCacheError, "redis get key %s", key)
	}
	return value, nil
}

// ==================== Key 操作 ====================

// Delete 删除键（如果存在）
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Unlink(ctx, key).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeCacheError, "redis unlink key %s", key)
	}
	return nil
}

// DeleteByPattern 删除匹配模式的所有键
func (r *RedisCache) DeleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		var keys []string
		var err error
		keys, cursor, err = r.client.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return errorx.Wrapf(err, errorx.CodeCacheError, "redis scan pattern %s", pattern)
		}
		if len(keys) > 0 {
			if err := r.client.Unlink(ctx, keys...).Err(); err != nil {
				return errorx.Wrapf(err, errorx.CodeCacheError, "redis unlink keys with pattern %s", pattern)
			}
		}
		if cursor == 0 {
			break
		}
	}
	return nil
}

// ==================== 异步任务 ====================

// SubmitTask 提交异步任务
func (r *RedisCache) SubmitTask(action func()) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.run(action)
		return
	}
	select {
	case r.taskChan <- action:
	default:
		// 降级：同步执行
		zap.L().Warn("redis cache task channel full, executing synchronously")
		r.run(action)
	}
}

// Close 停止接收新任务并等待队列中的任务执行完毕
func (r *RedisCache) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.taskChan)
	r.mu.Unlock()
	r.wg.Wait()
}

// 确保 RedisCache 实现了 AsyncCacheService 接口
var _ AsyncCacheService = (*RedisCache)(nil)
