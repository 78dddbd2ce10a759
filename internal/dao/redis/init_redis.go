// Package redis 提供 Redis 缓存操作的封装
// 本文件包含 Redis 连接初始化逻辑
package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gatormmunity/internal/config"

	"github.com/redis/go-redis/v9"
)

// Init 创建 Redis 客户端并确认可连通
func Init(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Db,
		// 连接池配置
		PoolSize:     50,
		MinIdleConns: 15, // 与 Worker 数量匹配
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}
