package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gatormmunity/internal/model"
	"gatormmunity/pkg/errorx"

	"github.com/redis/go-redis/v9"
)

// RedisSessionStore 基于 Redis 的会话存储
// session:<id> 保存 JSON 快照，session_user:<uuid> 记录该用户的全部会话 ID
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore 从已有客户端创建会话存储
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (s *RedisSessionStore) key(sessionId string) string {
	return s.prefix + sessionId
}

func (s *RedisSessionStore) userKey(userUuid string) string {
	return s.prefix[:len(s.prefix)-1] + "_user:" + userUuid
}

// Get 读取会话快照
func (s *RedisSessionStore) Get(ctx context.Context, sessionId string) (*model.SessionSnapshot, error) {
	data, err := s.client.Get(ctx, s.key(sessionId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeCacheError, "lookup session")
	}
	var snapshot model.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeCacheError, "unmarshal session")
	}
	return &snapshot, nil
}

// Set 写入会话快照，并把会话 ID 记入用户索引
func (s *RedisSessionStore) Set(ctx context.Context, sessionId string, snapshot *model.SessionSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return errorx.Wrap(err, errorx.CodeCacheError, "marshal session")
	}
	userKey := s.userKey(snapshot.UserUuid)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(sessionId), data, s.ttl)
		pipe.SAdd(ctx, userKey, sessionId)
		pipe.Expire(ctx, userKey, s.ttl)
		return nil
	})
	if err != nil {
		return errorx.Wrap(err, errorx.CodeCacheError, "save session")
	}
	return nil
}

// Destroy 删除会话
func (s *RedisSessionStore) Destroy(ctx context.Context, sessionId string) error {
	snapshot, err := s.Get(ctx, sessionId)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(sessionId))
	if snapshot != nil {
		pipe.SRem(ctx, s.userKey(snapshot.UserUuid), sessionId)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errorx.Wrap(err, errorx.CodeCacheError, "destroy session")
	}
	return nil
}

// DestroyByUser 删除用户的全部会话
func (s *RedisSessionStore) DestroyByUser(ctx context.Context, userUuid string) error {
	userKey := s.userKey(userUuid)
	ids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return errorx.Wrap(err, errorx.CodeCacheError, "list user sessions")
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	keys = append(keys, userKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return errorx.Wrap(err, errorx.CodeCacheError, "destroy user sessions")
	}
	return nil
}

var _ SessionStore = (*RedisSessionStore)(nil)
