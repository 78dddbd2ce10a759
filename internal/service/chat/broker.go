// Package chat 负责把新消息实时推送给在线用户
// broker.go
// 核心职责：定义消息代理接口
// 单机部署使用 ChannelBroker，多实例部署使用 KafkaBroker，每个实例只推送给连在本机的用户
package chat

import (
	"context"
	"encoding/json"
)

// Delivery 一次推送
// Recipients 为空表示推送给所有在线用户（全局聊天）
// Disconnect 为 true 时不推送 Payload，而是断开 Recipients 在各实例上的连接
type Delivery struct {
	Recipients []string        `json:"recipients,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Disconnect bool            `json:"disconnect,omitempty"`
}

// DisconnectOf 断开某用户全部推送连接的投递，封禁和拒绝审核时使用
func DisconnectOf(userId string) Delivery {
	return Delivery{Recipients: []string{userId}, Disconnect: true}
}

// MessageBroker 消息代理接口
type MessageBroker interface {
	// Publish 投递一次推送，不等待送达
	Publish(ctx context.Context, d Delivery) error
	// RegisterClient 注册客户端连接，同一用户的旧连接会被替换
	RegisterClient(client *UserConn)
	// UnregisterClient 注销客户端连接
	UnregisterClient(client *UserConn)
	// GetClient 获取指定用户在本机的连接
	GetClient(userId string) *UserConn
	// Start 启动消费循环，阻塞直到 Close
	Start()
	// Close 关闭代理资源
	Close()
}
