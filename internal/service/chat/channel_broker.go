// channel_broker.go
// 核心职责：单机模式下的消息代理，不依赖外部消息队列，适合小规模或开发环境
package chat

import (
	"context"
	"sync"

	"gatormmunity/pkg/constants"
)

// ChannelBroker 通过内存通道转发推送
type ChannelBroker struct {
	hub
	transmit chan Delivery
	done     chan struct{}
	once     sync.Once
}

// NewChannelBroker 创建单机消息代理
func NewChannelBroker() *ChannelBroker {
	return &ChannelBroker{
		transmit: make(chan Delivery, constants.CHANNEL_SIZE),
		done:     make(chan struct{}),
	}
}

// Start 消费循环
func (b *ChannelBroker) Start() {
	for {
		select {
		case d := <-b.transmit:
			b.deliver(d)
		case <-b.done:
			return
		}
	}
}

// Publish 放入转发通道，通道满时等待直到 ctx 结束
func (b *ChannelBroker) Publish(ctx context.Context, d Delivery) error {
	select {
	case b.transmit <- d:
		return nil
	case <-b.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *ChannelBroker) RegisterClient(client *UserConn)   { b.register(client) }
func (b *ChannelBroker) UnregisterClient(client *UserConn) { b.unregister(client) }
func (b *ChannelBroker) GetClient(userId string) *UserConn { return b.get(userId) }

// Close 停止消费并断开所有连接
func (b *ChannelBroker) Close() {
	b.once.Do(func() {
		close(b.done)
		b.closeAll()
	})
}

var _ MessageBroker = (*ChannelBroker)(nil)
