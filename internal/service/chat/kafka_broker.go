// kafka_broker.go
// 核心职责：分布式模式下的消息代理
// 每个实例使用独立的消费组，因此都能收到全量推送，再各自投递给本机连接
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"

	"gatormmunity/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBroker 基于 Kafka 的消息代理
type KafkaBroker struct {
	hub
	producer *kafka.Writer
	consumer *kafka.Reader

	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

// NewKafkaBroker 创建 Kafka 生产者和消费者
func NewKafkaBroker(cfg config.KafkaConfig, machineID int64) *KafkaBroker {
	timeout := cfg.Timeout * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaBroker{
		producer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.HostPort),
			Topic:                  cfg.ChatTopic,
			Balancer:               &kafka.LeastBytes{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{cfg.HostPort},
			Topic:          cfg.ChatTopic,
			GroupID:        "chat-" + strconv.FormatInt(machineID, 10),
			CommitInterval: timeout,
			StartOffset:    kafka.LastOffset,
		}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish 写入 Kafka
func (b *KafkaBroker) Publish(ctx context.Context, d Delivery) error {
	value, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return b.producer.WriteMessages(ctx, kafka.Message{Value: value})
}

// Start 消费循环，读到的推送投递给本机连接
func (b *KafkaBroker) Start() {
	for {
		msg, err := b.consumer.ReadMessage(b.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || b.ctx.Err() != nil {
				return
			}
			zap.L().Error("kafka read message failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		var d Delivery
		if err := json.Unmarshal(msg.Value, &d); err != nil {
			zap.L().Error("kafka message is not a delivery", zap.Int64("offset", msg.Offset), zap.Error(err))
			continue
		}
		b.deliver(d)
	}
}

func (b *KafkaBroker) RegisterClient(client *UserConn)   { b.register(client) }
func (b *KafkaBroker) UnregisterClient(client *UserConn) { b.unregister(client) }
func (b *KafkaBroker) GetClient(userId string) *UserConn { return b.get(userId) }

// Close 停止消费并关闭 Kafka 连接
func (b *KafkaBroker) Close() {
	b.once.Do(func() {
		b.cancel()
		b.closeAll()
		if err := b.producer.Close(); err != nil {
			zap.L().Error("close kafka producer", zap.Error(err))
		}
		if err := b.consumer.Close(); err != nil {
			zap.L().Error("close kafka consumer", zap.Error(err))
		}
	})
}

var _ MessageBroker = (*KafkaBroker)(nil)
