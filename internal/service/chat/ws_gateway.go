// ws_gateway.go
// 核心职责：WebSocket 连接生命周期管理
// 连接只用于服务端推送，客户端发消息走 HTTP 接口
package chat

import (
	"net/http"
	"sync"
	"time"

	"gatormmunity/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// UserConn 一个用户的 WebSocket 连接
type UserConn struct {
	Conn     *websocket.Conn
	Uuid     string
	SendBack chan []byte // 待推送给前端的消息

	mu     sync.Mutex // 保护 closed，关闭后不再写入 SendBack
	closed bool
}

// NewUserConn 创建连接对象，conn 为 nil 时只缓冲消息
func NewUserConn(conn *websocket.Conn, userId string) *UserConn {
	return &UserConn{
		Conn:     conn,
		Uuid:     userId,
		SendBack: make(chan []byte, constants.CHANNEL_SIZE),
	}
}

// push 非阻塞写入，客户端消费过慢时丢弃
func (c *UserConn) push(payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.SendBack <- payload:
	default:
		zap.L().Warn("ws send buffer full, dropping message", zap.String("user_id", c.Uuid))
	}
}

// close 关闭发送通道，写协程随之退出并关闭底层连接
func (c *UserConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.SendBack)
	}
}

// Read 读协程：只处理控制帧，读取失败即注销连接
func (c *UserConn) Read(broker MessageBroker) {
	defer broker.UnregisterClient(c)
	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Info("ws read closed", zap.String("user_id", c.Uuid), zap.Error(err))
			}
			return
		}
	}
}

// Write 写协程：推送消息并定时发送 ping
func (c *UserConn) Write() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.SendBack:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				zap.L().Warn("ws write failed", zap.String("user_id", c.Uuid), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Gateway 把 HTTP 请求升级为推送连接
type Gateway struct {
	broker   MessageBroker
	upgrader websocket.Upgrader
}

// NewGateway allowedOrigins 为空时允许任意来源
func NewGateway(broker MessageBroker, allowedOrigins []string) *Gateway {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}
	return &Gateway{
		broker: broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 2048,
			CheckOrigin: func(r *http.Request) bool {
				return len(origins) == 0 || origins[r.Header.Get("Origin")]
			},
		},
	}
}

// Connect 升级连接并启动读写协程
func (g *Gateway) Connect(c *gin.Context, userId string) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 已写入错误响应
		zap.L().Warn("ws upgrade failed", zap.String("user_id", userId), zap.Error(err))
		return
	}
	client := NewUserConn(conn, userId)
	g.broker.RegisterClient(client)
	go client.Write()
	go client.Read(g.broker)
	zap.L().Info("ws connected", zap.String("user_id", userId))
}
