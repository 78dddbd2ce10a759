package chat

import (
	"sync"

	"go.uber.org/zap"
)

// hub 本机在线连接表，Key 为用户 UUID
type hub struct {
	clients sync.Map
}

func (h *hub) register(client *UserConn) {
	if old, loaded := h.clients.Swap(client.Uuid, client); loaded && old != client {
		old.(*UserConn).close()
	}
	zap.L().Debug("ws client registered", zap.String("user_id", client.Uuid))
}

// unregister 只移除同一个连接，避免误删同一用户的新连接
func (h *hub) unregister(client *UserConn) {
	if h.clients.CompareAndDelete(client.Uuid, client) {
		zap.L().Debug("ws client unregistered", zap.String("user_id", client.Uuid))
	}
	client.close()
}

func (h *hub) get(userId string) *UserConn {
	if v, ok := h.clients.Load(userId); ok {
		return v.(*UserConn)
	}
	return nil
}

// deliver 推送给本机在线的接收者
func (h *hub) deliver(d Delivery) {
	if d.Disconnect {
		for _, id := range d.Recipients {
			if c := h.get(id); c != nil {
				h.unregister(c)
				zap.L().Info("ws client disconnected", zap.String("user_id", id))
			}
		}
		return
	}
	if len(d.Recipients) == 0 {
		h.clients.Range(func(_, v any) bool {
			v.(*UserConn).push(d.Payload)
			return true
		})
		return
	}
	seen := make(map[string]struct{}, len(d.Recipients))
	for _, id := range d.Recipients {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if c := h.get(id); c != nil {
			c.push(d.Payload)
		}
	}
}

func (h *hub) closeAll() {
	h.clients.Range(func(k, v any) bool {
		h.clients.Delete(k)
		v.(*UserConn).close()
		return true
	})
}
