package chat

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBroker(t *testing.T) *ChannelBroker {
	t.Helper()
	b := NewChannelBroker()
	go b.Start()
	t.Cleanup(b.Close)
	return b
}

func receive(t *testing.T, c *UserConn) string {
	t.Helper()
	select {
	case p := <-c.SendBack:
		return string(p)
	case <-time.After(time.Second):
		t.Fatalf("no delivery for %s", c.Uuid)
		return ""
	}
}

func assertNothing(t *testing.T, c *UserConn) {
	t.Helper()
	select {
	case p := <-c.SendBack:
		t.Fatalf("unexpected delivery for %s: %s", c.Uuid, p)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestChannelBrokerDeliversToRecipients(t *testing.T) {
	b := startBroker(t)
	alice, bob, carol := NewUserConn(nil, "alice"), NewUserConn(nil, "bob"), NewUserConn(nil, "carol")
	b.RegisterClient(alice)
	b.RegisterClient(bob)
	b.RegisterClient(carol)

	require.NoError(t, b.Publish(context.Background(), Delivery{
		Recipients: []string{"alice", "bob", "bob", "offline"},
		Payload:    json.RawMessage(`{"content":"hi"}`),
	}))

	assert.Equal(t, `{"content":"hi"}`, receive(t, alice))
	assert.Equal(t, `{"content":"hi"}`, receive(t, bob))
	assertNothing(t, bob)
	assertNothing(t, carol)
}

func TestChannelBrokerBroadcast(t *testing.T) {
	b := startBroker(t)
	alice, bob := NewUserConn(nil, "alice"), NewUserConn(nil, "bob")
	b.RegisterClient(alice)
	b.RegisterClient(bob)

	require.NoError(t, b.Publish(context.Background(), Delivery{Payload: json.RawMessage(`1`)}))

	assert.Equal(t, "1", receive(t, alice))
	assert.Equal(t, "1", receive(t, bob))
}

func TestRegisterReplacesOldConnection(t *testing.T) {
	b := NewChannelBroker()
	old, fresh := NewUserConn(nil, "alice"), NewUserConn(nil, "alice")
	b.RegisterClient(old)
	b.RegisterClient(fresh)

	assert.Same(t, fresh, b.GetClient("alice"))
	_, open := <-old.SendBack
	assert.False(t, open)

	// 旧连接的注销不影响新连接
	b.UnregisterClient(old)
	assert.Same(t, fresh, b.GetClient("alice"))

	b.UnregisterClient(fresh)
	assert.Nil(t, b.GetClient("alice"))
}

func TestPushAfterCloseDoesNotPanic(t *testing.T) {
	c := NewUserConn(nil, "alice")
	c.close()
	c.close()
	assert.NotPanics(t, func() { c.push([]byte("x")) })
}

func TestPushConcurrentWithClose(t *testing.T) {
	c := NewUserConn(nil, "alice")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				c.push([]byte("x"))
			}
		}()
	}
	c.close()
	wg.Wait()

	for range c.SendBack {
	}
}

func TestDisconnectDeliveryDropsClient(t *testing.T) {
	b := startBroker(t)
	banned, other := NewUserConn(nil, "banned"), NewUserConn(nil, "other")
	b.RegisterClient(banned)
	b.RegisterClient(other)

	require.NoError(t, b.Publish(context.Background(), DisconnectOf("banned")))
	require.Eventually(t, func() bool { return b.GetClient("banned") == nil }, time.Second, 10*time.Millisecond)

	require.NoError(t, b.Publish(context.Background(), Delivery{Payload: json.RawMessage(`"global hello"`)}))
	assert.Equal(t, `"global hello"`, receive(t, other))
	_, open := <-banned.SendBack
	assert.False(t, open)
	assert.Same(t, other, b.GetClient("other"))
}

func TestDisconnectWithoutRecipientsIsIgnored(t *testing.T) {
	b := startBroker(t)
	alice := NewUserConn(nil, "alice")
	b.RegisterClient(alice)

	require.NoError(t, b.Publish(context.Background(), Delivery{Disconnect: true}))
	require.NoError(t, b.Publish(context.Background(), Delivery{Payload: json.RawMessage(`2`)}))
	assert.Equal(t, "2", receive(t, alice))
	assert.Same(t, alice, b.GetClient("alice"))
}

func TestDeliveryJSONCarriesDisconnect(t *testing.T) {
	data, err := json.Marshal(DisconnectOf("bob"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"recipients":["bob"],"disconnect":true}`, string(data))

	var d Delivery
	require.NoError(t, json.Unmarshal(data, &d))
	assert.True(t, d.Disconnect)
	assert.Equal(t, []string{"bob"}, d.Recipients)
}

func TestPublishAfterClose(t *testing.T) {
	b := NewChannelBroker()
	b.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	for i := 0; i < cap(b.transmit)+1; i++ {
		if err := b.Publish(ctx, Delivery{}); err != nil {
			return
		}
	}
	t.Fatal("publish to a closed broker should eventually fail")
}

func TestGatewayPushesOverWebsocket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	b := startBroker(t)
	gw := NewGateway(b, nil)

	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { gw.Connect(c, "alice") })
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return b.GetClient("alice") != nil }, time.Second, 10*time.Millisecond)
	require.NoError(t, b.Publish(context.Background(), Delivery{
		Recipients: []string{"alice"},
		Payload:    json.RawMessage(`{"type":"direct"}`),
	}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"direct"}`, string(data))

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return b.GetClient("alice") == nil }, 2*time.Second, 10*time.Millisecond)
}
