package pigeon

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

const testWait = 2 * time.Second

// fakeGateway is an in-process realtime endpoint: it upgrades every request,
// records inbound envelopes, and lets tests push frames to the client.
type fakeGateway struct {
	t        *testing.T
	server   *httptest.Server
	upgrader websocket.Upgrader

	lock  sync.Mutex
	conns []*websocket.Conn
	dials int

	received chan Envelope
	connCh   chan *websocket.Conn
}

func newFakeGateway(t *testing.T) *fakeGateway {
	gateway := &fakeGateway{
		t:        t,
		received: make(chan Envelope, 64),
		connCh:   make(chan *websocket.Conn, 8),
	}
	gateway.server = httptest.NewServer(http.HandlerFunc(gateway.handle))
	t.Cleanup(func() {
		gateway.closeConns()
		gateway.server.Close()
	})
	return gateway
}

func (gateway *fakeGateway) handle(writer http.ResponseWriter, request *http.Request) {
	conn, err := gateway.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		return
	}

	gateway.lock.Lock()
	gateway.dials++
	gateway.conns = append(gateway.conns, conn)
	gateway.lock.Unlock()

	select {
	case gateway.connCh <- conn:
	default:
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			_ = conn.Close()
			return
		}
		var envelope Envelope
		if json.Unmarshal(frame, &envelope) == nil {
			gateway.received <- envelope
		}
	}
}

func (gateway *fakeGateway) closeConns() {
	gateway.lock.Lock()
	conns := append([]*websocket.Conn(nil), gateway.conns...)
	gateway.lock.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (gateway *fakeGateway) dialCount() int {
	gateway.lock.Lock()
	defer gateway.lock.Unlock()
	return gateway.dials
}

func (gateway *fakeGateway) wsURL() string {
	return "ws" + strings.TrimPrefix(gateway.server.URL, "http")
}

func (gateway *fakeGateway) config() Config {
	return Config{
		Token:                "test-token",
		WSURL:                gateway.wsURL(),
		DisableAutoReconnect: true,
		ReconnectInterval:    20 * time.Millisecond,
	}
}

// waitConn blocks until a new server-side connection is available.
func (gateway *fakeGateway) waitConn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case conn := <-gateway.connCh:
		return conn
	case <-time.After(testWait):
		t.Fatalf("timed out waiting for a gateway connection")
		return nil
	}
}

// expect blocks until the client transmits an envelope with the tag.
func (gateway *fakeGateway) expect(t *testing.T, tag string) Envelope {
	t.Helper()
	select {
	case envelope := <-gateway.received:
		if envelope.Type != tag {
			t.Fatalf("expected a %q envelope, got %q", tag, envelope.Type)
		}
		return envelope
	case <-time.After(testWait):
		t.Fatalf("timed out waiting for a %q envelope", tag)
		return Envelope{}
	}
}

// expectSilence asserts that no envelope arrives within the window.
func (gateway *fakeGateway) expectSilence(t *testing.T, window time.Duration) {
	t.Helper()
	select {
	case envelope := <-gateway.received:
		t.Fatalf("expected no envelope, got %q", envelope.Type)
	case <-time.After(window):
	}
}

// push sends a raw JSON frame to the client.
func (gateway *fakeGateway) push(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		t.Fatalf("gateway write failed: %v", err)
	}
}

// dialAuthenticated connects a client and walks it through the
// authentication handshake, returning the server side of the connection.
func dialAuthenticated(t *testing.T, gateway *fakeGateway, config Config) (*Client, *websocket.Conn) {
	t.Helper()

	client, err := NewClient(config)
	if err != nil {
		t.Fatalf("unexpected construction error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	ready := make(chan struct{}, 1)
	client.OnReady(func() { ready <- struct{}{} })

	if err := client.Connect(); err != nil {
		t.Fatalf("unexpected connect error: %v", err)
	}

	conn := gateway.waitConn(t)
	gateway.expect(t, TagAuthenticate)
	gateway.push(t, conn, `{"type":"authenticated","data":{"user_id":42}}`)
	waitSignal(t, ready, "ready event")

	return client, conn
}

func waitSignal(t *testing.T, signal chan struct{}, what string) {
	t.Helper()
	select {
	case <-signal:
	case <-time.After(testWait):
		t.Fatalf("timed out waiting for %s", what)
	}
}
