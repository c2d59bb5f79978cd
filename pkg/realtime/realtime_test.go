package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// testProvider is an in-process provider endpoint recording control frames
// and letting tests push event frames down the wire.
type testProvider struct {
	upgrader websocket.Upgrader

	mu       sync.Mutex
	conn     *websocket.Conn
	received []frame
	ready    chan struct{}
}

func newTestProvider() *testProvider {
	return &testProvider{ready: make(chan struct{})}
}

func (p *testProvider) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	p.mu.Lock()
	p.conn = conn
	p.mu.Unlock()
	close(p.ready)

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return
		}
		p.mu.Lock()
		p.received = append(p.received, f)
		p.mu.Unlock()
	}
}

func (p *testProvider) push(t *testing.T, channel, event string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.conn.WriteJSON(frame{Event: event, Channel: channel, Data: raw}); err != nil {
		t.Fatalf("push: %v", err)
	}
}

func (p *testProvider) frames() []frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]frame(nil), p.received...)
}

func (p *testProvider) waitFrames(t *testing.T, n int) []frame {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if fs := p.frames(); len(fs) >= n {
			return fs
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("provider saw %d frames, want %d", len(p.frames()), n)
	return nil
}

func dialTestConn(t *testing.T) (*Conn, *testProvider) {
	t.Helper()
	provider := newTestProvider()
	srv := httptest.NewServer(provider)
	t.Cleanup(srv.Close)

	endpoint := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := Dial(context.Background(), endpoint)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	<-provider.ready
	return conn, provider
}

func TestSubscribeSendsControlFrame(t *testing.T) {
	conn, provider := dialTestConn(t)

	conn.Subscribe("chat-42")
	fs := provider.waitFrames(t, 1)
	if fs[0].Event != frameSubscribe || fs[0].Channel != "chat-42" {
		t.Errorf("frame = %+v", fs[0])
	}
}

func TestSubscribeSameTopicOnce(t *testing.T) {
	conn, provider := dialTestConn(t)

	first := conn.Subscribe("chat-42")
	second := conn.Subscribe("chat-42")
	if first != second {
		t.Error("re-subscribing should return the same channel")
	}

	provider.waitFrames(t, 1)
	time.Sleep(50 * time.Millisecond)
	if got := len(provider.frames()); got != 1 {
		t.Errorf("provider saw %d subscribe frames, want 1", got)
	}
}

func TestEventDispatch(t *testing.T) {
	conn, provider := dialTestConn(t)

	got := make(chan []byte, 1)
	ch := conn.Subscribe("chat-42")
	ch.Bind("nova-mensagem", func(data []byte) { got <- data })
	provider.waitFrames(t, 1)

	provider.push(t, "chat-42", "nova-mensagem", map[string]any{"id": 1, "conteudo": "oi"})

	select {
	case data := <-got:
		var payload struct {
			Body string `json:"conteudo"`
		}
		if err := json.Unmarshal(data, &payload); err != nil || payload.Body != "oi" {
			t.Errorf("payload = %s (err %v)", data, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestUnsubscribeStopsDispatch(t *testing.T) {
	conn, provider := dialTestConn(t)

	got := make(chan []byte, 4)
	ch := conn.Subscribe("chat-42")
	ch.Bind("nova-mensagem", func(data []byte) { got <- data })
	provider.waitFrames(t, 1)

	conn.Unsubscribe("chat-42")
	provider.waitFrames(t, 2)

	provider.push(t, "chat-42", "nova-mensagem", map[string]any{"id": 1})
	select {
	case <-got:
		t.Error("handler ran after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEventsForOtherTopicsIgnored(t *testing.T) {
	conn, provider := dialTestConn(t)

	got := make(chan []byte, 4)
	ch := conn.Subscribe("chat-42")
	ch.Bind("nova-mensagem", func(data []byte) { got <- data })
	provider.waitFrames(t, 1)

	provider.push(t, "chat-99", "nova-mensagem", map[string]any{"id": 1})
	select {
	case <-got:
		t.Error("handler ran for a topic it never joined")
	case <-time.After(100 * time.Millisecond):
	}
}
