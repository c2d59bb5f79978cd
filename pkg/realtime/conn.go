// Package realtime is the client side of the channel event provider: one
// websocket connection multiplexing named channels, each carrying named
// events with JSON payloads.
//
// Connection trouble after the initial dial is logged and the connection
// goes quiet; the app keeps working off REST reloads instead of failing
// visibly.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to the provider.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the provider.
	pongWait = 60 * time.Second

	// Ping period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Control frame events exchanged with the provider.
const (
	frameSubscribe   = "subscribe"
	frameUnsubscribe = "unsubscribe"
	frameEstablished = "connection_established"
)

type frame struct {
	Event   string          `json:"event"`
	Channel string          `json:"channel,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Conn is one provider connection. At most one exists per app instance;
// channels come and go on top of it.
type Conn struct {
	clientID string
	ws       *websocket.Conn
	send     chan frame
	done     chan struct{}
	once     sync.Once

	mu       sync.RWMutex
	channels map[string]*Channel
}

// Dial connects to the provider endpoint and starts the pumps.
func Dial(ctx context.Context, endpoint string) (*Conn, error) {
	clientID := uuid.NewString()

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse realtime endpoint: %w", err)
	}
	q := u.Query()
	q.Set("client", "netup-go")
	q.Set("socket_id", clientID)
	u.RawQuery = q.Encode()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial realtime: %w", err)
	}

	c := &Conn{
		clientID: clientID,
		ws:       ws,
		send:     make(chan frame, 16),
		done:     make(chan struct{}),
		channels: make(map[string]*Channel),
	}
	go c.readPump()
	go c.writePump()
	return c, nil
}

// ClientID is the socket id this connection announced to the provider.
func (c *Conn) ClientID() string {
	return c.clientID
}

// Subscribe joins a topic, reusing the existing channel on repeat calls.
func (c *Conn) Subscribe(topic string) *Channel {
	c.mu.Lock()
	ch, exists := c.channels[topic]
	if !exists {
		ch = newChannel(topic)
		c.channels[topic] = ch
	}
	c.mu.Unlock()

	if !exists {
		c.enqueue(frame{Event: frameSubscribe, Channel: topic})
	}
	return ch
}

// Unsubscribe leaves a topic. Events still in flight for it are dropped.
func (c *Conn) Unsubscribe(topic string) {
	c.mu.Lock()
	_, existed := c.channels[topic]
	delete(c.channels, topic)
	c.mu.Unlock()

	if existed {
		c.enqueue(frame{Event: frameUnsubscribe, Channel: topic})
	}
}

func (c *Conn) enqueue(f frame) {
	select {
	case c.send <- f:
	case <-c.done:
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Conn) Close() error {
	c.once.Do(func() { close(c.done) })
	return c.ws.Close()
}

// readPump routes inbound frames to their channel until the connection
// dies. Handlers run on this goroutine, in arrival order.
func (c *Conn) readPump() {
	defer c.Close()

	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Error("realtime connection lost", "error", err)
			}
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			slog.Warn("realtime frame not JSON", "error", err)
			continue
		}

		if f.Event == frameEstablished {
			slog.Debug("realtime connected", "client_id", c.clientID)
			continue
		}

		c.mu.RLock()
		ch := c.channels[f.Channel]
		c.mu.RUnlock()
		if ch != nil {
			ch.dispatch(f.Event, f.Data)
		}
	}
}

// writePump serializes outbound frames and keeps the connection alive with
// pings.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case f := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(f); err != nil {
				slog.Error("realtime write", "error", err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
