package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"salon-chat/internal/services"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Client represents a single websocket connection. It starts out
// unauthenticated; a principal is attached once the handshake credential or
// an explicit connect frame validates.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	mu        sync.RWMutex // protects principal, topics and conn writes
	principal *services.Principal
	topics    map[string]bool
}

// NewClient creates a client for a freshly upgraded connection.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		Conn:   conn,
		Send:   make(chan []byte, 256),
		topics: make(map[string]bool),
	}
}

// SetPrincipal attaches the authenticated identity to the connection.
func (c *Client) SetPrincipal(p services.Principal) {
	c.mu.Lock()
	c.principal = &p
	c.mu.Unlock()
}

// Principal returns the connection's identity, if authenticated.
func (c *Client) Principal() (services.Principal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.principal == nil {
		return services.Principal{}, false
	}
	return *c.principal, true
}

// UserID returns the authenticated user id as a string, or "" while the
// connection is unauthenticated.
func (c *Client) UserID() string {
	p, ok := c.Principal()
	if !ok {
		return ""
	}
	return p.ID.String()
}

// Subscribe marks a topic as subscribed (hub internal use).
func (c *Client) Subscribe(topic string) {
	c.mu.Lock()
	c.topics[topic] = true
	c.mu.Unlock()
}

// Unsubscribe removes a topic (hub internal use).
func (c *Client) Unsubscribe(topic string) {
	c.mu.Lock()
	delete(c.topics, topic)
	c.mu.Unlock()
}

// Topics returns a copy of the subscribed topic names.
func (c *Client) Topics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	topics := make([]string, 0, len(c.topics))
	for t := range c.topics {
		topics = append(topics, t)
	}
	return topics
}

// WriteLoop drains the Send channel onto the wire and keeps the connection
// alive with pings. It exits when the context is cancelled or the channel is
// closed by the hub.
func (c *Client) WriteLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.close()
			return
		case msg, ok := <-c.Send:
			if !ok {
				c.close()
				return
			}
			c.mu.Lock()
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
			c.mu.Unlock()
		case <-ticker.C:
			c.mu.Lock()
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()
		}
	}
}

func (c *Client) close() {
	c.mu.Lock()
	_ = c.Conn.Close()
	c.mu.Unlock()
}

// SendMessage queues a payload for the client without blocking. A full
// buffer drops the payload: delivery is best-effort, at-most-once.
func (c *Client) SendMessage(msg []byte) {
	select {
	case c.Send <- msg:
	default:
	}
}
