package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"salon-chat/internal/events"
	"salon-chat/internal/presence"
	"salon-chat/internal/redis"
	"salon-chat/internal/services"
	"salon-chat/internal/transport/httpdto"
	chat_errors "salon-chat/pkg/errors"
	"salon-chat/pkg/logger"
)

// MessageLimiter caps message sends per user. Satisfied by the redis rate
// limiter.
type MessageLimiter interface {
	AllowMessage(ctx context.Context, userID string) (*redis.RateLimitResult, error)
}

// Handler is the realtime gateway: it authenticates connections, authorizes
// topic subscriptions, accepts message sends and fans events out through the
// hub. One goroutine reads each connection; a second one writes.
type Handler struct {
	auth       *services.AuthService
	chat       *services.ChatService
	hub        *Hub
	authorizer *TopicAuthorizer
	tracker    *presence.Tracker
	limiter    MessageLimiter
	idle       time.Duration
	log        *logger.Logger
}

func NewHandler(
	auth *services.AuthService,
	chat *services.ChatService,
	hub *Hub,
	authorizer *TopicAuthorizer,
	tracker *presence.Tracker,
	limiter MessageLimiter,
	idle time.Duration,
	log *logger.Logger,
) *Handler {
	if idle <= 0 {
		idle = 60 * time.Second
	}
	return &Handler{
		auth:       auth,
		chat:       chat,
		hub:        hub,
		authorizer: authorizer,
		tracker:    tracker,
		limiter:    limiter,
		idle:       idle,
		log:        log,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Connect upgrades the HTTP request and runs the connection until it closes.
// A bearer credential supplied at handshake time (Authorization header or
// token query parameter) authenticates the connection immediately; if it is
// missing or invalid the handshake still completes and the client must send
// a connect frame before anything privileged.
func (h *Handler) Connect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	go client.WriteLoop(ctx)

	if token := handshakeToken(c); token != "" {
		if p, err := h.auth.Authenticate(token); err == nil {
			h.attach(client, p)
		}
	}

	h.readLoop(ctx, client)

	h.hub.Unregister(client)
	if p, ok := client.Principal(); ok {
		h.tracker.Disconnect(p.ID)
	}
}

// readLoop consumes frames until the client hangs up, the idle deadline
// expires or a connect frame fails validation.
func (h *Handler) readLoop(ctx context.Context, client *Client) {
	conn := client.Conn
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.idle))
	})

	for {
		_ = conn.SetReadDeadline(time.Now().Add(h.idle))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			client.SendMessage(errorFrame("INVALID_FRAME", "malformed frame", ""))
			continue
		}

		if !h.handleFrame(ctx, client, frame) {
			return
		}
	}
}

// handleFrame dispatches one frame. It returns false when the connection
// must be torn down (failed connect-frame authentication).
func (h *Handler) handleFrame(ctx context.Context, client *Client, frame Frame) bool {
	switch frame.Type {
	case FrameConnect:
		return h.handleConnect(client, frame)
	case FrameSubscribe:
		h.handleSubscribe(ctx, client, frame)
	case FrameUnsubscribe:
		h.hub.Unsubscribe(client, frame.Topic)
	case FrameSend:
		h.handleSend(ctx, client, frame)
	default:
		client.SendMessage(errorFrame("INVALID_FRAME", "unknown frame type", ""))
	}
	return true
}

// handleConnect validates the credential carried by an explicit connect
// frame. Unlike handshake-time validation this path is strict: a bad token
// closes the connection.
func (h *Handler) handleConnect(client *Client, frame Frame) bool {
	if _, ok := client.Principal(); ok {
		client.SendMessage(ackFrame(""))
		return true
	}

	p, err := h.auth.Authenticate(frame.Token)
	if err != nil {
		client.SendMessage(errorFrame("UNAUTHORIZED", "invalid credentials", ""))
		return false
	}

	h.attach(client, p)
	client.SendMessage(ackFrame(""))
	return true
}

func (h *Handler) handleSubscribe(ctx context.Context, client *Client, frame Frame) {
	p, ok := client.Principal()
	if !ok {
		client.SendMessage(errorFrame("UNAUTHORIZED", "authentication required", frame.Topic))
		return
	}

	allowed, err := h.authorizer.CanSubscribe(ctx, p.ID, frame.Topic)
	if err != nil {
		client.SendMessage(errorFrame("INTERNAL_ERROR", "subscription check failed", frame.Topic))
		return
	}
	if !allowed {
		h.log.Warnf("user %s denied subscription to %s", p.ID, frame.Topic)
		client.SendMessage(errorFrame("ACCESS_DENIED", "not allowed to subscribe to this topic", frame.Topic))
		return
	}

	h.hub.Subscribe(client, frame.Topic)
	client.SendMessage(ackFrame(frame.Topic))
}

func (h *Handler) handleSend(ctx context.Context, client *Client, frame Frame) {
	p, ok := client.Principal()
	if !ok {
		client.SendMessage(errorFrame("UNAUTHORIZED", "authentication required", ""))
		return
	}

	var payload SendPayload
	if err := json.Unmarshal(frame.Data, &payload); err != nil {
		client.SendMessage(errorFrame("INVALID_REQUEST", "malformed send payload", ""))
		return
	}

	conversationID, err := uuid.Parse(payload.ConversationID)
	if err != nil {
		client.SendMessage(errorFrame("INVALID_REQUEST", "invalid conversationId", ""))
		return
	}
	receiverID, err := uuid.Parse(payload.ReceiverID)
	if err != nil {
		client.SendMessage(errorFrame("INVALID_REQUEST", "invalid receiverId", ""))
		return
	}

	if !h.allowSend(ctx, p.ID.String()) {
		client.SendMessage(errorFrame("RATE_LIMITED", "message rate limit exceeded", ""))
		return
	}

	msg, err := h.chat.SendMessage(ctx, services.SendMessageInput{
		SenderID:        p.ID,
		ConversationID:  conversationID,
		ReceiverID:      receiverID,
		Content:         payload.Content,
		ClientMessageID: payload.ClientMessageID,
	})
	if err != nil {
		if errors.Is(err, chat_errors.ErrForbidden) {
			h.log.Warnf("user %s denied send into conversation %s", p.ID, conversationID)
		}
		client.SendMessage(errorFrame(chat_errors.Code(err), err.Error(), ""))
		return
	}

	env, err := events.NewEnvelope(events.EventTypeMessageCreated, events.AggregateTypeMessage, msg.ID.String(), httpdto.FromMessage(msg))
	if err != nil {
		return
	}
	wire, err := json.Marshal(env)
	if err != nil {
		return
	}
	h.hub.Broadcast(events.ConversationTopic(msg.ConversationID), wire)
}

// allowSend checks the sender's message budget. Limiter errors fail open so
// a redis outage never blocks chat.
func (h *Handler) allowSend(ctx context.Context, userID string) bool {
	if h.limiter == nil {
		return true
	}
	result, err := h.limiter.AllowMessage(ctx, userID)
	if err != nil {
		h.log.Warnf("rate limit check for user %s failed: %s", userID, err)
		return true
	}
	return result.Allowed
}

// attach records a successful authentication: principal on the connection,
// presence increment, implicit join of the user's private channel.
func (h *Handler) attach(client *Client, p services.Principal) {
	client.SetPrincipal(p)
	h.tracker.Connect(p.ID)
	h.hub.Subscribe(client, events.UserTopic(p.ID))
}

func handshakeToken(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	if parts := strings.SplitN(value, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return c.Query("token")
}
