package hub

import (
	"context"
	"net/http"

	"github.com/anishverma926/Chat-App/internal/event"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub owns the connection lifecycle: it upgrades handshakes, registers the
// resulting client with the registry, drives presence transitions, and tears
// everything down on shutdown. Registry mutations happen directly on the
// caller's goroutine; the sharded bucket locks already give per-user mutual
// exclusion, so unrelated users never serialize behind each other.
type Hub struct {
	registry *Registry
	presence *PresenceTracker
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub wires the hub over an explicitly owned registry and tracker; the
// instances are constructed at process start and passed by handle so the
// core stays testable in isolation.
func NewHub(registry *Registry, presence *PresenceTracker, logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		registry: registry,
		presence: presence,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// addClient registers the connection and, on the user's first connection,
// broadcasts the online transition. The freshly connected client also gets a
// one-shot snapshot of who is currently online so its UI starts out correct
// without polling.
func (h *Hub) addClient(c *Client) {
	wentOnline := h.registry.Register(c)
	if wentOnline {
		h.presence.UserOnline(c.UserID)
	}

	h.sendPresenceState(c)
}

// removeClient deregisters the connection; the last connection going away
// stamps last_seen and broadcasts the offline transition.
func (h *Hub) removeClient(c *Client) {
	wentOffline, at := h.registry.Deregister(c.UserID, c.ID)
	c.Close()

	if wentOffline {
		h.presence.UserOffline(c.UserID, at)
	}
}

func (h *Hub) sendPresenceState(c *Client) {
	ev, err := event.NewPresenceStateEvent(h.registry.OnlineUserIDs())
	if err != nil {
		h.logger.Error("failed to encode presence state", zap.Error(err))
		return
	}

	if !c.SafeSend(ev, presenceSendTimeout) {
		h.logger.Debug("presence state push skipped", zap.String("conn_id", c.ID))
	}
}

// Stop closes every live connection and stops accepting new ones.
func (h *Hub) Stop() {
	h.cancel()

	for _, c := range h.registry.AllClients() {
		c.Close()
	}
}

var websocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	switch origin {
	case "", "http://localhost:5173":
		return true
	default:
		return false
	}
}

// ServeWS upgrades the handshake and starts the client's pumps. The userId
// is the authenticated identity established by the external auth layer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) {
	select {
	case <-h.ctx.Done():
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	conn, err := websocketUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := NewClient(userID, conn, h, h.logger)
	h.addClient(c)

	go c.ReadMessages()
	go c.WriteMessages()

	h.logger.Info("client connected",
		zap.String("conn_id", c.ID),
		zap.String("user_id", userID),
	)
}
