package hub

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/anishverma926/Chat-App/internal/event"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	// tuning parameters
	writeWait           = 10 * time.Second     // time allowed to write a message to the peer
	pongWait            = 20 * time.Second     // time allowed to read the next pong message from the peer
	pingInterval        = (pongWait * 9) / 10  // send pings to peer with this period
	maxMessageSize      = 4 * 1024             // max inbound message size; clients only send control frames
	sendBufSize         = 256                  // per-connection outbound buffer size
	sendTimeout         = 2 * time.Second      // timeout for enqueuing outbound messages
	presenceSendTimeout = 500 * time.Millisecond // timeout for best-effort presence pushes
)

// Client is one live realtime connection belonging to exactly one user.
// Outbound pushes go through the buffered egress channel so producers never
// touch the socket directly; the write pump is the only goroutine that writes
// to the connection.
type Client struct {
	ID     string
	UserID string

	conn   *websocket.Conn
	hub    *Hub
	egress chan event.WsEvent
	logger *zap.Logger

	cancel         context.CancelFunc
	ctx            context.Context
	once           sync.Once
	connClosed     chan struct{}
	connClosedOnce sync.Once
	closed         bool
	closedMu       sync.RWMutex
}

// NewClient creates a client for an upgraded WebSocket connection. The caller
// registers it with the hub and starts the read/write pumps.
func NewClient(userID string, conn *websocket.Conn, h *Hub, logger *zap.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		ID:             uuid.New().String(),
		UserID:         userID,
		conn:           conn,
		hub:            h,
		egress:         make(chan event.WsEvent, sendBufSize),
		logger:         logger,
		cancel:         cancel,
		ctx:            ctx,
		connClosed:     make(chan struct{}),
		connClosedOnce: sync.Once{},
	}
}

// ReadMessages services the read side of the connection. The protocol is
// server-push only, so the read pump exists to refresh the pong deadline and
// to detect the peer going away: a dead peer fails the read within pongWait,
// which bounds how long a ghost connection can stay registered.
func (c *Client) ReadMessages() {
	defer func() {
		c.hub.removeClient(c)
	}()

	c.conn.SetReadLimit(int64(maxMessageSize))
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(c.pongHandler)

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			if _, _, err := c.conn.ReadMessage(); err != nil {
				if websocket.IsCloseError(err,
					websocket.CloseNormalClosure,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
				) {
					c.logger.Debug("client disconnected", zap.String("conn_id", c.ID))
					return
				}

				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					c.logger.Info("client timed out, closing connection",
						zap.String("conn_id", c.ID),
						zap.String("user_id", c.UserID),
					)
					return
				}

				c.logger.Debug("read error",
					zap.String("conn_id", c.ID),
					zap.Error(err),
				)
				return
			}
			// inbound frames are ignored; connection establishment is the
			// only client-to-server signal
		}
	}
}

// WriteMessages drains the egress channel onto the socket and keeps the
// heartbeat going.
func (c *Client) WriteMessages() {
	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()
		c.Close()
		_ = c.conn.Close()

		c.connClosedOnce.Do(func() {
			close(c.connClosed)
		})
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case ev, ok := <-c.egress:
			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, nil); err != nil {
					c.logger.Debug("close write failed", zap.Error(err))
				}
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				c.logger.Warn("write failed, dropping connection",
					zap.String("conn_id", c.ID),
					zap.String("user_id", c.UserID),
					zap.Error(err),
				)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.logger.Debug("ping failed", zap.String("conn_id", c.ID), zap.Error(err))
				return
			}
		}
	}
}

func (c *Client) pongHandler(string) error {
	return c.conn.SetReadDeadline(time.Now().Add(pongWait))
}

// SafeSend attempts to enqueue an event on the client's egress channel.
// Returns true if enqueued, false if the client is closed or the buffer
// stayed full past the timeout. Never blocks on socket I/O.
func (c *Client) SafeSend(ev event.WsEvent, timeout time.Duration) bool {
	if c.IsClosed() {
		return false
	}

	select {
	case <-c.ctx.Done():
		return false
	case c.egress <- ev:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Queued exposes the outbound queue as a receive-only channel. The write
// pump is its normal consumer.
func (c *Client) Queued() <-chan event.WsEvent {
	return c.egress
}

// Close shuts the client down exactly once. The write pump owns the socket
// close; a safety timer force-closes it if the pump is stuck.
func (c *Client) Close() {
	c.once.Do(func() {
		// Mark as closed BEFORE closing the channel
		c.closedMu.Lock()
		c.closed = true
		c.closedMu.Unlock()

		c.cancel()
		close(c.egress)

		if c.conn == nil {
			return
		}

		go func() {
			select {
			case <-c.connClosed:
				// write pump closed it properly
			case <-time.After(5 * time.Second):
				_ = c.conn.Close()
				c.logger.Warn("safety timeout: force closed connection",
					zap.String("conn_id", c.ID),
				)
			}
		}()
	})
}

// IsClosed returns true if the client has been closed.
func (c *Client) IsClosed() bool {
	c.closedMu.RLock()
	defer c.closedMu.RUnlock()
	return c.closed
}
