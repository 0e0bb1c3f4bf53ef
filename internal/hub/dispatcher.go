package hub

import (
	"github.com/anishverma926/Chat-App/internal/event"
	"github.com/anishverma926/Chat-App/internal/model"
	"go.uber.org/zap"
)

// Dispatcher pushes a persisted message to the receiver's live connections.
// Delivery is at-most-once and best-effort: storage is the durability
// guarantee, a client that missed the live push recovers the message through
// the history query.
type Dispatcher struct {
	registry *Registry
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher over the given registry.
func NewDispatcher(registry *Registry, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger,
	}
}

// Deliver pushes msg to each of the receiver's connections. Callers invoke
// it only after the message is durably written. An offline receiver is a
// normal outcome; a push that fails because one connection died between
// lookup and send is logged and skipped without affecting the others.
// Deliver never fails the send operation.
func (d *Dispatcher) Deliver(msg *model.Message) {
	conns := d.registry.ConnectionsFor(msg.ReceiverID)
	if len(conns) == 0 {
		d.logger.Debug("receiver offline, skipping live delivery",
			zap.String("receiver_id", msg.ReceiverID),
			zap.String("message_id", msg.ID.Hex()),
		)
		return
	}

	ev, err := event.NewMessageEvent(msg)
	if err != nil {
		d.logger.Error("failed to encode message event",
			zap.String("message_id", msg.ID.Hex()),
			zap.Error(err),
		)
		return
	}

	for _, c := range conns {
		if !c.SafeSend(ev, sendTimeout) {
			d.logger.Warn("live delivery to connection failed",
				zap.String("conn_id", c.ID),
				zap.String("receiver_id", msg.ReceiverID),
				zap.String("message_id", msg.ID.Hex()),
			)
		}
	}
}
