package event

import (
	"encoding/json"
	"time"

	"github.com/anishverma926/Chat-App/internal/model"
)

// Server-to-client event types pushed over the WebSocket channel.
// The client sends nothing after the handshake; the read side only services
// pongs and close frames.
const (
	EventPresenceOnline  = "presence_online"
	EventPresenceOffline = "presence_offline"
	EventPresenceState   = "presence_state"
	EventNewMessage      = "new_message"
)

// WsEvent is the envelope for every push on the realtime channel.
type WsEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// PresencePayload announces a single user's presence transition.
type PresencePayload struct {
	UserID   string     `json:"userId"`
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// PresenceStatePayload is sent once to a client right after it connects,
// carrying the ids of every user currently online.
type PresenceStatePayload struct {
	OnlineUserIDs []string `json:"onlineUserIds"`
}

// NewPresenceEvent builds a presence_online/presence_offline push.
func NewPresenceEvent(userID string, online bool, lastSeen *time.Time) (WsEvent, error) {
	name := EventPresenceOnline
	if !online {
		name = EventPresenceOffline
	}

	payload, err := json.Marshal(PresencePayload{
		UserID:   userID,
		Online:   online,
		LastSeen: lastSeen,
	})
	if err != nil {
		return WsEvent{}, err
	}

	return WsEvent{Event: name, Payload: payload}, nil
}

// NewPresenceStateEvent builds the initial online-users snapshot push.
func NewPresenceStateEvent(onlineUserIDs []string) (WsEvent, error) {
	payload, err := json.Marshal(PresenceStatePayload{OnlineUserIDs: onlineUserIDs})
	if err != nil {
		return WsEvent{}, err
	}

	return WsEvent{Event: EventPresenceState, Payload: payload}, nil
}

// NewMessageEvent builds a new_message push carrying the persisted message.
func NewMessageEvent(msg *model.Message) (WsEvent, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return WsEvent{}, err
	}

	return WsEvent{Event: EventNewMessage, Payload: payload}, nil
}
