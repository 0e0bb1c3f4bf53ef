package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message represents a chat message in MongoDB. Messages are immutable once
// inserted; editing and deletion are not supported.
type Message struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID   string             `json:"senderId" bson:"sender_id"`
	ReceiverID string             `json:"receiverId" bson:"receiver_id"`
	Text       string             `json:"text,omitempty" bson:"text,omitempty"`
	Image      string             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
}

// HasContent reports whether the message carries at least one of text/image.
// An empty message is a validation error at the REST boundary.
func (m *Message) HasContent() bool {
	return m.Text != "" || m.Image != ""
}

// ErrorPayload represents an error response sent to a client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
