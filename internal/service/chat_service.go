package service

import (
	"context"
	"fmt"
	"time"

	"github.com/anishverma926/Chat-App/internal/model"
	"github.com/anishverma926/Chat-App/internal/repo"
	"go.uber.org/zap"
)

// Dispatcher is the live-delivery side effect of a successful send.
// Satisfied by hub.Dispatcher.
type Dispatcher interface {
	Deliver(msg *model.Message)
}

type ChatService interface {
	SendMessage(ctx context.Context, senderID, receiverID, text, image string) (*model.Message, error)
	GetMessages(ctx context.Context, userA, userB string) ([]model.Message, error)
}

type chatService struct {
	messages   repo.MessageRepository
	dispatcher Dispatcher
	logger     *zap.Logger
}

func NewChatService(messages repo.MessageRepository, dispatcher Dispatcher, logger *zap.Logger) ChatService {
	return &chatService{
		messages:   messages,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SendMessage persists the message and then attempts live delivery to the
// receiver's connections. Persistence failure fails the call and no delivery
// is attempted; delivery failure never fails the call, the message is already
// durable and retrievable via the history query.
func (s *chatService) SendMessage(ctx context.Context, senderID, receiverID, text, image string) (*model.Message, error) {
	msg := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Image:      image,
		CreatedAt:  time.Now(),
	}

	if err := s.messages.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	if s.dispatcher != nil {
		s.dispatcher.Deliver(msg)
	}

	return msg, nil
}

// GetMessages returns the full conversation between two users in creation
// order.
func (s *chatService) GetMessages(ctx context.Context, userA, userB string) ([]model.Message, error) {
	messages, err := s.messages.GetConversation(ctx, userA, userB)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("messages fetched",
		zap.String("user_a", userA),
		zap.String("user_b", userB),
		zap.Int("count", len(messages)),
	)
	return messages, nil
}
