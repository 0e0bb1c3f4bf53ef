package service

import (
	"context"
	"errors"
	"testing"

	"github.com/anishverma926/Chat-App/internal/model"
	"github.com/anishverma926/Chat-App/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeMessageRepo is an in-memory repo.MessageRepository.
type fakeMessageRepo struct {
	insertErr error
	messages  []model.Message
}

func (f *fakeMessageRepo) InsertMessage(_ context.Context, msg *model.Message) error {
	if msg.SenderID == "" || msg.ReceiverID == "" {
		return repo.ErrInvalidUserID
	}
	if !msg.HasContent() {
		return repo.ErrEmptyMessage
	}
	if f.insertErr != nil {
		return f.insertErr
	}
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) GetConversation(_ context.Context, userA, userB string) ([]model.Message, error) {
	var result []model.Message
	for _, m := range f.messages {
		if (m.SenderID == userA && m.ReceiverID == userB) ||
			(m.SenderID == userB && m.ReceiverID == userA) {
			result = append(result, m)
		}
	}
	return result, nil
}

type fakeDispatcher struct {
	delivered []*model.Message
}

func (f *fakeDispatcher) Deliver(msg *model.Message) {
	f.delivered = append(f.delivered, msg)
}

func TestSendMessagePersistsThenDelivers(t *testing.T) {
	messages := &fakeMessageRepo{}
	dispatcher := &fakeDispatcher{}
	svc := NewChatService(messages, dispatcher, zap.NewNop())

	msg, err := svc.SendMessage(context.Background(), "alice", "bob", "hi", "")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.False(t, msg.ID.IsZero())
	assert.False(t, msg.CreatedAt.IsZero())

	require.Len(t, messages.messages, 1, "message persisted exactly once")
	require.Len(t, dispatcher.delivered, 1)
	assert.Equal(t, msg.ID, dispatcher.delivered[0].ID)
}

func TestSendMessagePersistenceFailureBlocksDelivery(t *testing.T) {
	messages := &fakeMessageRepo{insertErr: errors.New("mongo down")}
	dispatcher := &fakeDispatcher{}
	svc := NewChatService(messages, dispatcher, zap.NewNop())

	_, err := svc.SendMessage(context.Background(), "alice", "bob", "hi", "")
	require.Error(t, err)
	assert.Empty(t, dispatcher.delivered, "delivery must never be attempted for an unpersisted message")
}

func TestSendMessageRejectsEmptyContent(t *testing.T) {
	svc := NewChatService(&fakeMessageRepo{}, &fakeDispatcher{}, zap.NewNop())

	_, err := svc.SendMessage(context.Background(), "alice", "bob", "", "")
	require.ErrorIs(t, err, repo.ErrEmptyMessage)
}

func TestSendImageOnlyMessage(t *testing.T) {
	messages := &fakeMessageRepo{}
	svc := NewChatService(messages, &fakeDispatcher{}, zap.NewNop())

	msg, err := svc.SendMessage(context.Background(), "alice", "bob", "", "https://cdn.example/img.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/img.png", msg.Image)
}

func TestGetMessagesReturnsBothDirections(t *testing.T) {
	messages := &fakeMessageRepo{}
	svc := NewChatService(messages, &fakeDispatcher{}, zap.NewNop())

	_, err := svc.SendMessage(context.Background(), "alice", "bob", "one", "")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "bob", "alice", "two", "")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "alice", "carol", "other thread", "")
	require.NoError(t, err)

	conv, err := svc.GetMessages(context.Background(), "alice", "bob")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	assert.Equal(t, "one", conv[0].Text)
	assert.Equal(t, "two", conv[1].Text)
}
