package hub

import (
	"encoding/json"
	"testing"

	"github.com/anishverma926/Chat-App/internal/event"
	"github.com/anishverma926/Chat-App/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func testMessage(sender, receiver string) *model.Message {
	return &model.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   sender,
		ReceiverID: receiver,
		Text:       "hello",
	}
}

func TestDeliverToOfflineReceiverIsANoOp(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	d := NewDispatcher(r, zap.NewNop())

	sender := newTestClient("alice")
	require.True(t, r.Register(sender))

	d.Deliver(testMessage("alice", "bob"))

	// nobody gets a push, including the sender's own connection
	_, got := recvEvent(t, sender)
	assert.False(t, got)
}

func TestDeliverPushesOncePerConnection(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	d := NewDispatcher(r, zap.NewNop())

	// receiver holds two simultaneous connections (two devices)
	bob1 := newTestClient("bob")
	bob2 := newTestClient("bob")
	require.True(t, r.Register(bob1))
	require.False(t, r.Register(bob2))

	msg := testMessage("alice", "bob")
	d.Deliver(msg)

	for _, c := range []*Client{bob1, bob2} {
		ev, got := recvEvent(t, c)
		require.True(t, got)
		assert.Equal(t, event.EventNewMessage, ev.Event)

		var delivered model.Message
		require.NoError(t, json.Unmarshal(ev.Payload, &delivered))
		assert.Equal(t, msg.ID, delivered.ID)
		assert.Equal(t, "hello", delivered.Text)

		// exactly one push per connection
		_, extra := recvEvent(t, c)
		assert.False(t, extra)
	}
}

func TestDeliverContinuesPastDeadConnection(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	d := NewDispatcher(r, zap.NewNop())

	dead := newTestClient("bob")
	live := newTestClient("bob")
	require.True(t, r.Register(dead))
	require.False(t, r.Register(live))

	// connection died between lookup and push
	dead.Close()

	d.Deliver(testMessage("alice", "bob"))

	ev, got := recvEvent(t, live)
	require.True(t, got)
	assert.Equal(t, event.EventNewMessage, ev.Event)
}
