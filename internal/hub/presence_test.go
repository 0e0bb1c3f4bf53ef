package hub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/anishverma926/Chat-App/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recvEvent pops one queued event off the client's egress buffer.
func recvEvent(t *testing.T, c *Client) (event.WsEvent, bool) {
	t.Helper()
	select {
	case ev := <-c.egress:
		return ev, true
	default:
		return event.WsEvent{}, false
	}
}

type fakeLastSeenStore struct {
	calls chan struct {
		userID string
		at     time.Time
	}
}

func newFakeLastSeenStore() *fakeLastSeenStore {
	return &fakeLastSeenStore{
		calls: make(chan struct {
			userID string
			at     time.Time
		}, 1),
	}
}

func (f *fakeLastSeenStore) UpdateLastSeen(_ context.Context, userID string, at time.Time) error {
	f.calls <- struct {
		userID string
		at     time.Time
	}{userID, at}
	return nil
}

func TestBroadcastReachesOtherUsersOnly(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	tracker := NewPresenceTracker(r, nil, zap.NewNop())

	alice := newTestClient("alice")
	bob := newTestClient("bob")
	carol := newTestClient("carol")
	require.True(t, r.Register(alice))
	require.True(t, r.Register(bob))
	require.True(t, r.Register(carol))

	tracker.UserOnline("alice")

	_, got := recvEvent(t, alice)
	assert.False(t, got, "the subject must not be notified of its own transition")

	for _, peer := range []*Client{bob, carol} {
		ev, got := recvEvent(t, peer)
		require.True(t, got)
		assert.Equal(t, event.EventPresenceOnline, ev.Event)

		var payload event.PresencePayload
		require.NoError(t, json.Unmarshal(ev.Payload, &payload))
		assert.Equal(t, "alice", payload.UserID)
		assert.True(t, payload.Online)
	}
}

func TestOfflineBroadcastCarriesLastSeen(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	tracker := NewPresenceTracker(r, nil, zap.NewNop())

	bob := newTestClient("bob")
	require.True(t, r.Register(bob))

	at := time.Now()
	tracker.UserOffline("alice", at)

	ev, got := recvEvent(t, bob)
	require.True(t, got)
	assert.Equal(t, event.EventPresenceOffline, ev.Event)

	var payload event.PresencePayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	assert.Equal(t, "alice", payload.UserID)
	assert.False(t, payload.Online)
	require.NotNil(t, payload.LastSeen)
	assert.WithinDuration(t, at, *payload.LastSeen, time.Second)
}

func TestBroadcastSkipsClosedClients(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	tracker := NewPresenceTracker(r, nil, zap.NewNop())

	bob := newTestClient("bob")
	carol := newTestClient("carol")
	require.True(t, r.Register(bob))
	require.True(t, r.Register(carol))
	bob.Close()

	// must not block or panic on the closed peer
	tracker.UserOnline("alice")

	ev, got := recvEvent(t, carol)
	require.True(t, got)
	assert.Equal(t, event.EventPresenceOnline, ev.Event)
}

func TestStatusWithholdsStaleLastSeenWhileOnline(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	tracker := NewPresenceTracker(r, nil, zap.NewNop())

	c := newTestClient("alice")
	require.True(t, r.Register(c))
	_, at := r.Deregister("alice", c.ID)
	require.False(t, at.IsZero())

	// offline: the stamp is surfaced
	snap := tracker.Status("alice")
	assert.False(t, snap.Online)
	require.NotNil(t, snap.LastSeen)

	// online again: the previous-session stamp must not be surfaced
	c2 := newTestClient("alice")
	require.True(t, r.Register(c2))
	snap = tracker.Status("alice")
	assert.True(t, snap.Online)
	assert.Nil(t, snap.LastSeen)

	// the raw stamp is still queryable
	require.NotNil(t, tracker.LastSeen("alice"))
}

func TestUserOfflinePersistsLastSeen(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	store := newFakeLastSeenStore()
	tracker := NewPresenceTracker(r, store, zap.NewNop())

	at := time.Now()
	tracker.UserOffline("alice", at)

	select {
	case call := <-store.calls:
		assert.Equal(t, "alice", call.userID)
		assert.Equal(t, at, call.at)
	case <-time.After(2 * time.Second):
		t.Fatal("last_seen was never persisted")
	}
}
