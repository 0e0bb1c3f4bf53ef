package hub

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(userID string) *Client {
	return NewClient(userID, nil, nil, zap.NewNop())
}

func TestRegisterDerivesOnline(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	c := newTestClient("alice")

	require.False(t, r.IsOnline("alice"))
	require.Empty(t, r.ConnectionsFor("alice"))

	wentOnline := r.Register(c)
	require.True(t, wentOnline)
	assert.True(t, r.IsOnline("alice"))
	assert.Len(t, r.ConnectionsFor("alice"), 1)

	wentOffline, _ := r.Deregister("alice", c.ID)
	require.True(t, wentOffline)
	assert.False(t, r.IsOnline("alice"))
	assert.Empty(t, r.ConnectionsFor("alice"))
}

func TestRegisterIdempotentPerConnection(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	c := newTestClient("alice")

	require.True(t, r.Register(c))
	require.False(t, r.Register(c))
	assert.Len(t, r.ConnectionsFor("alice"), 1)
}

func TestSecondConnectionIsNotATransition(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	c1 := newTestClient("alice")
	c2 := newTestClient("alice")

	require.True(t, r.Register(c1))
	require.False(t, r.Register(c2))
	assert.Len(t, r.ConnectionsFor("alice"), 2)

	// closing one of two connections is not an offline transition
	wentOffline, _ := r.Deregister("alice", c1.ID)
	assert.False(t, wentOffline)
	assert.True(t, r.IsOnline("alice"))

	wentOffline, _ = r.Deregister("alice", c2.ID)
	assert.True(t, wentOffline)
	assert.False(t, r.IsOnline("alice"))
}

func TestDeregisterUnknownConnectionIsNoOp(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	c := newTestClient("alice")
	require.True(t, r.Register(c))

	wentOffline, at := r.Deregister("alice", "no-such-connection")
	assert.False(t, wentOffline)
	assert.True(t, at.IsZero())
	assert.True(t, r.IsOnline("alice"))

	// duplicate disconnect signal for a connection already removed
	wentOffline, _ = r.Deregister("alice", c.ID)
	require.True(t, wentOffline)
	wentOffline, _ = r.Deregister("alice", c.ID)
	assert.False(t, wentOffline)

	wentOffline, _ = r.Deregister("nobody", "whatever")
	assert.False(t, wentOffline)
}

func TestLastSeenStampedOnFinalDisconnectOnly(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	c := newTestClient("alice")
	require.True(t, r.Register(c))
	require.Nil(t, r.Snapshot("alice").LastSeen)

	before := time.Now()
	wentOffline, at := r.Deregister("alice", c.ID)
	after := time.Now()

	require.True(t, wentOffline)
	assert.False(t, at.Before(before))
	assert.False(t, at.After(after))

	snap := r.Snapshot("alice")
	require.NotNil(t, snap.LastSeen)
	assert.Equal(t, at, *snap.LastSeen)

	// reconnecting must not move the stamp
	c2 := newTestClient("alice")
	require.True(t, r.Register(c2))
	snap = r.Snapshot("alice")
	assert.True(t, snap.Online)
	require.NotNil(t, snap.LastSeen)
	assert.Equal(t, at, *snap.LastSeen)
}

func TestConcurrentRegistersEmitOneTransition(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	c1 := newTestClient("alice")
	c2 := newTestClient("alice")

	var transitions atomic.Int32
	var wg sync.WaitGroup
	for _, c := range []*Client{c1, c2} {
		wg.Add(1)
		go func(c *Client) {
			defer wg.Done()
			if r.Register(c) {
				transitions.Add(1)
			}
		}(c)
	}
	wg.Wait()

	assert.Equal(t, int32(1), transitions.Load())
	assert.Len(t, r.ConnectionsFor("alice"), 2)
}

func TestSnapshotNeverTornUnderChurn(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			c := newTestClient("alice")
			r.Register(c)
			r.Deregister("alice", c.ID)
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}

		snap := r.Snapshot("alice")
		if snap.LastSeen != nil {
			// a consistent snapshot can never carry a stamp from the future
			assert.False(t, snap.LastSeen.After(time.Now()))
		}
	}
}

func TestOnlineUserIDs(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	a := newTestClient("alice")
	b := newTestClient("bob")
	require.True(t, r.Register(a))
	require.True(t, r.Register(b))

	ids := r.OnlineUserIDs()
	assert.ElementsMatch(t, []string{"alice", "bob"}, ids)

	r.Deregister("bob", b.ID)
	assert.ElementsMatch(t, []string{"alice"}, r.OnlineUserIDs())
}
