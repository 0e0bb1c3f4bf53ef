package hub

import (
	"crypto/sha1"
	"encoding/binary"
	"sync"
	"time"

	"github.com/anishverma926/Chat-App/internal/model"
	"go.uber.org/zap"
)

const (
	shardCount = 32 // tune: 16/64/128 depending on load
)

// userEntry holds a single user's live connections plus the last-seen stamp.
// The entry outlives the connections so last_seen survives a full disconnect.
type userEntry struct {
	conns    map[string]*Client
	lastSeen *time.Time
}

type userBucket struct {
	sync.RWMutex
	users map[string]*userEntry
}

// Registry maps a user id to the set of live connections that user holds.
// A user may hold several connections at once (multiple devices/tabs).
// Buckets are sharded by user id so register/deregister for unrelated users
// never contend on the same lock; presence transitions are decided under the
// owning bucket lock and reported to the caller, never broadcast from here.
type Registry struct {
	shards [shardCount]*userBucket
	logger *zap.Logger
}

// NewRegistry creates an empty connection registry.
func NewRegistry(logger *zap.Logger) *Registry {
	r := &Registry{logger: logger}
	for i := 0; i < shardCount; i++ {
		r.shards[i] = &userBucket{
			users: make(map[string]*userEntry),
		}
	}
	return r
}

func getShard(userID string) uint32 {
	if userID == "" {
		return 0
	}

	h := sha1.Sum([]byte(userID))
	return binary.BigEndian.Uint32(h[:4]) % shardCount
}

func (r *Registry) bucket(userID string) *userBucket {
	return r.shards[getShard(userID)]
}

// Register adds the client's connection to its user's set. Registering the
// same connection id twice is a no-op. Returns true iff this was the user's
// first connection, i.e. the user just transitioned offline -> online.
func (r *Registry) Register(c *Client) bool {
	b := r.bucket(c.UserID)
	b.Lock()
	defer b.Unlock()

	entry, ok := b.users[c.UserID]
	if !ok {
		entry = &userEntry{conns: make(map[string]*Client)}
		b.users[c.UserID] = entry
	}

	if _, exists := entry.conns[c.ID]; exists {
		return false
	}

	wasOffline := len(entry.conns) == 0
	entry.conns[c.ID] = c

	r.logger.Debug("connection registered",
		zap.String("user_id", c.UserID),
		zap.String("conn_id", c.ID),
		zap.Int("connections", len(entry.conns)),
	)

	return wasOffline
}

// Deregister removes the connection from the user's set. Removing an unknown
// connection id is a benign no-op; duplicate and late disconnect signals are
// expected under network flakiness. When the set becomes empty, last_seen is
// stamped under the bucket lock and the offline transition is reported.
func (r *Registry) Deregister(userID, connID string) (wentOffline bool, at time.Time) {
	b := r.bucket(userID)
	b.Lock()
	defer b.Unlock()

	entry, ok := b.users[userID]
	if !ok {
		return false, time.Time{}
	}

	if _, exists := entry.conns[connID]; !exists {
		return false, time.Time{}
	}
	delete(entry.conns, connID)

	r.logger.Debug("connection deregistered",
		zap.String("user_id", userID),
		zap.String("conn_id", connID),
		zap.Int("connections", len(entry.conns)),
	)

	if len(entry.conns) > 0 {
		return false, time.Time{}
	}

	now := time.Now()
	entry.lastSeen = &now
	return true, now
}

// ConnectionsFor returns a snapshot of the user's live connections. The copy
// is taken under the bucket read lock; callers push to the connections after
// the lock is released.
func (r *Registry) ConnectionsFor(userID string) []*Client {
	b := r.bucket(userID)
	b.RLock()
	defer b.RUnlock()

	entry, ok := b.users[userID]
	if !ok || len(entry.conns) == 0 {
		return nil
	}

	conns := make([]*Client, 0, len(entry.conns))
	for _, c := range entry.conns {
		conns = append(conns, c)
	}
	return conns
}

// IsOnline reports whether the user holds at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	b := r.bucket(userID)
	b.RLock()
	defer b.RUnlock()

	entry, ok := b.users[userID]
	return ok && len(entry.conns) > 0
}

// Snapshot returns the user's presence as one consistent read: online and
// last_seen come from the same bucket lock acquisition, so a concurrent
// connect/disconnect can never produce a torn result.
func (r *Registry) Snapshot(userID string) model.PresenceSnapshot {
	b := r.bucket(userID)
	b.RLock()
	defer b.RUnlock()

	entry, ok := b.users[userID]
	if !ok {
		return model.PresenceSnapshot{}
	}

	snap := model.PresenceSnapshot{
		Online: len(entry.conns) > 0,
	}
	if entry.lastSeen != nil {
		ls := *entry.lastSeen
		snap.LastSeen = &ls
	}
	return snap
}

// OnlineUserIDs returns the ids of every user with at least one connection.
func (r *Registry) OnlineUserIDs() []string {
	var ids []string
	for _, b := range r.shards {
		b.RLock()
		for userID, entry := range b.users {
			if len(entry.conns) > 0 {
				ids = append(ids, userID)
			}
		}
		b.RUnlock()
	}
	return ids
}

// AllClients returns a snapshot of every live connection across all users.
func (r *Registry) AllClients() []*Client {
	var clients []*Client
	for _, b := range r.shards {
		b.RLock()
		for _, entry := range b.users {
			for _, c := range entry.conns {
				clients = append(clients, c)
			}
		}
		b.RUnlock()
	}
	return clients
}
