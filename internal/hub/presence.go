package hub

import (
	"context"
	"time"

	"github.com/anishverma926/Chat-App/internal/event"
	"github.com/anishverma926/Chat-App/internal/model"
	"go.uber.org/zap"
)

const lastSeenWriteTimeout = 5 * time.Second

// LastSeenStore persists the last-seen stamp so it survives process restart.
// Satisfied by repo.UserRepository; nil disables write-through.
type LastSeenStore interface {
	UpdateLastSeen(ctx context.Context, userID string, at time.Time) error
}

// PresenceTracker turns registry transitions into best-effort pushes to every
// other connected user and answers presence queries with one consistent
// snapshot of registry state.
type PresenceTracker struct {
	registry *Registry
	store    LastSeenStore
	logger   *zap.Logger
}

// NewPresenceTracker creates a tracker over the given registry.
func NewPresenceTracker(registry *Registry, store LastSeenStore, logger *zap.Logger) *PresenceTracker {
	return &PresenceTracker{
		registry: registry,
		store:    store,
		logger:   logger,
	}
}

// UserOnline broadcasts the offline -> online transition to all other users.
func (t *PresenceTracker) UserOnline(userID string) {
	t.broadcastPresence(userID, true, nil)
}

// UserOffline broadcasts the online -> offline transition, carrying the
// last-seen stamp taken when the final connection closed, and writes the
// stamp through to storage so peers see it after a restart.
func (t *PresenceTracker) UserOffline(userID string, at time.Time) {
	t.broadcastPresence(userID, false, &at)
	t.persistLastSeen(userID, at)
}

// broadcastPresence pushes the transition to every connected client belonging
// to a different user. Fire-and-forget: a full or dead peer connection is
// skipped, never waited on. No registry lock is held while pushing.
func (t *PresenceTracker) broadcastPresence(userID string, online bool, lastSeen *time.Time) {
	ev, err := event.NewPresenceEvent(userID, online, lastSeen)
	if err != nil {
		t.logger.Error("failed to encode presence event",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return
	}

	for _, c := range t.registry.AllClients() {
		if c.UserID == userID {
			continue
		}
		if !c.SafeSend(ev, presenceSendTimeout) {
			t.logger.Debug("presence push skipped",
				zap.String("target_conn", c.ID),
				zap.String("subject_user", userID),
			)
		}
	}
}

func (t *PresenceTracker) persistLastSeen(userID string, at time.Time) {
	if t.store == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lastSeenWriteTimeout)
		defer cancel()

		if err := t.store.UpdateLastSeen(ctx, userID, at); err != nil {
			t.logger.Warn("failed to persist last_seen",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}()
}

// Status returns the user's presence as a single consistent snapshot. When
// the user is online the last-seen stamp from a prior session is withheld;
// it must not be surfaced as an "active N ago" value for a connected user.
func (t *PresenceTracker) Status(userID string) model.PresenceSnapshot {
	snap := t.registry.Snapshot(userID)
	if snap.Online {
		snap.LastSeen = nil
	}
	return snap
}

// LastSeen returns the stamp from the user's most recent full disconnect, or
// nil if the user has never disconnected.
func (t *PresenceTracker) LastSeen(userID string) *time.Time {
	return t.registry.Snapshot(userID).LastSeen
}
