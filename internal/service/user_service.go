package service

import (
	"context"
	"sort"
	"time"

	"github.com/anishverma926/Chat-App/internal/model"
	"github.com/anishverma926/Chat-App/internal/repo"
	"github.com/samber/lo"
)

// Presence answers point-in-time presence queries. Satisfied by
// hub.PresenceTracker.
type Presence interface {
	Status(userID string) model.PresenceSnapshot
}

type UserService interface {
	Sidebar(ctx context.Context, requesterID string) ([]model.SidebarUser, error)
	LastSeen(ctx context.Context, userID string) (model.PresenceSnapshot, error)
}

type userService struct {
	users    repo.UserRepository
	presence Presence
}

func NewUserService(users repo.UserRepository, presence Presence) UserService {
	return &userService{
		users:    users,
		presence: presence,
	}
}

// Sidebar lists every user except the requester with presence merged in,
// sorted online-first and then by most recent last-seen. A user who has never
// been seen sorts as epoch zero, i.e. to the bottom of the offline block.
func (s *userService) Sidebar(ctx context.Context, requesterID string) ([]model.SidebarUser, error) {
	users, err := s.users.ListUsersExcept(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	entries := lo.Map(users, func(u model.User, _ int) model.SidebarUser {
		snap := s.presence.Status(u.ID.Hex())

		// the live stamp from this process wins over the persisted one
		lastSeen := u.LastSeen
		if snap.LastSeen != nil {
			lastSeen = snap.LastSeen
		}
		if snap.Online {
			lastSeen = nil
		}

		return model.SidebarUser{
			ID:         u.ID.Hex(),
			FullName:   u.FullName,
			ProfilePic: u.ProfilePic,
			LastSeen:   lastSeen,
			Online:     snap.Online,
		}
	})

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Online != entries[j].Online {
			return entries[i].Online
		}
		return lastSeenOrZero(entries[i].LastSeen).After(lastSeenOrZero(entries[j].LastSeen))
	})

	return entries, nil
}

// LastSeen returns the atomic {online, lastSeen} snapshot for a user. The
// result is a hint: it can go stale immediately, and a presence push received
// after this query always supersedes it on the client.
func (s *userService) LastSeen(ctx context.Context, userID string) (model.PresenceSnapshot, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return model.PresenceSnapshot{}, err
	}

	snap := s.presence.Status(userID)
	if !snap.Online && snap.LastSeen == nil {
		// nothing stamped this process lifetime; fall back to the
		// persisted value from the user document
		snap.LastSeen = user.LastSeen
	}

	return snap, nil
}

func lastSeenOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
