package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/anishverma926/Chat-App/internal/db"
	"github.com/anishverma926/Chat-App/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsersExcept(ctx context.Context, excludeID string) ([]model.User, error)
	UpdateLastSeen(ctx context.Context, userID string, at time.Time) error
}

type userRepository struct {
	mongoRepo *db.Repository[model.User]
	logger    *zap.Logger
}

func NewUserRepository(repo *db.Repository[model.User], logger *zap.Logger) UserRepository {
	return &userRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

func (r *userRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrInvalidUserID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultReadTimeout)
	defer cancel()

	user, err := r.mongoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}

	return user, nil
}

// ListUsersExcept returns every user except the requester, for the sidebar.
func (r *userRepository) ListUsersExcept(ctx context.Context, excludeID string) ([]model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.Empty()
	if excludeID != "" {
		filter = db.NewFilter().NotObjectID("_id", excludeID).Build()
	}

	users, err := r.mongoRepo.FindAll(ctx, filter, "", false)
	if err != nil {
		r.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// UpdateLastSeen writes the last-seen stamp through to the user document.
// Best-effort from the presence path; the in-memory stamp stays authoritative
// for the current process.
func (r *userRepository) UpdateLastSeen(ctx context.Context, userID string, at time.Time) error {
	if userID == "" {
		return ErrInvalidUserID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	_, err := r.mongoRepo.UpdateByID(ctx, userID, bson.M{"last_seen": at})
	if err != nil {
		return fmt.Errorf("update last_seen for %s: %w", userID, err)
	}

	r.logger.Debug("last_seen persisted",
		zap.String("user_id", userID),
		zap.Time("last_seen", at),
	)
	return nil
}
