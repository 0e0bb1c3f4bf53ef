package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anishverma926/Chat-App/internal/db"
	"github.com/anishverma926/Chat-App/internal/model"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	ErrInvalidMessage = errors.New("invalid message: message cannot be nil")
	ErrEmptyMessage   = errors.New("invalid message: text or image is required")
	ErrInvalidUserID  = errors.New("invalid user ID: cannot be empty")
)

const (
	// Timeouts
	defaultWriteTimeout = 5 * time.Second
	defaultReadTimeout  = 30 * time.Second

	// Retry configuration
	maxRetries     = 3
	baseRetryDelay = 100 * time.Millisecond
	maxRetryDelay  = 2 * time.Second
)

type messageRepository struct {
	mongoRepo *db.Repository[model.Message]
	logger    *zap.Logger
}

type MessageRepository interface {
	InsertMessage(ctx context.Context, msg *model.Message) error
	GetConversation(ctx context.Context, userA, userB string) ([]model.Message, error)
}

func NewMessageRepository(repo *db.Repository[model.Message], logger *zap.Logger) MessageRepository {
	return &messageRepository{
		mongoRepo: repo,
		logger:    logger,
	}
}

// -----------------------------------------------------------------------------
// InsertMessage - durably writes the message; the caller attempts live
// delivery only after this returns nil.
// -----------------------------------------------------------------------------

func (m *messageRepository) InsertMessage(ctx context.Context, msg *model.Message) error {
	if err := m.validateMessage(msg); err != nil {
		return err
	}

	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	ctx, cancel := m.ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			if err := m.waitForRetry(ctx, attempt); err != nil {
				return err
			}
		}

		_, err := m.mongoRepo.Create(ctx, *msg)
		if err == nil {
			m.logger.Info("message inserted",
				zap.String("message_id", msg.ID.Hex()),
				zap.String("sender_id", msg.SenderID),
				zap.String("receiver_id", msg.ReceiverID),
				zap.Int("attempt", attempt+1),
			)
			return nil
		}

		lastErr = err

		// Don't retry on context cancellation or non-retryable errors
		if !m.isRetryableError(err) {
			break
		}

		m.logger.Warn("insert attempt failed, retrying",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", maxRetries),
		)
	}

	m.logger.Error("failed to insert message after all retries",
		zap.Error(lastErr),
		zap.String("message_id", msg.ID.Hex()),
	)

	return fmt.Errorf("insert message failed: %w", lastErr)
}

// -----------------------------------------------------------------------------
// GetConversation - all messages exchanged between two users in creation order
// -----------------------------------------------------------------------------

func (m *messageRepository) GetConversation(ctx context.Context, userA, userB string) ([]model.Message, error) {
	if userA == "" || userB == "" {
		return nil, ErrInvalidUserID
	}

	ctx, cancel := m.ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().Or(
		db.NewFilter().Eq("sender_id", userA).Eq("receiver_id", userB).Build(),
		db.NewFilter().Eq("sender_id", userB).Eq("receiver_id", userA).Build(),
	).Build()

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			if err := m.waitForRetry(ctx, attempt); err != nil {
				return nil, err
			}
		}

		messages, err := m.mongoRepo.FindAll(ctx, filter, "created_at", false)
		if err == nil {
			m.logger.Debug("conversation retrieved",
				zap.String("user_a", userA),
				zap.String("user_b", userB),
				zap.Int("count", len(messages)),
			)
			return messages, nil
		}

		lastErr = err

		if !m.isRetryableError(err) {
			break
		}
	}

	return nil, m.handleReadError(lastErr, userA, userB)
}

// -----------------------------------------------------------------------------
// Private Helper Methods
// -----------------------------------------------------------------------------

func (m *messageRepository) validateMessage(msg *model.Message) error {
	if msg == nil {
		return ErrInvalidMessage
	}
	if msg.SenderID == "" || msg.ReceiverID == "" {
		return ErrInvalidUserID
	}
	if !msg.HasContent() {
		return ErrEmptyMessage
	}
	return nil
}

func (m *messageRepository) ensureTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hadDeadline := ctx.Deadline(); hadDeadline {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

func (m *messageRepository) waitForRetry(ctx context.Context, attempt int) error {
	delay := time.Duration(1<<uint(attempt)) * baseRetryDelay
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("retry wait cancelled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func (m *messageRepository) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}

	return false
}

func (m *messageRepository) handleReadError(err error, userA, userB string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		m.logger.Error("conversation read timeout",
			zap.String("user_a", userA),
			zap.String("user_b", userB),
		)
		return fmt.Errorf("get conversation timed out: %w", err)
	}

	if errors.Is(err, context.Canceled) {
		m.logger.Debug("conversation read cancelled",
			zap.String("user_a", userA),
			zap.String("user_b", userB),
		)
		return err
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil // Not an error, just empty result
	}

	m.logger.Error("conversation read failed",
		zap.Error(err),
		zap.String("user_a", userA),
		zap.String("user_b", userB),
	)
	return fmt.Errorf("get conversation failed: %w", err)
}
