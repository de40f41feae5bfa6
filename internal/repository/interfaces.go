package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KainanGuerra/therapy-chatbot/internal/models"
)

// UserRepository defines user storage operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs models.UserPreferences) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}

// UserSessionRepository defines auth session storage operations
type UserSessionRepository interface {
	Create(ctx context.Context, session *models.UserSession) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.UserSession, error)
	GetByRefreshTokenHash(ctx context.Context, refreshTokenHash string) (*models.UserSession, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) error
}

// ChatSessionRepository defines conversation thread storage operations.
// Get returns (nil, nil) when the session does not exist or belongs to
// another user; callers decide how to surface that.
type ChatSessionRepository interface {
	Create(ctx context.Context, session *models.ChatSession) error
	Get(ctx context.Context, userID, id uuid.UUID) (*models.ChatSession, error)
	ListActive(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ChatSession, error)
	Touch(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, userID, id uuid.UUID) error
}

// ChatMessageRepository defines message storage operations.
// Messages are immutable once created.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error)
	CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error)
}

// MoodEntryRepository defines operations on the append-only mood log
type MoodEntryRepository interface {
	Create(ctx context.Context, entry *models.MoodEntry) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.MoodEntry, error)
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.MoodEntry, error)
}

// ProfessionalFilter narrows professional directory listings
type ProfessionalFilter struct {
	Type           string
	Specialization string
	Limit          int
}

// ProfessionalRepository defines professional directory operations
type ProfessionalRepository interface {
	Create(ctx context.Context, professional *models.Professional) error
	Get(ctx context.Context, id uuid.UUID) (*models.Professional, error)
	List(ctx context.Context, filter ProfessionalFilter) ([]*models.Professional, error)
	Update(ctx context.Context, professional *models.Professional) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	Search(ctx context.Context, query string, limit int) ([]*models.Professional, error)
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewCount int) error
}

// HabitRepository defines habit tracking storage operations
type HabitRepository interface {
	Create(ctx context.Context, habit *models.HabitTracking) error
	Get(ctx context.Context, userID, id uuid.UUID) (*models.HabitTracking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, category string) ([]*models.HabitTracking, error)
	Update(ctx context.Context, habit *models.HabitTracking) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
