package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository"
)

// MoodEntryRepository implements repository.MoodEntryRepository using PostgreSQL
type MoodEntryRepository struct {
	db *sqlx.DB
}

// NewMoodEntryRepository creates a new PostgreSQL mood entry repository
func NewMoodEntryRepository(db *sqlx.DB) repository.MoodEntryRepository {
	return &MoodEntryRepository{db: db}
}

// Create appends an entry to the mood log
func (r *MoodEntryRepository) Create(ctx context.Context, entry *models.MoodEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO mood_entries (id, user_id, level, confidence, keywords, sentiment, emotions, created_at)
		VALUES (:id, :user_id, :level, :confidence, :keywords, :sentiment, :emotions, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("failed to create mood entry: %w", err)
	}
	return nil
}

// ListRecent retrieves the newest entries for a user, newest first
func (r *MoodEntryRepository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	query := `SELECT * FROM mood_entries WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &entries, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return entries, nil
}

// ListSince retrieves entries created at or after the given time, oldest first
func (r *MoodEntryRepository) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	query := `SELECT * FROM mood_entries WHERE user_id = $1 AND created_at >= $2 ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &entries, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return entries, nil
}
