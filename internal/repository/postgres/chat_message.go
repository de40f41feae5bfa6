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

// ChatMessageRepository implements repository.ChatMessageRepository using PostgreSQL
type ChatMessageRepository struct {
	db *sqlx.DB
}

// NewChatMessageRepository creates a new PostgreSQL chat message repository
func NewChatMessageRepository(db *sqlx.DB) repository.ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

// Create creates a new message
func (r *ChatMessageRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO chat_messages (id, session_id, content, type, mood_analysis, created_at)
		VALUES (:id, :session_id, :content, :type, :mood_analysis, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, message)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

// ListBySession retrieves all messages for a session, oldest first
func (r *ChatMessageRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	query := `SELECT * FROM chat_messages WHERE session_id = $1 ORDER BY created_at ASC`

	err := r.db.SelectContext(ctx, &messages, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}

// CountBySession returns the number of messages in a session
func (r *ChatMessageRepository) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM chat_messages WHERE session_id = $1`

	if err := r.db.GetContext(ctx, &count, query, sessionID); err != nil {
		return 0, fmt.Errorf("failed to count chat messages: %w", err)
	}
	return count, nil
}
