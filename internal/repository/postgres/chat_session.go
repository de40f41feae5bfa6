package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository"
)

// ChatSessionRepository implements repository.ChatSessionRepository using PostgreSQL
type ChatSessionRepository struct {
	db *sqlx.DB
}

// NewChatSessionRepository creates a new PostgreSQL chat session repository
func NewChatSessionRepository(db *sqlx.DB) repository.ChatSessionRepository {
	return &ChatSessionRepository{db: db}
}

// Create creates a new chat session
func (r *ChatSessionRepository) Create(ctx context.Context, session *models.ChatSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	session.IsActive = true

	query := `
		INSERT INTO chat_sessions (id, user_id, title, is_active, created_at, updated_at)
		VALUES (:id, :user_id, :title, :is_active, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		return fmt.Errorf("failed to create chat session: %w", err)
	}
	return nil
}

// Get retrieves a session owned by the given user
func (r *ChatSessionRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	query := `SELECT * FROM chat_sessions WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &session, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	return &session, nil
}

// ListActive retrieves a user's active sessions, most recently updated first
func (r *ChatSessionRepository) ListActive(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ChatSession, error) {
	var sessions []*models.ChatSession
	query := `
		SELECT * FROM chat_sessions
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT $2
	`

	err := r.db.SelectContext(ctx, &sessions, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	return sessions, nil
}

// Touch bumps the session's updated_at timestamp
func (r *ChatSessionRepository) Touch(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE chat_sessions SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to touch chat session: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a session. Messages are kept.
func (r *ChatSessionRepository) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	query := `UPDATE chat_sessions SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate chat session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
