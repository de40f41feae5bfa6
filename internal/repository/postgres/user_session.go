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

// UserSessionRepository implements repository.UserSessionRepository using PostgreSQL
type UserSessionRepository struct {
	db *sqlx.DB
}

// NewUserSessionRepository creates a new PostgreSQL auth session repository
func NewUserSessionRepository(db *sqlx.DB) repository.UserSessionRepository {
	return &UserSessionRepository{db: db}
}

// Create creates a new auth session
func (r *UserSessionRepository) Create(ctx context.Context, session *models.UserSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	now := time.Now()
	session.CreatedAt = now
	session.LastActivity = now

	query := `
		INSERT INTO user_sessions (id, user_id, token_hash, refresh_token_hash, expires_at, refresh_expires_at, ip_address, user_agent, created_at, last_activity)
		VALUES (:id, :user_id, :token_hash, :refresh_token_hash, :expires_at, :refresh_expires_at, :ip_address, :user_agent, :created_at, :last_activity)
	`

	_, err := r.db.NamedExecContext(ctx, query, session)
	if err != nil {
		return fmt.Errorf("failed to create user session: %w", err)
	}
	return nil
}

// GetByTokenHash retrieves a non-revoked session by access token hash
func (r *UserSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.UserSession, error) {
	var session models.UserSession
	query := `SELECT * FROM user_sessions WHERE token_hash = $1 AND revoked_at IS NULL`

	err := r.db.GetContext(ctx, &session, query, tokenHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}
	return &session, nil
}

// GetByRefreshTokenHash retrieves a non-revoked session by refresh token hash
func (r *UserSessionRepository) GetByRefreshTokenHash(ctx context.Context, refreshTokenHash string) (*models.UserSession, error) {
	var session models.UserSession
	query := `SELECT * FROM user_sessions WHERE refresh_token_hash = $1 AND revoked_at IS NULL`

	err := r.db.GetContext(ctx, &session, query, refreshTokenHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by refresh token: %w", err)
	}
	return &session, nil
}

// Revoke marks a session as revoked
func (r *UserSessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE user_sessions SET revoked_at = CURRENT_TIMESTAMP WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose refresh window has lapsed
func (r *UserSessionRepository) DeleteExpired(ctx context.Context) error {
	query := `DELETE FROM user_sessions WHERE refresh_expires_at < CURRENT_TIMESTAMP`

	_, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
