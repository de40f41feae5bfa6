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

// HabitRepository implements repository.HabitRepository using PostgreSQL
type HabitRepository struct {
	db *sqlx.DB
}

// NewHabitRepository creates a new PostgreSQL habit repository
func NewHabitRepository(db *sqlx.DB) repository.HabitRepository {
	return &HabitRepository{db: db}
}

// Create creates a new tracked habit
func (r *HabitRepository) Create(ctx context.Context, habit *models.HabitTracking) error {
	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}
	now := time.Now()
	habit.CreatedAt = now
	habit.UpdatedAt = now

	query := `
		INSERT INTO habit_trackings (id, user_id, habit_id, title, description, category, difficulty, estimated_time, benefits, is_completed, completed_at, streak_count, created_at, updated_at)
		VALUES (:id, :user_id, :habit_id, :title, :description, :category, :difficulty, :estimated_time, :benefits, :is_completed, :completed_at, :streak_count, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, habit)
	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}
	return nil
}

// Get retrieves a habit owned by the given user
func (r *HabitRepository) Get(ctx context.Context, userID, id uuid.UUID) (*models.HabitTracking, error) {
	var habit models.HabitTracking
	query := `SELECT * FROM habit_trackings WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, &habit, query, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return &habit, nil
}

// ListByUser retrieves a user's habits, newest first, optionally by category
func (r *HabitRepository) ListByUser(ctx context.Context, userID uuid.UUID, category string) ([]*models.HabitTracking, error) {
	var habits []*models.HabitTracking
	var err error

	if category != "" {
		query := `SELECT * FROM habit_trackings WHERE user_id = $1 AND category = $2 ORDER BY created_at DESC`
		err = r.db.SelectContext(ctx, &habits, query, userID, category)
	} else {
		query := `SELECT * FROM habit_trackings WHERE user_id = $1 ORDER BY created_at DESC`
		err = r.db.SelectContext(ctx, &habits, query, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, nil
}

// Update replaces a habit's mutable fields
func (r *HabitRepository) Update(ctx context.Context, habit *models.HabitTracking) error {
	habit.UpdatedAt = time.Now()

	query := `
		UPDATE habit_trackings
		SET title = :title, description = :description, category = :category,
		    difficulty = :difficulty, estimated_time = :estimated_time, benefits = :benefits,
		    is_completed = :is_completed, completed_at = :completed_at,
		    streak_count = :streak_count, updated_at = :updated_at
		WHERE id = :id AND user_id = :user_id
	`

	_, err := r.db.NamedExecContext(ctx, query, habit)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return nil
}

// Delete removes a habit
func (r *HabitRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM habit_trackings WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
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
