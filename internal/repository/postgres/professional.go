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

// ProfessionalRepository implements repository.ProfessionalRepository using PostgreSQL
type ProfessionalRepository struct {
	db *sqlx.DB
}

// NewProfessionalRepository creates a new PostgreSQL professional repository
func NewProfessionalRepository(db *sqlx.DB) repository.ProfessionalRepository {
	return &ProfessionalRepository{db: db}
}

// Create creates a new professional directory entry
func (r *ProfessionalRepository) Create(ctx context.Context, professional *models.Professional) error {
	if professional.ID == uuid.Nil {
		professional.ID = uuid.New()
	}
	professional.CreatedAt = time.Now()
	professional.IsAvailable = true

	query := `
		INSERT INTO professionals (id, name, email, phone, type, specializations, location, website, bio, is_available, rating, review_count, created_at)
		VALUES (:id, :name, :email, :phone, :type, :specializations, :location, :website, :bio, :is_available, :rating, :review_count, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, professional)
	if err != nil {
		return fmt.Errorf("failed to create professional: %w", err)
	}
	return nil
}

// Get retrieves a professional by ID
func (r *ProfessionalRepository) Get(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	var professional models.Professional
	query := `SELECT * FROM professionals WHERE id = $1`

	err := r.db.GetContext(ctx, &professional, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}
	return &professional, nil
}

// List retrieves available professionals, best rated first
func (r *ProfessionalRepository) List(ctx context.Context, filter repository.ProfessionalFilter) ([]*models.Professional, error) {
	query := `SELECT * FROM professionals WHERE is_available = TRUE`
	args := []interface{}{}
	argn := 1

	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argn)
		args = append(args, filter.Type)
		argn++
	}
	if filter.Specialization != "" {
		query += fmt.Sprintf(" AND specializations @> $%d", argn)
		args = append(args, fmt.Sprintf(`["%s"]`, filter.Specialization))
		argn++
	}

	query += " ORDER BY rating DESC, review_count DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argn)
		args = append(args, filter.Limit)
	}

	var professionals []*models.Professional
	err := r.db.SelectContext(ctx, &professionals, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}
	return professionals, nil
}

// Update replaces a professional's mutable fields
func (r *ProfessionalRepository) Update(ctx context.Context, professional *models.Professional) error {
	query := `
		UPDATE professionals
		SET name = :name, email = :email, phone = :phone, type = :type,
		    specializations = :specializations, location = :location,
		    website = :website, bio = :bio
		WHERE id = :id
	`

	_, err := r.db.NamedExecContext(ctx, query, professional)
	if err != nil {
		return fmt.Errorf("failed to update professional: %w", err)
	}
	return nil
}

// SetAvailability toggles directory visibility (soft delete)
func (r *ProfessionalRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	query := `UPDATE professionals SET is_available = $2 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, available)
	if err != nil {
		return fmt.Errorf("failed to set professional availability: %w", err)
	}
	return nil
}

// Search finds available professionals by name, specialization or bio
func (r *ProfessionalRepository) Search(ctx context.Context, query string, limit int) ([]*models.Professional, error) {
	var professionals []*models.Professional
	sqlQuery := `
		SELECT * FROM professionals
		WHERE is_available = TRUE
		  AND (name ILIKE $1 OR specializations::text ILIKE $1 OR bio ILIKE $1)
		ORDER BY rating DESC
		LIMIT $2
	`

	err := r.db.SelectContext(ctx, &professionals, sqlQuery, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search professionals: %w", err)
	}
	return professionals, nil
}

// UpdateRating stores a recomputed rating rollup
func (r *ProfessionalRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64, reviewCount int) error {
	query := `UPDATE professionals SET rating = $2, review_count = $3 WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, rating, reviewCount)
	if err != nil {
		return fmt.Errorf("failed to update professional rating: %w", err)
	}
	return nil
}
