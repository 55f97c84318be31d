package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
)

// ParishRepository handles parish database operations
type ParishRepository struct {
	db *pgxpool.Pool
}

// NewParishRepository creates a new ParishRepository
func NewParishRepository(db *pgxpool.Pool) *ParishRepository {
	return &ParishRepository{db: db}
}

func scanParish(row pgx.Row) (*models.Parish, error) {
	parish := &models.Parish{}
	err := row.Scan(&parish.ID, &parish.Name, &parish.Description, &parish.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrParishNotFound
		}
		return nil, fmt.Errorf("error scanning parish: %w", err)
	}
	return parish, nil
}

// GetAll retrieves all parishes ordered by name.
func (r *ParishRepository) GetAll(ctx context.Context) ([]models.Parish, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, address
		FROM parishes
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error listing parishes: %w", err)
	}
	defer rows.Close()

	parishes := []models.Parish{}
	for rows.Next() {
		parish, err := scanParish(rows)
		if err != nil {
			return nil, err
		}
		parishes = append(parishes, *parish)
	}

	return parishes, rows.Err()
}

// GetByID retrieves a parish by ID
func (r *ParishRepository) GetByID(ctx context.Context, id int64) (*models.Parish, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, description, address
		FROM parishes
		WHERE id = $1`, id)
	return scanParish(row)
}

// Create creates a new parish and sets its generated ID.
func (r *ParishRepository) Create(ctx context.Context, parish *models.Parish) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO parishes (name, description, address)
		VALUES ($1, $2, $3)
		RETURNING id`,
		parish.Name, parish.Description, parish.Address).Scan(&parish.ID)

	if err != nil {
		return fmt.Errorf("error creating parish: %w", err)
	}

	return nil
}

// Update updates a parish's fields.
func (r *ParishRepository) Update(ctx context.Context, parish *models.Parish) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE parishes
		SET name = $1, description = $2, address = $3
		WHERE id = $4`,
		parish.Name, parish.Description, parish.Address, parish.ID)

	if err != nil {
		return fmt.Errorf("error updating parish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrParishNotFound
	}

	return nil
}

// Delete removes a parish. Students referencing it keep their rows with
// parish_id set to NULL by the schema's ON DELETE SET NULL.
func (r *ParishRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM parishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting parish: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrParishNotFound
	}

	return nil
}
