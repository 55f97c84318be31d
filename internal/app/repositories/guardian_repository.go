package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
)

const guardianColumns = `id, student_id, name, relationship, phone, email, address, is_primary, note, created_at`

func scanGuardian(row pgx.Row) (*models.Guardian, error) {
	guardian := &models.Guardian{}
	err := row.Scan(&guardian.ID, &guardian.StudentID, &guardian.Name,
		&guardian.Relationship, &guardian.Phone, &guardian.Email, &guardian.Address,
		&guardian.IsPrimary, &guardian.Note, &guardian.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGuardianNotFound
		}
		return nil, fmt.Errorf("error scanning guardian: %w", err)
	}
	return guardian, nil
}

func insertGuardian(ctx context.Context, tx pgx.Tx, guardian *models.Guardian) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO guardians (student_id, name, relationship, phone, email, address, is_primary, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		guardian.StudentID, guardian.Name, guardian.Relationship, guardian.Phone,
		guardian.Email, guardian.Address, guardian.IsPrimary, guardian.Note).
		Scan(&guardian.ID, &guardian.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating guardian: %w", err)
	}
	return nil
}

func clearPrimaryExcept(ctx context.Context, tx pgx.Tx, studentID, exceptID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE guardians
		SET is_primary = FALSE
		WHERE student_id = $1 AND id <> $2`, studentID, exceptID)
	if err != nil {
		return fmt.Errorf("error clearing primary guardians: %w", err)
	}
	return nil
}

// ListGuardians retrieves a student's guardians ordered by creation.
func (r *StudentRepository) ListGuardians(ctx context.Context, studentID int64) ([]models.Guardian, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+guardianColumns+`
		FROM guardians
		WHERE student_id = $1
		ORDER BY id ASC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing guardians: %w", err)
	}
	defer rows.Close()

	guardians := []models.Guardian{}
	for rows.Next() {
		guardian, err := scanGuardian(rows)
		if err != nil {
			return nil, err
		}
		guardians = append(guardians, *guardian)
	}

	return guardians, rows.Err()
}

// GetGuardian retrieves a guardian scoped to a student.
func (r *StudentRepository) GetGuardian(ctx context.Context, studentID, guardianID int64) (*models.Guardian, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+guardianColumns+`
		FROM guardians
		WHERE id = $1 AND student_id = $2`, guardianID, studentID)
	return scanGuardian(row)
}

// AddGuardian inserts a guardian. When the new guardian is primary the other
// guardians of the student are demoted in the same transaction.
func (r *StudentRepository) AddGuardian(ctx context.Context, guardian *models.Guardian) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := insertGuardian(ctx, tx, guardian); err != nil {
			return err
		}
		if guardian.IsPrimary {
			return clearPrimaryExcept(ctx, tx, guardian.StudentID, guardian.ID)
		}
		return nil
	})
}

// UpdateGuardian persists guardian fields. Promoting a guardian to primary
// demotes the others atomically, so exactly one primary remains.
func (r *StudentRepository) UpdateGuardian(ctx context.Context, guardian *models.Guardian) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE guardians
			SET name = $1, relationship = $2, phone = $3, email = $4,
				address = $5, is_primary = $6, note = $7
			WHERE id = $8 AND student_id = $9`,
			guardian.Name, guardian.Relationship, guardian.Phone, guardian.Email,
			guardian.Address, guardian.IsPrimary, guardian.Note,
			guardian.ID, guardian.StudentID)
		if err != nil {
			return fmt.Errorf("error updating guardian: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrGuardianNotFound
		}
		if guardian.IsPrimary {
			return clearPrimaryExcept(ctx, tx, guardian.StudentID, guardian.ID)
		}
		return nil
	})
}

// RemoveGuardian deletes a guardian. The guardian row is locked and the
// student's guardians recounted inside the transaction, so two concurrent
// removals cannot drop the student below one guardian.
func (r *StudentRepository) RemoveGuardian(ctx context.Context, studentID, guardianID int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var isPrimary bool
		err := tx.QueryRow(ctx, `
			SELECT is_primary FROM guardians
			WHERE id = $1 AND student_id = $2
			FOR UPDATE`, guardianID, studentID).Scan(&isPrimary)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrGuardianNotFound
			}
			return fmt.Errorf("error locking guardian: %w", err)
		}

		var count int64
		err = tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM guardians WHERE student_id = $1`, studentID).Scan(&count)
		if err != nil {
			return fmt.Errorf("error counting guardians: %w", err)
		}
		if count <= 1 {
			return apperrors.ErrLastGuardian
		}

		if _, err := tx.Exec(ctx, `DELETE FROM guardians WHERE id = $1`, guardianID); err != nil {
			return fmt.Errorf("error deleting guardian: %w", err)
		}

		return nil
	})
}
