package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/db"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
)

// GradeRepository handles grade column and grade database operations
type GradeRepository struct {
	db *db.PostgresDB
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(database *db.PostgresDB) *GradeRepository {
	return &GradeRepository{db: database}
}

const gradeColumnColumns = `id, class_id, name, type, weight, max_score, position, is_published`

func scanGradeColumn(row pgx.Row) (*models.GradeColumn, error) {
	column := &models.GradeColumn{}
	err := row.Scan(&column.ID, &column.ClassID, &column.Name, &column.Type,
		&column.Weight, &column.MaxScore, &column.Position, &column.IsPublished)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGradeColumnNotFound
		}
		return nil, fmt.Errorf("error scanning grade column: %w", err)
	}
	return column, nil
}

// ListColumns retrieves a class's grade columns in display order.
func (r *GradeRepository) ListColumns(ctx context.Context, classID int64) ([]models.GradeColumn, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+gradeColumnColumns+`
		FROM grade_columns
		WHERE class_id = $1
		ORDER BY position ASC, id ASC`, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing grade columns: %w", err)
	}
	defer rows.Close()

	columns := []models.GradeColumn{}
	for rows.Next() {
		column, err := scanGradeColumn(rows)
		if err != nil {
			return nil, err
		}
		columns = append(columns, *column)
	}

	return columns, rows.Err()
}

// GetColumn retrieves a grade column scoped to a class.
func (r *GradeRepository) GetColumn(ctx context.Context, classID, columnID int64) (*models.GradeColumn, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+gradeColumnColumns+`
		FROM grade_columns
		WHERE id = $1 AND class_id = $2`, columnID, classID)
	return scanGradeColumn(row)
}

// CreateColumn creates a new grade column and sets its generated ID.
func (r *GradeRepository) CreateColumn(ctx context.Context, column *models.GradeColumn) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO grade_columns (class_id, name, type, weight, max_score, position, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		column.ClassID, column.Name, column.Type, column.Weight,
		column.MaxScore, column.Position, column.IsPublished).Scan(&column.ID)
	if err != nil {
		return fmt.Errorf("error creating grade column: %w", err)
	}
	return nil
}

// UpdateColumn persists all mutable grade column fields.
func (r *GradeRepository) UpdateColumn(ctx context.Context, column *models.GradeColumn) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE grade_columns
		SET name = $1, type = $2, weight = $3, max_score = $4,
			position = $5, is_published = $6
		WHERE id = $7 AND class_id = $8`,
		column.Name, column.Type, column.Weight, column.MaxScore,
		column.Position, column.IsPublished, column.ID, column.ClassID)
	if err != nil {
		return fmt.Errorf("error updating grade column: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrGradeColumnNotFound
	}
	return nil
}

// DeleteColumn removes a grade column and its grades via cascade.
func (r *GradeRepository) DeleteColumn(ctx context.Context, classID, columnID int64) error {
	tag, err := r.db.Pool.Exec(ctx, `
		DELETE FROM grade_columns WHERE id = $1 AND class_id = $2`, columnID, classID)
	if err != nil {
		return fmt.Errorf("error deleting grade column: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrGradeColumnNotFound
	}
	return nil
}

// UpsertGrade sets a student's score in a grade column, overwriting any
// earlier score.
func (r *GradeRepository) UpsertGrade(ctx context.Context, grade *models.Grade) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO grades (grade_column_id, student_id, score, note)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (grade_column_id, student_id)
		DO UPDATE SET score = EXCLUDED.score, note = EXCLUDED.note
		RETURNING id`,
		grade.GradeColumnID, grade.StudentID, grade.Score, grade.Note).Scan(&grade.ID)
	if err != nil {
		return fmt.Errorf("error saving grade: %w", err)
	}
	return nil
}

// ListByClass retrieves all grades recorded in any of a class's columns.
func (r *GradeRepository) ListByClass(ctx context.Context, classID int64) ([]models.Grade, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT g.id, g.grade_column_id, g.student_id, g.score, g.note
		FROM grades g
		JOIN grade_columns gc ON gc.id = g.grade_column_id
		WHERE gc.class_id = $1`, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing grades: %w", err)
	}
	defer rows.Close()

	grades := []models.Grade{}
	for rows.Next() {
		var grade models.Grade
		err := rows.Scan(&grade.ID, &grade.GradeColumnID, &grade.StudentID,
			&grade.Score, &grade.Note)
		if err != nil {
			return nil, fmt.Errorf("error scanning grade: %w", err)
		}
		grades = append(grades, grade)
	}

	return grades, rows.Err()
}
