package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/db"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/dberrors"
	"github.com/qlgl/catechism-backend/internal/pkg/helpers"
)

// ClassRepository handles class and enrollment database operations
type ClassRepository struct {
	db *db.PostgresDB
}

// NewClassRepository creates a new ClassRepository
func NewClassRepository(database *db.PostgresDB) *ClassRepository {
	return &ClassRepository{db: database}
}

const classColumns = `c.id, c.name, c.grade_level, c.academic_year, c.teacher_id,
	c.room, c.description, c.created_at, c.updated_at`

func scanClass(row pgx.Row, extra ...any) (*models.Class, error) {
	class := &models.Class{}
	dest := []any{
		&class.ID, &class.Name, &class.GradeLevel, &class.AcademicYear,
		&class.TeacherID, &class.Room, &class.Description,
		&class.CreatedAt, &class.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error scanning class: %w", err)
	}
	return class, nil
}

// List retrieves classes matching the filter with the total match count.
func (r *ClassRepository) List(ctx context.Context, filter *dto.ClassFilter) ([]models.Class, int64, error) {
	builder := sq.Select(classColumns+", u.full_name, COUNT(*) OVER() AS total").
		From("classes c").
		LeftJoin("users u ON u.id = c.teacher_id").
		PlaceholderFormat(sq.Dollar)

	if filter.AcademicYear != "" {
		builder = builder.Where(sq.Eq{"c.academic_year": filter.AcademicYear})
	}
	if filter.TeacherID != nil {
		builder = builder.Where(sq.Eq{"c.teacher_id": *filter.TeacherID})
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)
	builder = builder.
		OrderBy("c.academic_year DESC, c.name ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building class query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()

	classes := []models.Class{}
	var total int64
	for rows.Next() {
		var teacherName *string
		class, err := scanClass(rows, &teacherName, &total)
		if err != nil {
			return nil, 0, err
		}
		if class.TeacherID != nil && teacherName != nil {
			class.Teacher = &models.User{ID: *class.TeacherID, FullName: *teacherName}
		}
		classes = append(classes, *class)
	}

	return classes, total, rows.Err()
}

// GetByID retrieves a class with its teacher and the roster of currently
// enrolled students.
func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+classColumns+`, u.full_name
		FROM classes c
		LEFT JOIN users u ON u.id = c.teacher_id
		WHERE c.id = $1`, id)

	var teacherName *string
	class, err := scanClass(row, &teacherName)
	if err != nil {
		return nil, err
	}
	if class.TeacherID != nil && teacherName != nil {
		class.Teacher = &models.User{ID: *class.TeacherID, FullName: *teacherName}
	}

	roster, err := r.Roster(ctx, id)
	if err != nil {
		return nil, err
	}
	class.Roster = roster

	return class, nil
}

// Roster retrieves the active students currently enrolled in a class,
// ordered by name.
func (r *ClassRepository) Roster(ctx context.Context, classID int64) ([]models.Student, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+studentColumns+`
		FROM students s
		JOIN class_enrollments e ON e.student_id = s.id
		WHERE e.class_id = $1 AND e.left_at IS NULL AND s.is_active = TRUE
		ORDER BY s.full_name ASC, s.id ASC`, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing class roster: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		var student models.Student
		if err := scanStudentFields(rows, &student); err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

// Exists reports whether a class exists.
func (r *ClassRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM classes WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking class: %w", err)
	}
	return exists, nil
}

// Create creates a new class and sets its generated ID.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO classes (name, grade_level, academic_year, teacher_id, room, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		class.Name, class.GradeLevel, class.AcademicYear, class.TeacherID,
		class.Room, class.Description).
		Scan(&class.ID, &class.CreatedAt, &class.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

// Update persists all mutable class fields.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE classes
		SET name = $1, grade_level = $2, academic_year = $3, teacher_id = $4,
			room = $5, description = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $7`,
		class.Name, class.GradeLevel, class.AcademicYear, class.TeacherID,
		class.Room, class.Description, class.ID)
	if err != nil {
		return fmt.Errorf("error updating class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// Delete removes a class along with its enrollments, sessions and grade
// columns via the schema's cascades.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// Enroll adds a student to a class. A student who previously left the class
// is re-activated on the existing enrollment row; an active enrollment is a
// conflict.
func (r *ClassRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var existingID int64
		var leftAt *time.Time
		err := tx.QueryRow(ctx, `
			SELECT id, left_at
			FROM class_enrollments
			WHERE class_id = $1 AND student_id = $2
			FOR UPDATE`,
			enrollment.ClassID, enrollment.StudentID).Scan(&existingID, &leftAt)

		switch {
		case err == nil && leftAt == nil:
			return apperrors.ErrAlreadyEnrolled
		case err == nil:
			// Returning student: reactivate the old enrollment row.
			return tx.QueryRow(ctx, `
				UPDATE class_enrollments
				SET left_at = NULL, joined_at = CURRENT_TIMESTAMP, note = $1
				WHERE id = $2
				RETURNING id, joined_at`, enrollment.Note, existingID).
				Scan(&enrollment.ID, &enrollment.JoinedAt)
		case errors.Is(err, pgx.ErrNoRows):
			err := tx.QueryRow(ctx, `
				INSERT INTO class_enrollments (class_id, student_id, note)
				VALUES ($1, $2, $3)
				RETURNING id, joined_at`,
				enrollment.ClassID, enrollment.StudentID, enrollment.Note).
				Scan(&enrollment.ID, &enrollment.JoinedAt)
			if err != nil {
				// Concurrent enroll of the same pair loses on the unique key.
				if dberrors.IsUniqueViolation(err) {
					return apperrors.ErrAlreadyEnrolled
				}
				return fmt.Errorf("error creating enrollment: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("error checking enrollment: %w", err)
		}
	})
}

// Unenroll marks a student's enrollment as left. The row is kept for
// history.
func (r *ClassRepository) Unenroll(ctx context.Context, classID, studentID int64) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE class_enrollments
		SET left_at = CURRENT_TIMESTAMP
		WHERE class_id = $1 AND student_id = $2 AND left_at IS NULL`,
		classID, studentID)
	if err != nil {
		return fmt.Errorf("error removing enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}
