package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/db"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/dberrors"
	"github.com/qlgl/catechism-backend/internal/pkg/helpers"
)

// StudentRepository handles student and guardian database operations
type StudentRepository struct {
	db *db.PostgresDB
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.PostgresDB) *StudentRepository {
	return &StudentRepository{db: database}
}

const studentColumns = `s.id, s.code, s.saint_name, s.first_name, s.last_name, s.full_name,
	s.gender, s.date_of_birth, s.date_of_baptism, s.address, s.note, s.parish_id,
	s.is_active, s.created_at, s.updated_at`

// sortColumns maps API sort keys to table columns. Anything outside this
// map falls back to full_name.
var sortColumns = map[string]string{
	"fullName":    "s.full_name",
	"code":        "s.code",
	"dateOfBirth": "s.date_of_birth",
	"createdAt":   "s.created_at",
}

func scanStudentFields(row pgx.Row, student *models.Student, extra ...any) error {
	dest := []any{
		&student.ID, &student.Code, &student.SaintName, &student.FirstName,
		&student.LastName, &student.FullName, &student.Gender, &student.DateOfBirth,
		&student.DateOfBaptism, &student.Address, &student.Note, &student.ParishID,
		&student.IsActive, &student.CreatedAt, &student.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

// CodeExists checks whether a student code is already taken.
func (r *StudentRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student code: %w", err)
	}
	return exists, nil
}

// Create inserts a student together with its guardians in one transaction so
// the student never exists without a guardian.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student, guardians []models.Guardian) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO students (code, saint_name, first_name, last_name, full_name,
				gender, date_of_birth, date_of_baptism, address, note, parish_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id, is_active, created_at, updated_at`,
			student.Code, student.SaintName, student.FirstName, student.LastName,
			student.FullName, student.Gender, student.DateOfBirth, student.DateOfBaptism,
			student.Address, student.Note, student.ParishID).
			Scan(&student.ID, &student.IsActive, &student.CreatedAt, &student.UpdatedAt)
		if err != nil {
			if dberrors.IsUniqueViolation(err) {
				return apperrors.ErrStudentCodeExists
			}
			return fmt.Errorf("error creating student: %w", err)
		}

		for i := range guardians {
			guardians[i].StudentID = student.ID
			if err := insertGuardian(ctx, tx, &guardians[i]); err != nil {
				return err
			}
		}

		student.Guardians = guardians
		return nil
	})
}

// GetByID retrieves a student with its parish, guardians and active class
// enrollments. Soft-deleted students are still returned.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	student := &models.Student{}
	var parishName, parishDescription, parishAddress *string

	row := r.db.Pool.QueryRow(ctx, `
		SELECT `+studentColumns+`, p.name, p.description, p.address
		FROM students s
		LEFT JOIN parishes p ON p.id = s.parish_id
		WHERE s.id = $1`, id)
	err := scanStudentFields(row, student, &parishName, &parishDescription, &parishAddress)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student: %w", err)
	}

	if student.ParishID != nil && parishName != nil {
		student.Parish = &models.Parish{
			ID:          *student.ParishID,
			Name:        *parishName,
			Description: parishDescription,
			Address:     parishAddress,
		}
	}

	guardians, err := r.ListGuardians(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Guardians = guardians

	enrollments, err := r.activeEnrollments(ctx, id)
	if err != nil {
		return nil, err
	}
	student.Enrollments = enrollments

	return student, nil
}

func (r *StudentRepository) activeEnrollments(ctx context.Context, studentID int64) ([]models.Enrollment, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT e.id, e.class_id, e.student_id, e.joined_at, e.left_at, e.note,
			c.name, c.grade_level, c.academic_year
		FROM class_enrollments e
		JOIN classes c ON c.id = e.class_id
		WHERE e.student_id = $1 AND e.left_at IS NULL
		ORDER BY e.joined_at DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []models.Enrollment{}
	for rows.Next() {
		var e models.Enrollment
		class := &models.Class{}
		err := rows.Scan(&e.ID, &e.ClassID, &e.StudentID, &e.JoinedAt, &e.LeftAt,
			&e.Note, &class.Name, &class.GradeLevel, &class.AcademicYear)
		if err != nil {
			return nil, fmt.Errorf("error scanning enrollment: %w", err)
		}
		class.ID = e.ClassID
		e.Class = class
		enrollments = append(enrollments, e)
	}

	return enrollments, rows.Err()
}

// List retrieves active students matching the filter, with the total match
// count for pagination.
func (r *StudentRepository) List(ctx context.Context, filter *dto.StudentFilter) ([]models.Student, int64, error) {
	builder := sq.Select(studentColumns+", COUNT(*) OVER() AS total").
		From("students s").
		Where(sq.Eq{"s.is_active": true}).
		PlaceholderFormat(sq.Dollar)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"s.full_name": pattern},
			sq.ILike{"s.code": pattern},
			sq.ILike{"s.saint_name": pattern},
			sq.ILike{"s.first_name": pattern},
			sq.ILike{"s.last_name": pattern},
		})
	}
	if filter.Gender != "" {
		builder = builder.Where(sq.Eq{"s.gender": filter.Gender})
	}
	if filter.ParishID != nil {
		builder = builder.Where(sq.Eq{"s.parish_id": *filter.ParishID})
	}
	if filter.ClassID != nil {
		builder = builder.Where(`EXISTS (
			SELECT 1 FROM class_enrollments e
			WHERE e.student_id = s.id AND e.class_id = ? AND e.left_at IS NULL)`,
			*filter.ClassID)
	}

	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = "s.full_name"
	}
	direction := "ASC"
	if strings.EqualFold(filter.SortOrder, "desc") {
		direction = "DESC"
	}

	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.Limit)
	builder = builder.
		OrderBy(sortColumn + " " + direction + ", s.id ASC").
		Offset(uint64(offset)).
		Limit(uint64(limit))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building student query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	var total int64
	for rows.Next() {
		var student models.Student
		if err := scanStudentFields(rows, &student, &total); err != nil {
			return nil, 0, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachGuardians(ctx, students); err != nil {
		return nil, 0, err
	}
	if err := r.attachParishes(ctx, students); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// attachGuardians loads the guardians for a page of students in one query.
func (r *StudentRepository) attachGuardians(ctx context.Context, students []models.Student) error {
	if len(students) == 0 {
		return nil
	}

	ids := make([]int64, len(students))
	index := make(map[int64]*models.Student, len(students))
	for i := range students {
		ids[i] = students[i].ID
		index[students[i].ID] = &students[i]
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+guardianColumns+`
		FROM guardians
		WHERE student_id = ANY($1)
		ORDER BY student_id, id`, ids)
	if err != nil {
		return fmt.Errorf("error loading guardians: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		guardian, err := scanGuardian(rows)
		if err != nil {
			return err
		}
		if student, ok := index[guardian.StudentID]; ok {
			student.Guardians = append(student.Guardians, *guardian)
		}
	}

	return rows.Err()
}

func (r *StudentRepository) attachParishes(ctx context.Context, students []models.Student) error {
	ids := []int64{}
	seen := map[int64]bool{}
	for i := range students {
		if students[i].ParishID != nil && !seen[*students[i].ParishID] {
			seen[*students[i].ParishID] = true
			ids = append(ids, *students[i].ParishID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, description, address FROM parishes WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("error loading parishes: %w", err)
	}
	defer rows.Close()

	parishes := map[int64]*models.Parish{}
	for rows.Next() {
		parish := &models.Parish{}
		if err := rows.Scan(&parish.ID, &parish.Name, &parish.Description, &parish.Address); err != nil {
			return fmt.Errorf("error scanning parish: %w", err)
		}
		parishes[parish.ID] = parish
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range students {
		if students[i].ParishID != nil {
			students[i].Parish = parishes[*students[i].ParishID]
		}
	}

	return nil
}

// Update persists all mutable student fields. full_name is recomputed by the
// caller before this is invoked.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE students
		SET saint_name = $1, first_name = $2, last_name = $3, full_name = $4,
			gender = $5, date_of_birth = $6, date_of_baptism = $7, address = $8,
			note = $9, parish_id = $10, updated_at = CURRENT_TIMESTAMP
		WHERE id = $11`,
		student.SaintName, student.FirstName, student.LastName, student.FullName,
		student.Gender, student.DateOfBirth, student.DateOfBaptism, student.Address,
		student.Note, student.ParishID, student.ID)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// SoftDelete marks a student inactive. The row and its guardians remain.
func (r *StudentRepository) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE students
		SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deactivating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Stats aggregates counts over active students: total, per gender, and the
// five parishes with the most students. Students without a parish are
// grouped under "Không xác định".
func (r *StudentRepository) Stats(ctx context.Context) (*dto.StudentStats, error) {
	stats := &dto.StudentStats{ByGender: map[string]int64{}, ByParish: []dto.ParishStat{}}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT gender, COUNT(*)
		FROM students
		WHERE is_active = TRUE
		GROUP BY gender`)
	if err != nil {
		return nil, fmt.Errorf("error counting students by gender: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var gender string
		var count int64
		if err := rows.Scan(&gender, &count); err != nil {
			return nil, fmt.Errorf("error scanning gender count: %w", err)
		}
		stats.ByGender[gender] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	parishRows, err := r.db.Pool.Query(ctx, `
		SELECT COALESCE(p.name, 'Không xác định') AS parish, COUNT(*) AS count
		FROM students s
		LEFT JOIN parishes p ON p.id = s.parish_id
		WHERE s.is_active = TRUE
		GROUP BY parish
		ORDER BY count DESC, parish ASC
		LIMIT 5`)
	if err != nil {
		return nil, fmt.Errorf("error counting students by parish: %w", err)
	}
	defer parishRows.Close()

	for parishRows.Next() {
		var stat dto.ParishStat
		if err := parishRows.Scan(&stat.Parish, &stat.Count); err != nil {
			return nil, fmt.Errorf("error scanning parish count: %w", err)
		}
		stats.ByParish = append(stats.ByParish, stat)
	}

	return stats, parishRows.Err()
}
