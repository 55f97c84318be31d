package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
)

// ScheduleRepository handles teaching schedule database operations
type ScheduleRepository struct {
	db *pgxpool.Pool
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = `ts.id, ts.class_id, ts.teacher_id, ts.date, ts.start_time, ts.end_time, ts.lesson, ts.note`

// ScheduleQuery narrows the schedule listing. Zero-valued fields are ignored.
type ScheduleQuery struct {
	ClassID   *int64
	TeacherID *int64
	From      *time.Time
	To        *time.Time
}

// List retrieves schedule entries matching the query, ordered by date and
// start time, with class and teacher names attached.
func (r *ScheduleRepository) List(ctx context.Context, query *ScheduleQuery) ([]models.TeachingSchedule, error) {
	builder := sq.Select(scheduleColumns + ", c.name, u.full_name").
		From("teaching_schedules ts").
		Join("classes c ON c.id = ts.class_id").
		Join("users u ON u.id = ts.teacher_id").
		PlaceholderFormat(sq.Dollar)

	if query.ClassID != nil {
		builder = builder.Where(sq.Eq{"ts.class_id": *query.ClassID})
	}
	if query.TeacherID != nil {
		builder = builder.Where(sq.Eq{"ts.teacher_id": *query.TeacherID})
	}
	if query.From != nil {
		builder = builder.Where(sq.GtOrEq{"ts.date": *query.From})
	}
	if query.To != nil {
		builder = builder.Where(sq.LtOrEq{"ts.date": *query.To})
	}

	builder = builder.OrderBy("ts.date ASC", "ts.start_time ASC", "ts.id ASC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building schedule query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing schedules: %w", err)
	}
	defer rows.Close()

	schedules := []models.TeachingSchedule{}
	for rows.Next() {
		var entry models.TeachingSchedule
		var className, teacherName string
		err := rows.Scan(&entry.ID, &entry.ClassID, &entry.TeacherID, &entry.Date,
			&entry.StartTime, &entry.EndTime, &entry.Lesson, &entry.Note,
			&className, &teacherName)
		if err != nil {
			return nil, fmt.Errorf("error scanning schedule: %w", err)
		}
		entry.Class = &models.Class{ID: entry.ClassID, Name: className}
		entry.Teacher = &models.User{ID: entry.TeacherID, FullName: teacherName}
		schedules = append(schedules, entry)
	}

	return schedules, rows.Err()
}

// GetByID retrieves a schedule entry by ID
func (r *ScheduleRepository) GetByID(ctx context.Context, id int64) (*models.TeachingSchedule, error) {
	entry := &models.TeachingSchedule{}
	err := r.db.QueryRow(ctx, `
		SELECT `+scheduleColumns+`
		FROM teaching_schedules ts
		WHERE ts.id = $1`, id).
		Scan(&entry.ID, &entry.ClassID, &entry.TeacherID, &entry.Date,
			&entry.StartTime, &entry.EndTime, &entry.Lesson, &entry.Note)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("error getting schedule: %w", err)
	}
	return entry, nil
}

// Create creates a new schedule entry and sets its generated ID.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.TeachingSchedule) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO teaching_schedules (class_id, teacher_id, date, start_time, end_time, lesson, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		entry.ClassID, entry.TeacherID, entry.Date, entry.StartTime,
		entry.EndTime, entry.Lesson, entry.Note).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("error creating schedule: %w", err)
	}
	return nil
}

// Update persists all mutable schedule fields.
func (r *ScheduleRepository) Update(ctx context.Context, entry *models.TeachingSchedule) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE teaching_schedules
		SET date = $1, start_time = $2, end_time = $3, lesson = $4, note = $5
		WHERE id = $6`,
		entry.Date, entry.StartTime, entry.EndTime, entry.Lesson, entry.Note, entry.ID)
	if err != nil {
		return fmt.Errorf("error updating schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScheduleNotFound
	}
	return nil
}

// Delete removes a schedule entry.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM teaching_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScheduleNotFound
	}
	return nil
}
