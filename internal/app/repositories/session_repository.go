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

// SessionRepository handles class session and attendance database operations
type SessionRepository struct {
	db *db.PostgresDB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(database *db.PostgresDB) *SessionRepository {
	return &SessionRepository{db: database}
}

// ListByClass retrieves a class's sessions, most recent first.
func (r *SessionRepository) ListByClass(ctx context.Context, classID int64) ([]models.Session, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, class_id, date, title, description, created_at
		FROM sessions
		WHERE class_id = $1
		ORDER BY date DESC, id DESC`, classID)
	if err != nil {
		return nil, fmt.Errorf("error listing sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var session models.Session
		err := rows.Scan(&session.ID, &session.ClassID, &session.Date,
			&session.Title, &session.Description, &session.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	session := &models.Session{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, class_id, date, title, description, created_at
		FROM sessions
		WHERE id = $1`, id).
		Scan(&session.ID, &session.ClassID, &session.Date, &session.Title,
			&session.Description, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error getting session: %w", err)
	}
	return session, nil
}

// Create creates a new session and sets its generated ID.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO sessions (class_id, date, title, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		session.ClassID, session.Date, session.Title, session.Description).
		Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// Delete removes a session and its attendance records via cascade.
func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSessionNotFound
	}
	return nil
}

// RecordAttendance upserts the given attendance marks for a session in one
// transaction. Re-marking a student overwrites the earlier status.
func (r *SessionRepository) RecordAttendance(ctx context.Context, sessionID int64, entries []models.Attendance) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i := range entries {
			entries[i].SessionID = sessionID
			err := tx.QueryRow(ctx, `
				INSERT INTO attendances (session_id, student_id, status, note)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (session_id, student_id)
				DO UPDATE SET status = EXCLUDED.status, note = EXCLUDED.note
				RETURNING id`,
				sessionID, entries[i].StudentID, entries[i].Status, entries[i].Note).
				Scan(&entries[i].ID)
			if err != nil {
				return fmt.Errorf("error recording attendance: %w", err)
			}
		}
		return nil
	})
}

// ListAttendance retrieves a session's attendance records with student
// names, ordered by student name.
func (r *SessionRepository) ListAttendance(ctx context.Context, sessionID int64) ([]models.Attendance, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT a.id, a.session_id, a.student_id, a.status, a.note,
			s.code, s.full_name
		FROM attendances a
		JOIN students s ON s.id = a.student_id
		WHERE a.session_id = $1
		ORDER BY s.full_name ASC, s.id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	defer rows.Close()

	records := []models.Attendance{}
	for rows.Next() {
		var record models.Attendance
		student := &models.Student{}
		err := rows.Scan(&record.ID, &record.SessionID, &record.StudentID,
			&record.Status, &record.Note, &student.Code, &student.FullName)
		if err != nil {
			return nil, fmt.Errorf("error scanning attendance: %w", err)
		}
		student.ID = record.StudentID
		record.Student = student
		records = append(records, record)
	}

	return records, rows.Err()
}

// Summary aggregates a session's attendance counts per status. Enrolled
// students without a mark count into the total only.
func (r *SessionRepository) Summary(ctx context.Context, sessionID, classID int64) (*models.AttendanceSummary, error) {
	summary := &models.AttendanceSummary{SessionID: sessionID}

	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM class_enrollments
		WHERE class_id = $1 AND left_at IS NULL`, classID).Scan(&summary.TotalStudents)
	if err != nil {
		return nil, fmt.Errorf("error counting enrolled students: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM attendances
		WHERE session_id = $1
		GROUP BY status`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error summarizing attendance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status models.AttendanceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning attendance count: %w", err)
		}
		switch status {
		case models.AttendancePresent:
			summary.PresentCount = count
		case models.AttendanceLate:
			summary.LateCount = count
		case models.AttendanceAbsentExcused:
			summary.AbsentExcused = count
		case models.AttendanceAbsentUnexcused:
			summary.AbsentUnexcused = count
		}
	}

	return summary, rows.Err()
}
