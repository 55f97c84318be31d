package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/helpers"
)

// sessionStore is the persistence surface the attendance service needs.
type sessionStore interface {
	ListByClass(ctx context.Context, classID int64) ([]models.Session, error)
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id int64) error
	RecordAttendance(ctx context.Context, sessionID int64, entries []models.Attendance) error
	ListAttendance(ctx context.Context, sessionID int64) ([]models.Attendance, error)
	Summary(ctx context.Context, sessionID, classID int64) (*models.AttendanceSummary, error)
}

// classExistsLookup checks class references on session payloads.
type classExistsLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// AttendanceService handles class sessions and attendance records
type AttendanceService struct {
	sessions sessionStore
	classes  rosterLookup
	logger   zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(sessions sessionStore, classes rosterLookup, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		sessions: sessions,
		classes:  classes,
		logger:   logger,
	}
}

func (s *AttendanceService) checkClass(ctx context.Context, classID int64) error {
	exists, err := s.classes.Exists(ctx, classID)
	if err != nil {
		return fmt.Errorf("error checking class: %w", err)
	}
	if !exists {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// ListSessions retrieves a class's sessions, most recent first.
func (s *AttendanceService) ListSessions(ctx context.Context, classID int64) ([]models.Session, error) {
	if err := s.checkClass(ctx, classID); err != nil {
		return nil, err
	}
	return s.sessions.ListByClass(ctx, classID)
}

// CreateSession creates a session for a class.
func (s *AttendanceService) CreateSession(ctx context.Context, classID int64, req *dto.CreateSessionRequest) (*models.Session, error) {
	if err := s.checkClass(ctx, classID); err != nil {
		return nil, err
	}

	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
	}

	session := &models.Session{
		ClassID:     classID,
		Date:        date,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("sessionId", session.ID).Int64("classId", classID).Msg("Session created")

	return session, nil
}

// DeleteSession removes a session and its attendance records.
func (s *AttendanceService) DeleteSession(ctx context.Context, sessionID int64) error {
	return s.sessions.Delete(ctx, sessionID)
}

// RecordAttendance upserts attendance marks for a session. Marks are only
// accepted for students actively enrolled in the session's class, and a
// student appearing twice in the payload keeps the last mark.
func (s *AttendanceService) RecordAttendance(ctx context.Context, sessionID int64, req *dto.RecordAttendanceRequest) ([]models.Attendance, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	roster, err := s.classes.Roster(ctx, session.ClassID)
	if err != nil {
		return nil, err
	}
	enrolled := make(map[int64]bool, len(roster))
	for _, student := range roster {
		enrolled[student.ID] = true
	}

	// Deduplicate by student, last entry wins.
	byStudent := map[int64]int{}
	entries := []models.Attendance{}
	for _, entry := range req.Entries {
		if !entry.Status.IsValid() {
			return nil, apperrors.NewValidationError("unknown attendance status")
		}
		if !enrolled[entry.StudentID] {
			return nil, apperrors.NewValidationError(fmt.Sprintf("student %d is not enrolled in this class", entry.StudentID))
		}
		record := models.Attendance{
			SessionID: sessionID,
			StudentID: entry.StudentID,
			Status:    entry.Status,
			Note:      entry.Note,
		}
		if i, seen := byStudent[entry.StudentID]; seen {
			entries[i] = record
			continue
		}
		byStudent[entry.StudentID] = len(entries)
		entries = append(entries, record)
	}

	if err := s.sessions.RecordAttendance(ctx, sessionID, entries); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("sessionId", sessionID).Int("entries", len(entries)).Msg("Attendance recorded")

	return entries, nil
}

// GetAttendance retrieves a session's attendance records with student
// names.
func (s *AttendanceService) GetAttendance(ctx context.Context, sessionID int64) ([]models.Attendance, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.sessions.ListAttendance(ctx, sessionID)
}

// GetSummary aggregates a session's attendance counts per status.
func (s *AttendanceService) GetSummary(ctx context.Context, sessionID int64) (*models.AttendanceSummary, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessions.Summary(ctx, sessionID, session.ClassID)
}
