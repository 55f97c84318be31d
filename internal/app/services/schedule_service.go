package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/app/repositories"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/helpers"
	"github.com/qlgl/catechism-backend/internal/pkg/validation"
)

// scheduleStore is the persistence surface the schedule service needs.
type scheduleStore interface {
	List(ctx context.Context, query *repositories.ScheduleQuery) ([]models.TeachingSchedule, error)
	GetByID(ctx context.Context, id int64) (*models.TeachingSchedule, error)
	Create(ctx context.Context, entry *models.TeachingSchedule) error
	Update(ctx context.Context, entry *models.TeachingSchedule) error
	Delete(ctx context.Context, id int64) error
}

// ScheduleService handles teaching schedule operations
type ScheduleService struct {
	schedules scheduleStore
	classes   classExistsLookup
	teachers  teacherLookup
	logger    zerolog.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(schedules scheduleStore, classes classExistsLookup, teachers teacherLookup, logger zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		classes:   classes,
		teachers:  teachers,
		logger:    logger,
	}
}

func validateTimeRange(startTime, endTime string) error {
	if !validation.IsValidTimeOfDay(startTime) || !validation.IsValidTimeOfDay(endTime) {
		return apperrors.NewValidationError("startTime and endTime must be HH:MM times")
	}
	// HH:MM strings compare correctly as text.
	if startTime >= endTime {
		return apperrors.NewValidationError("startTime must be before endTime")
	}
	return nil
}

// List retrieves schedule entries matching the filter, ordered by date and
// start time.
func (s *ScheduleService) List(ctx context.Context, filter *dto.ScheduleFilter) ([]models.TeachingSchedule, error) {
	query := &repositories.ScheduleQuery{
		ClassID:   filter.ClassID,
		TeacherID: filter.TeacherID,
	}

	var err error
	if filter.From != "" {
		var from time.Time
		if from, err = helpers.ParseDate(filter.From); err != nil {
			return nil, apperrors.NewValidationError("from must be in YYYY-MM-DD format")
		}
		query.From = &from
	}
	if filter.To != "" {
		var to time.Time
		if to, err = helpers.ParseDate(filter.To); err != nil {
			return nil, apperrors.NewValidationError("to must be in YYYY-MM-DD format")
		}
		query.To = &to
	}

	return s.schedules.List(ctx, query)
}

// Create creates a schedule entry for a class and teacher.
func (s *ScheduleService) Create(ctx context.Context, req *dto.CreateScheduleRequest) (*models.TeachingSchedule, error) {
	exists, err := s.classes.Exists(ctx, req.ClassID)
	if err != nil {
		return nil, fmt.Errorf("error checking class: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrClassNotFound
	}
	if _, err := s.teachers.GetByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError(apperrors.ErrUserNotFound, "Teacher not found")
		}
		return nil, err
	}

	date, err := helpers.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
	}
	if err := validateTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	entry := &models.TeachingSchedule{
		ClassID:   req.ClassID,
		TeacherID: req.TeacherID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Lesson:    req.Lesson,
		Note:      req.Note,
	}
	if err := s.schedules.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("scheduleId", entry.ID).Int64("classId", entry.ClassID).Msg("Schedule entry created")

	return entry, nil
}

// Update applies a partial update to a schedule entry.
func (s *ScheduleService) Update(ctx context.Context, id int64, req *dto.UpdateScheduleRequest) (*models.TeachingSchedule, error) {
	entry, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		date, err := helpers.ParseDate(*req.Date)
		if err != nil {
			return nil, apperrors.NewValidationError("date must be in YYYY-MM-DD format")
		}
		entry.Date = date
	}
	if req.StartTime != nil {
		entry.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		entry.EndTime = *req.EndTime
	}
	if req.StartTime != nil || req.EndTime != nil {
		if err := validateTimeRange(entry.StartTime, entry.EndTime); err != nil {
			return nil, err
		}
	}
	if req.Lesson != nil {
		entry.Lesson = req.Lesson
	}
	if req.Note != nil {
		entry.Note = req.Note
	}

	if err := s.schedules.Update(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// Delete removes a schedule entry.
func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	return s.schedules.Delete(ctx, id)
}
