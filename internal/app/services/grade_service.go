package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
)

// gradeStore is the persistence surface the grade service needs.
type gradeStore interface {
	ListColumns(ctx context.Context, classID int64) ([]models.GradeColumn, error)
	GetColumn(ctx context.Context, classID, columnID int64) (*models.GradeColumn, error)
	CreateColumn(ctx context.Context, column *models.GradeColumn) error
	UpdateColumn(ctx context.Context, column *models.GradeColumn) error
	DeleteColumn(ctx context.Context, classID, columnID int64) error
	UpsertGrade(ctx context.Context, grade *models.Grade) error
	ListByClass(ctx context.Context, classID int64) ([]models.Grade, error)
}

// rosterLookup retrieves the students currently enrolled in a class.
type rosterLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Roster(ctx context.Context, classID int64) ([]models.Student, error)
}

// GradeService handles grade columns and the class grade matrix
type GradeService struct {
	grades  gradeStore
	classes rosterLookup
	logger  zerolog.Logger
}

// NewGradeService creates a new GradeService
func NewGradeService(grades gradeStore, classes rosterLookup, logger zerolog.Logger) *GradeService {
	return &GradeService{
		grades:  grades,
		classes: classes,
		logger:  logger,
	}
}

func (s *GradeService) checkClass(ctx context.Context, classID int64) error {
	exists, err := s.classes.Exists(ctx, classID)
	if err != nil {
		return fmt.Errorf("error checking class: %w", err)
	}
	if !exists {
		return apperrors.ErrClassNotFound
	}
	return nil
}

// ListColumns retrieves a class's grade columns in display order.
func (s *GradeService) ListColumns(ctx context.Context, classID int64) ([]models.GradeColumn, error) {
	if err := s.checkClass(ctx, classID); err != nil {
		return nil, err
	}
	return s.grades.ListColumns(ctx, classID)
}

// CreateColumn creates a grade column for a class. MaxScore defaults to 10.
func (s *GradeService) CreateColumn(ctx context.Context, classID int64, req *dto.CreateGradeColumnRequest) (*models.GradeColumn, error) {
	if err := s.checkClass(ctx, classID); err != nil {
		return nil, err
	}
	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError("unknown grade column type")
	}

	maxScore := req.MaxScore
	if maxScore <= 0 {
		maxScore = 10
	}

	column := &models.GradeColumn{
		ClassID:     classID,
		Name:        req.Name,
		Type:        req.Type,
		Weight:      req.Weight,
		MaxScore:    maxScore,
		Position:    req.Position,
		IsPublished: req.IsPublished,
	}
	if err := s.grades.CreateColumn(ctx, column); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("columnId", column.ID).Int64("classId", classID).Msg("Grade column created")

	return column, nil
}

// UpdateColumn applies a partial update to a grade column.
func (s *GradeService) UpdateColumn(ctx context.Context, classID, columnID int64, req *dto.UpdateGradeColumnRequest) (*models.GradeColumn, error) {
	column, err := s.grades.GetColumn(ctx, classID, columnID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		column.Name = *req.Name
	}
	if req.Type != nil {
		if !req.Type.IsValid() {
			return nil, apperrors.NewValidationError("unknown grade column type")
		}
		column.Type = *req.Type
	}
	if req.Weight != nil {
		if *req.Weight < 1 {
			return nil, apperrors.NewValidationError("weight must be at least 1")
		}
		column.Weight = *req.Weight
	}
	if req.MaxScore != nil {
		if *req.MaxScore <= 0 {
			return nil, apperrors.NewValidationError("maxScore must be positive")
		}
		column.MaxScore = *req.MaxScore
	}
	if req.Position != nil {
		column.Position = *req.Position
	}
	if req.IsPublished != nil {
		column.IsPublished = *req.IsPublished
	}

	if err := s.grades.UpdateColumn(ctx, column); err != nil {
		return nil, err
	}

	return column, nil
}

// DeleteColumn removes a grade column and the scores recorded in it.
func (s *GradeService) DeleteColumn(ctx context.Context, classID, columnID int64) error {
	return s.grades.DeleteColumn(ctx, classID, columnID)
}

// UpsertGrade sets a student's score in a grade column. Scores outside
// [0, MaxScore] are rejected.
func (s *GradeService) UpsertGrade(ctx context.Context, classID, columnID int64, req *dto.UpsertGradeRequest) (*models.Grade, error) {
	column, err := s.grades.GetColumn(ctx, classID, columnID)
	if err != nil {
		return nil, err
	}

	if req.Score < 0 || req.Score > column.MaxScore {
		return nil, apperrors.ErrScoreOutOfRange
	}

	grade := &models.Grade{
		GradeColumnID: columnID,
		StudentID:     req.StudentID,
		Score:         req.Score,
		Note:          req.Note,
	}
	if err := s.grades.UpsertGrade(ctx, grade); err != nil {
		return nil, err
	}

	return grade, nil
}

// ClassGrades builds the grade matrix for a class: its columns in display
// order and one row per currently enrolled student, with the weighted
// average over that student's scored columns.
func (s *GradeService) ClassGrades(ctx context.Context, classID int64) (*dto.ClassGrades, error) {
	if err := s.checkClass(ctx, classID); err != nil {
		return nil, err
	}

	columns, err := s.grades.ListColumns(ctx, classID)
	if err != nil {
		return nil, err
	}
	roster, err := s.classes.Roster(ctx, classID)
	if err != nil {
		return nil, err
	}
	grades, err := s.grades.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	scores := map[int64]map[int64]*float64{}
	for i := range grades {
		byColumn, ok := scores[grades[i].StudentID]
		if !ok {
			byColumn = map[int64]*float64{}
			scores[grades[i].StudentID] = byColumn
		}
		byColumn[grades[i].GradeColumnID] = &grades[i].Score
	}

	weights := map[int64]int{}
	for _, column := range columns {
		weights[column.ID] = column.Weight
	}

	rows := make([]models.StudentGradeRow, 0, len(roster))
	for _, student := range roster {
		row := models.StudentGradeRow{
			StudentID:   student.ID,
			StudentName: student.FullName,
			Scores:      map[int64]*float64{},
		}
		var weightedSum float64
		var weightTotal int
		for _, column := range columns {
			score := scores[student.ID][column.ID]
			row.Scores[column.ID] = score
			if score != nil {
				weightedSum += *score * float64(weights[column.ID])
				weightTotal += weights[column.ID]
			}
		}
		if weightTotal > 0 {
			average := weightedSum / float64(weightTotal)
			row.Average = &average
		}
		rows = append(rows, row)
	}

	return &dto.ClassGrades{ClassID: classID, Columns: columns, Rows: rows}, nil
}
