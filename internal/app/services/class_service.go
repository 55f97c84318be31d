package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/helpers"
)

// classStore is the persistence surface the class service needs.
type classStore interface {
	List(ctx context.Context, filter *dto.ClassFilter) ([]models.Class, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Class, error)
	Roster(ctx context.Context, classID int64) ([]models.Student, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, class *models.Class) error
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id int64) error
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	Unenroll(ctx context.Context, classID, studentID int64) error
}

// teacherLookup resolves teacher references on class payloads.
type teacherLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// enrollStudentLookup resolves students being enrolled.
type enrollStudentLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

// ClassService handles class and enrollment operations
type ClassService struct {
	classes  classStore
	teachers teacherLookup
	students enrollStudentLookup
	logger   zerolog.Logger
}

// NewClassService creates a new ClassService
func NewClassService(classes classStore, teachers teacherLookup, students enrollStudentLookup, logger zerolog.Logger) *ClassService {
	return &ClassService{
		classes:  classes,
		teachers: teachers,
		students: students,
		logger:   logger,
	}
}

func (s *ClassService) checkTeacher(ctx context.Context, teacherID *int64) error {
	if teacherID == nil {
		return nil
	}
	if _, err := s.teachers.GetByID(ctx, *teacherID); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return apperrors.NewNotFoundError(apperrors.ErrUserNotFound, "Teacher not found")
		}
		return err
	}
	return nil
}

// List retrieves classes matching the filter with pagination metadata.
func (s *ClassService) List(ctx context.Context, filter *dto.ClassFilter) ([]models.Class, dto.PaginationMeta, error) {
	filter.Page, filter.Limit = helpers.NormalizePagination(filter.Page, filter.Limit)

	classes, total, err := s.classes.List(ctx, filter)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	return classes, helpers.NewPaginationMeta(total, filter.Page, filter.Limit), nil
}

// GetByID retrieves a class with its teacher and current roster.
func (s *ClassService) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	return s.classes.GetByID(ctx, id)
}

// Create creates a new class
func (s *ClassService) Create(ctx context.Context, req *dto.CreateClassRequest) (*models.Class, error) {
	if err := s.checkTeacher(ctx, req.TeacherID); err != nil {
		return nil, err
	}

	class := &models.Class{
		Name:         req.Name,
		GradeLevel:   req.GradeLevel,
		AcademicYear: req.AcademicYear,
		TeacherID:    req.TeacherID,
		Room:         req.Room,
		Description:  req.Description,
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("classId", class.ID).Str("name", class.Name).Msg("Class created")

	return class, nil
}

// Update applies a partial update to a class.
func (s *ClassService) Update(ctx context.Context, id int64, req *dto.UpdateClassRequest) (*models.Class, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.GradeLevel != nil {
		class.GradeLevel = *req.GradeLevel
	}
	if req.AcademicYear != nil {
		class.AcademicYear = *req.AcademicYear
	}
	if req.TeacherID != nil {
		if err := s.checkTeacher(ctx, req.TeacherID); err != nil {
			return nil, err
		}
		class.TeacherID = req.TeacherID
	}
	if req.Room != nil {
		class.Room = req.Room
	}
	if req.Description != nil {
		class.Description = req.Description
	}

	if err := s.classes.Update(ctx, class); err != nil {
		return nil, err
	}

	return class, nil
}

// Delete removes a class along with its enrollments, sessions and grades.
func (s *ClassService) Delete(ctx context.Context, id int64) error {
	return s.classes.Delete(ctx, id)
}

// Enroll adds an active student to a class.
func (s *ClassService) Enroll(ctx context.Context, classID int64, req *dto.EnrollStudentRequest) (*models.Enrollment, error) {
	exists, err := s.classes.Exists(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("error checking class: %w", err)
	}
	if !exists {
		return nil, apperrors.ErrClassNotFound
	}

	student, err := s.students.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !student.IsActive {
		return nil, apperrors.NewValidationError("a deactivated student cannot be enrolled")
	}

	enrollment := &models.Enrollment{
		ClassID:   classID,
		StudentID: req.StudentID,
		Note:      req.Note,
	}
	if err := s.classes.Enroll(ctx, enrollment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("classId", classID).Int64("studentId", req.StudentID).Msg("Student enrolled")

	return enrollment, nil
}

// Unenroll marks a student as having left a class.
func (s *ClassService) Unenroll(ctx context.Context, classID, studentID int64) error {
	return s.classes.Unenroll(ctx, classID, studentID)
}
