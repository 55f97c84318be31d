package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/helpers"
	"github.com/qlgl/catechism-backend/internal/pkg/validation"
)

// studentStore is the persistence surface the student service needs.
type studentStore interface {
	CodeExists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, student *models.Student, guardians []models.Guardian) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, filter *dto.StudentFilter) ([]models.Student, int64, error)
	Update(ctx context.Context, student *models.Student) error
	SoftDelete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*dto.StudentStats, error)
	ListGuardians(ctx context.Context, studentID int64) ([]models.Guardian, error)
	GetGuardian(ctx context.Context, studentID, guardianID int64) (*models.Guardian, error)
	AddGuardian(ctx context.Context, guardian *models.Guardian) error
	UpdateGuardian(ctx context.Context, guardian *models.Guardian) error
	RemoveGuardian(ctx context.Context, studentID, guardianID int64) error
}

// parishLookup resolves parish references on student payloads.
type parishLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Parish, error)
}

// StudentService handles student and guardian operations
type StudentService struct {
	students studentStore
	parishes parishLookup
	logger   zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(students studentStore, parishes parishLookup, logger zerolog.Logger) *StudentService {
	return &StudentService{
		students: students,
		parishes: parishes,
		logger:   logger,
	}
}

// buildFullName derives the display name in Vietnamese order.
func buildFullName(lastName, firstName string) string {
	return strings.TrimSpace(strings.TrimSpace(lastName) + " " + strings.TrimSpace(firstName))
}

func (s *StudentService) checkParish(ctx context.Context, parishID *int64) error {
	if parishID == nil {
		return nil
	}
	if _, err := s.parishes.GetByID(ctx, *parishID); err != nil {
		return err
	}
	return nil
}

// normalizeGuardians ensures exactly one guardian is marked primary. The
// first marked guardian wins; with none marked, the first guardian is
// promoted.
func normalizeGuardians(guardians []models.Guardian) []models.Guardian {
	primarySeen := false
	for i := range guardians {
		if guardians[i].IsPrimary {
			if primarySeen {
				guardians[i].IsPrimary = false
			}
			primarySeen = true
		}
	}
	if !primarySeen && len(guardians) > 0 {
		guardians[0].IsPrimary = true
	}
	return guardians
}

func guardianFromRequest(studentID int64, req *dto.CreateGuardianRequest) (models.Guardian, error) {
	if !validation.IsValidPhone(req.Phone) {
		return models.Guardian{}, apperrors.NewValidationError("guardian phone must be a valid Vietnamese phone number")
	}
	return models.Guardian{
		StudentID:    studentID,
		Name:         req.Name,
		Relationship: req.Relationship,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		IsPrimary:    req.IsPrimary,
		Note:         req.Note,
	}, nil
}

// Create registers a new student together with at least one guardian.
func (s *StudentService) Create(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	if !validation.IsValidStudentCode(req.Code) {
		return nil, apperrors.NewValidationError("student code must be 2-4 uppercase letters followed by 3-6 digits")
	}
	if len(req.Guardians) == 0 {
		return nil, apperrors.NewValidationError("a student requires at least one guardian")
	}

	exists, err := s.students.CodeExists(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("error checking student code: %w", err)
	}
	if exists {
		return nil, apperrors.NewConflictError(apperrors.ErrStudentCodeExists,
			fmt.Sprintf("Student code %s is already in use", req.Code))
	}

	dateOfBirth, err := helpers.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, apperrors.NewValidationError("dateOfBirth must be in YYYY-MM-DD format")
	}
	dateOfBaptism, err := helpers.ParseOptionalDate(req.DateOfBaptism)
	if err != nil {
		return nil, apperrors.NewValidationError("dateOfBaptism must be in YYYY-MM-DD format")
	}

	if err := s.checkParish(ctx, req.ParishID); err != nil {
		return nil, err
	}

	guardians := make([]models.Guardian, 0, len(req.Guardians))
	for i := range req.Guardians {
		guardian, err := guardianFromRequest(0, &req.Guardians[i])
		if err != nil {
			return nil, err
		}
		guardians = append(guardians, guardian)
	}
	guardians = normalizeGuardians(guardians)

	student := &models.Student{
		Code:          req.Code,
		SaintName:     req.SaintName,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		FullName:      buildFullName(req.LastName, req.FirstName),
		Gender:        req.Gender,
		DateOfBirth:   dateOfBirth,
		DateOfBaptism: dateOfBaptism,
		Address:       req.Address,
		Note:          req.Note,
		ParishID:      req.ParishID,
	}

	if err := s.students.Create(ctx, student, guardians); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("studentId", student.ID).Str("code", student.Code).Msg("Student created")

	return student, nil
}

// GetByID retrieves a student with its guardians, parish and enrollments.
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return s.students.GetByID(ctx, id)
}

// List retrieves active students matching the filter with pagination
// metadata.
func (s *StudentService) List(ctx context.Context, filter *dto.StudentFilter) ([]models.Student, dto.PaginationMeta, error) {
	filter.Page, filter.Limit = helpers.NormalizePagination(filter.Page, filter.Limit)

	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, dto.PaginationMeta{}, err
	}

	return students, helpers.NewPaginationMeta(total, filter.Page, filter.Limit), nil
}

// Update applies a partial update to a student. The derived full name is
// recomputed whenever a name part changes.
func (s *StudentService) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.SaintName != nil {
		student.SaintName = req.SaintName
	}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	student.FullName = buildFullName(student.LastName, student.FirstName)

	if req.Gender != nil {
		if !req.Gender.IsValid() {
			return nil, apperrors.NewValidationError("unknown gender")
		}
		student.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		dateOfBirth, err := helpers.ParseDate(*req.DateOfBirth)
		if err != nil {
			return nil, apperrors.NewValidationError("dateOfBirth must be in YYYY-MM-DD format")
		}
		student.DateOfBirth = dateOfBirth
	}
	if req.DateOfBaptism != nil {
		dateOfBaptism, err := helpers.ParseOptionalDate(req.DateOfBaptism)
		if err != nil {
			return nil, apperrors.NewValidationError("dateOfBaptism must be in YYYY-MM-DD format")
		}
		student.DateOfBaptism = dateOfBaptism
	}
	if req.Address != nil {
		student.Address = req.Address
	}
	if req.Note != nil {
		student.Note = req.Note
	}
	if req.ParishID != nil {
		if err := s.checkParish(ctx, req.ParishID); err != nil {
			return nil, err
		}
		student.ParishID = req.ParishID
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// Delete deactivates a student. The record and its history remain readable.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.students.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("studentId", id).Msg("Student deactivated")
	return nil
}

// Stats aggregates counts over active students.
func (s *StudentService) Stats(ctx context.Context) (*dto.StudentStats, error) {
	return s.students.Stats(ctx)
}

// ListGuardians retrieves a student's guardians.
func (s *StudentService) ListGuardians(ctx context.Context, studentID int64) ([]models.Guardian, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.students.ListGuardians(ctx, studentID)
}

// AddGuardian adds a guardian to a student. Marking the new guardian
// primary demotes the current primary.
func (s *StudentService) AddGuardian(ctx context.Context, studentID int64, req *dto.CreateGuardianRequest) (*models.Guardian, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	guardian, err := guardianFromRequest(studentID, req)
	if err != nil {
		return nil, err
	}

	if err := s.students.AddGuardian(ctx, &guardian); err != nil {
		return nil, err
	}

	return &guardian, nil
}

// UpdateGuardian applies a partial update to a guardian. Directly demoting
// the primary guardian is rejected; promote another guardian instead.
func (s *StudentService) UpdateGuardian(ctx context.Context, studentID, guardianID int64, req *dto.UpdateGuardianRequest) (*models.Guardian, error) {
	guardian, err := s.students.GetGuardian(ctx, studentID, guardianID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		guardian.Name = *req.Name
	}
	if req.Relationship != nil {
		guardian.Relationship = *req.Relationship
	}
	if req.Phone != nil {
		if !validation.IsValidPhone(*req.Phone) {
			return nil, apperrors.NewValidationError("guardian phone must be a valid Vietnamese phone number")
		}
		guardian.Phone = *req.Phone
	}
	if req.Email != nil {
		guardian.Email = req.Email
	}
	if req.Address != nil {
		guardian.Address = req.Address
	}
	if req.Note != nil {
		guardian.Note = req.Note
	}
	if req.IsPrimary != nil {
		if !*req.IsPrimary && guardian.IsPrimary {
			return nil, apperrors.NewValidationError("a student must keep a primary guardian; promote another guardian instead")
		}
		guardian.IsPrimary = *req.IsPrimary
	}

	if err := s.students.UpdateGuardian(ctx, guardian); err != nil {
		return nil, err
	}

	return guardian, nil
}

// RemoveGuardian deletes a guardian. The last guardian cannot be removed;
// removing the primary promotes the remaining guardian with the lowest id.
func (s *StudentService) RemoveGuardian(ctx context.Context, studentID, guardianID int64) error {
	guardian, err := s.students.GetGuardian(ctx, studentID, guardianID)
	if err != nil {
		return err
	}
	guardians, err := s.students.ListGuardians(ctx, studentID)
	if err != nil {
		return err
	}
	if len(guardians) <= 1 {
		return apperrors.ErrLastGuardian
	}

	if err := s.students.RemoveGuardian(ctx, studentID, guardianID); err != nil {
		return err
	}

	if guardian.IsPrimary {
		var successor *models.Guardian
		for i := range guardians {
			if guardians[i].ID == guardianID {
				continue
			}
			if successor == nil || guardians[i].ID < successor.ID {
				successor = &guardians[i]
			}
		}
		if successor != nil {
			successor.IsPrimary = true
			if err := s.students.UpdateGuardian(ctx, successor); err != nil {
				return err
			}
		}
	}

	s.logger.Info().Int64("studentId", studentID).Int64("guardianId", guardianID).Msg("Guardian removed")

	return nil
}
