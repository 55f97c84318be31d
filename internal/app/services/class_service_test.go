package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
)

type stubClassStore struct {
	classes     map[int64]*models.Class
	enrollments []*models.Enrollment
	nextID      int64
}

func newStubClassStore() *stubClassStore {
	return &stubClassStore{classes: map[int64]*models.Class{}, nextID: 1}
}

func (s *stubClassStore) List(_ context.Context, _ *dto.ClassFilter) ([]models.Class, int64, error) {
	result := []models.Class{}
	for _, class := range s.classes {
		result = append(result, *class)
	}
	return result, int64(len(result)), nil
}

func (s *stubClassStore) GetByID(_ context.Context, id int64) (*models.Class, error) {
	class, ok := s.classes[id]
	if !ok {
		return nil, apperrors.ErrClassNotFound
	}
	return class, nil
}

func (s *stubClassStore) Roster(_ context.Context, classID int64) ([]models.Student, error) {
	return nil, nil
}

func (s *stubClassStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := s.classes[id]
	return ok, nil
}

func (s *stubClassStore) Create(_ context.Context, class *models.Class) error {
	class.ID = s.nextID
	s.nextID++
	s.classes[class.ID] = class
	return nil
}

func (s *stubClassStore) Update(_ context.Context, class *models.Class) error {
	if _, ok := s.classes[class.ID]; !ok {
		return apperrors.ErrClassNotFound
	}
	s.classes[class.ID] = class
	return nil
}

func (s *stubClassStore) Delete(_ context.Context, id int64) error {
	delete(s.classes, id)
	return nil
}

func (s *stubClassStore) Enroll(_ context.Context, enrollment *models.Enrollment) error {
	for _, existing := range s.enrollments {
		if existing.ClassID == enrollment.ClassID && existing.StudentID == enrollment.StudentID {
			if existing.LeftAt == nil {
				return apperrors.ErrAlreadyEnrolled
			}
			existing.LeftAt = nil
			*enrollment = *existing
			return nil
		}
	}
	enrollment.ID = s.nextID
	s.nextID++
	s.enrollments = append(s.enrollments, enrollment)
	return nil
}

func (s *stubClassStore) Unenroll(_ context.Context, classID, studentID int64) error {
	for _, existing := range s.enrollments {
		if existing.ClassID == classID && existing.StudentID == studentID && existing.LeftAt == nil {
			now := time.Now()
			existing.LeftAt = &now
			return nil
		}
	}
	return apperrors.ErrEnrollmentNotFound
}

type stubTeacherLookup struct {
	teachers map[int64]*models.User
}

func (s *stubTeacherLookup) GetByID(_ context.Context, id int64) (*models.User, error) {
	teacher, ok := s.teachers[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return teacher, nil
}

func newClassFixture() (*ClassService, *stubClassStore, *stubStudentStore) {
	store := newStubClassStore()
	teachers := &stubTeacherLookup{teachers: map[int64]*models.User{
		7: {ID: 7, FullName: "Nguyễn Văn GLV", Role: models.RoleCatechist},
	}}
	students := newStubStudentStore()
	return NewClassService(store, teachers, students, zerolog.Nop()), store, students
}

func TestClassService_Create(t *testing.T) {
	service, _, _ := newClassFixture()

	t.Run("success with teacher", func(t *testing.T) {
		teacherID := int64(7)
		class, err := service.Create(context.Background(), &dto.CreateClassRequest{
			Name:         "Lớp Chiên Ngoan 1",
			GradeLevel:   "Thiếu Nhi",
			AcademicYear: "2025-2026",
			TeacherID:    &teacherID,
		})
		require.NoError(t, err)
		assert.NotZero(t, class.ID)
	})

	t.Run("unknown teacher", func(t *testing.T) {
		teacherID := int64(99)
		_, err := service.Create(context.Background(), &dto.CreateClassRequest{
			Name:         "Lớp Chiên Ngoan 2",
			GradeLevel:   "Thiếu Nhi",
			AcademicYear: "2025-2026",
			TeacherID:    &teacherID,
		})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestClassService_Enroll(t *testing.T) {
	service, _, students := newClassFixture()
	class, err := service.Create(context.Background(), &dto.CreateClassRequest{
		Name:         "Lớp Chiên Ngoan 1",
		GradeLevel:   "Thiếu Nhi",
		AcademicYear: "2025-2026",
	})
	require.NoError(t, err)

	student := &models.Student{Code: "HS001", FirstName: "An", LastName: "Nguyễn"}
	require.NoError(t, students.Create(context.Background(), student, nil))

	t.Run("success", func(t *testing.T) {
		enrollment, err := service.Enroll(context.Background(), class.ID, &dto.EnrollStudentRequest{
			StudentID: student.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, class.ID, enrollment.ClassID)
		assert.Nil(t, enrollment.LeftAt)
	})

	t.Run("active duplicate is rejected", func(t *testing.T) {
		_, err := service.Enroll(context.Background(), class.ID, &dto.EnrollStudentRequest{
			StudentID: student.ID,
		})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
	})

	t.Run("re-enrollment after leaving reactivates", func(t *testing.T) {
		require.NoError(t, service.Unenroll(context.Background(), class.ID, student.ID))

		enrollment, err := service.Enroll(context.Background(), class.ID, &dto.EnrollStudentRequest{
			StudentID: student.ID,
		})
		require.NoError(t, err)
		assert.Nil(t, enrollment.LeftAt)
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := service.Enroll(context.Background(), 999, &dto.EnrollStudentRequest{
			StudentID: student.ID,
		})
		assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := service.Enroll(context.Background(), class.ID, &dto.EnrollStudentRequest{
			StudentID: 999,
		})
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})

	t.Run("deactivated student is rejected", func(t *testing.T) {
		inactive := &models.Student{Code: "HS002", FirstName: "Bảo", LastName: "Trần"}
		require.NoError(t, students.Create(context.Background(), inactive, nil))
		require.NoError(t, students.SoftDelete(context.Background(), inactive.ID))

		_, err := service.Enroll(context.Background(), class.ID, &dto.EnrollStudentRequest{
			StudentID: inactive.ID,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestClassService_Unenroll_NotEnrolled(t *testing.T) {
	service, _, _ := newClassFixture()
	class, err := service.Create(context.Background(), &dto.CreateClassRequest{
		Name:         "Lớp Chiên Ngoan 1",
		GradeLevel:   "Thiếu Nhi",
		AcademicYear: "2025-2026",
	})
	require.NoError(t, err)

	err = service.Unenroll(context.Background(), class.ID, 42)
	assert.ErrorIs(t, err, apperrors.ErrEnrollmentNotFound)
}
