package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
)

type stubStudentStore struct {
	students  map[int64]*models.Student
	guardians map[int64]*models.Guardian
	nextID    int64

	existingCodes map[string]bool
	listFilter    *dto.StudentFilter
	listResult    []models.Student
	listTotal     int64
	removed       []int64
}

func newStubStudentStore() *stubStudentStore {
	return &stubStudentStore{
		students:      map[int64]*models.Student{},
		guardians:     map[int64]*models.Guardian{},
		existingCodes: map[string]bool{},
		nextID:        1,
	}
}

func (s *stubStudentStore) CodeExists(_ context.Context, code string) (bool, error) {
	return s.existingCodes[code], nil
}

func (s *stubStudentStore) Create(_ context.Context, student *models.Student, guardians []models.Guardian) error {
	student.ID = s.nextID
	s.nextID++
	student.IsActive = true
	for i := range guardians {
		guardians[i].ID = s.nextID
		s.nextID++
		guardians[i].StudentID = student.ID
		s.guardians[guardians[i].ID] = &guardians[i]
	}
	student.Guardians = guardians
	s.students[student.ID] = student
	return nil
}

func (s *stubStudentStore) GetByID(_ context.Context, id int64) (*models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (s *stubStudentStore) List(_ context.Context, filter *dto.StudentFilter) ([]models.Student, int64, error) {
	s.listFilter = filter
	return s.listResult, s.listTotal, nil
}

func (s *stubStudentStore) Update(_ context.Context, student *models.Student) error {
	if _, ok := s.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	s.students[student.ID] = student
	return nil
}

func (s *stubStudentStore) SoftDelete(_ context.Context, id int64) error {
	student, ok := s.students[id]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	student.IsActive = false
	return nil
}

func (s *stubStudentStore) Stats(_ context.Context) (*dto.StudentStats, error) {
	return &dto.StudentStats{}, nil
}

func (s *stubStudentStore) ListGuardians(_ context.Context, studentID int64) ([]models.Guardian, error) {
	result := []models.Guardian{}
	for _, g := range s.guardians {
		if g.StudentID == studentID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (s *stubStudentStore) GetGuardian(_ context.Context, studentID, guardianID int64) (*models.Guardian, error) {
	g, ok := s.guardians[guardianID]
	if !ok || g.StudentID != studentID {
		return nil, apperrors.ErrGuardianNotFound
	}
	copied := *g
	return &copied, nil
}

func (s *stubStudentStore) AddGuardian(_ context.Context, guardian *models.Guardian) error {
	guardian.ID = s.nextID
	s.nextID++
	if guardian.IsPrimary {
		for _, g := range s.guardians {
			if g.StudentID == guardian.StudentID {
				g.IsPrimary = false
			}
		}
	}
	s.guardians[guardian.ID] = guardian
	return nil
}

func (s *stubStudentStore) UpdateGuardian(_ context.Context, guardian *models.Guardian) error {
	if _, ok := s.guardians[guardian.ID]; !ok {
		return apperrors.ErrGuardianNotFound
	}
	if guardian.IsPrimary {
		for _, g := range s.guardians {
			if g.StudentID == guardian.StudentID && g.ID != guardian.ID {
				g.IsPrimary = false
			}
		}
	}
	s.guardians[guardian.ID] = guardian
	return nil
}

func (s *stubStudentStore) RemoveGuardian(_ context.Context, studentID, guardianID int64) error {
	s.removed = append(s.removed, guardianID)
	delete(s.guardians, guardianID)
	return nil
}

type stubParishLookup struct {
	parishes map[int64]*models.Parish
}

func (s *stubParishLookup) GetByID(_ context.Context, id int64) (*models.Parish, error) {
	parish, ok := s.parishes[id]
	if !ok {
		return nil, apperrors.ErrParishNotFound
	}
	return parish, nil
}

func newStudentService(store *stubStudentStore, parishes *stubParishLookup) *StudentService {
	if parishes == nil {
		parishes = &stubParishLookup{parishes: map[int64]*models.Parish{}}
	}
	return NewStudentService(store, parishes, zerolog.Nop())
}

func validCreateStudentRequest() *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		Code:        "HS001",
		FirstName:   "An",
		LastName:    "Nguyễn",
		Gender:      models.GenderFemale,
		DateOfBirth: "2015-03-10",
		Guardians: []dto.CreateGuardianRequest{
			{Name: "Nguyễn Văn A", Relationship: "Bố", Phone: "0987654321"},
		},
	}
}

func TestBuildFullName(t *testing.T) {
	assert.Equal(t, "Nguyễn An", buildFullName("Nguyễn", "An"))
	assert.Equal(t, "Nguyễn An", buildFullName("  Nguyễn ", " An "))
	assert.Equal(t, "An", buildFullName("", "An"))
}

func TestNormalizeGuardians(t *testing.T) {
	t.Run("none marked promotes first", func(t *testing.T) {
		guardians := normalizeGuardians([]models.Guardian{
			{Name: "A"}, {Name: "B"},
		})
		assert.True(t, guardians[0].IsPrimary)
		assert.False(t, guardians[1].IsPrimary)
	})

	t.Run("first marked wins", func(t *testing.T) {
		guardians := normalizeGuardians([]models.Guardian{
			{Name: "A"}, {Name: "B", IsPrimary: true}, {Name: "C", IsPrimary: true},
		})
		assert.False(t, guardians[0].IsPrimary)
		assert.True(t, guardians[1].IsPrimary)
		assert.False(t, guardians[2].IsPrimary)
	})
}

func TestStudentService_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := newStubStudentStore()
		service := newStudentService(store, nil)

		student, err := service.Create(context.Background(), validCreateStudentRequest())
		require.NoError(t, err)

		assert.Equal(t, "Nguyễn An", student.FullName)
		require.Len(t, student.Guardians, 1)
		assert.True(t, student.Guardians[0].IsPrimary)
	})

	t.Run("invalid code", func(t *testing.T) {
		service := newStudentService(newStubStudentStore(), nil)

		req := validCreateStudentRequest()
		req.Code = "hs-1"
		_, err := service.Create(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("requires a guardian", func(t *testing.T) {
		service := newStudentService(newStubStudentStore(), nil)

		req := validCreateStudentRequest()
		req.Guardians = nil
		_, err := service.Create(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("duplicate code", func(t *testing.T) {
		store := newStubStudentStore()
		store.existingCodes["HS001"] = true
		service := newStudentService(store, nil)

		_, err := service.Create(context.Background(), validCreateStudentRequest())
		assert.ErrorIs(t, err, apperrors.ErrStudentCodeExists)
	})

	t.Run("malformed date of birth", func(t *testing.T) {
		service := newStudentService(newStubStudentStore(), nil)

		req := validCreateStudentRequest()
		req.DateOfBirth = "10/03/2015"
		_, err := service.Create(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("invalid guardian phone", func(t *testing.T) {
		service := newStudentService(newStubStudentStore(), nil)

		req := validCreateStudentRequest()
		req.Guardians[0].Phone = "12345"
		_, err := service.Create(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown parish", func(t *testing.T) {
		service := newStudentService(newStubStudentStore(), nil)

		parishID := int64(99)
		req := validCreateStudentRequest()
		req.ParishID = &parishID
		_, err := service.Create(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrParishNotFound)
	})

	t.Run("no guardian marked primary promotes the first", func(t *testing.T) {
		store := newStubStudentStore()
		service := newStudentService(store, nil)

		req := validCreateStudentRequest()
		req.Guardians = append(req.Guardians, dto.CreateGuardianRequest{
			Name: "Trần Thị B", Relationship: "Mẹ", Phone: "0912345678",
		})
		student, err := service.Create(context.Background(), req)
		require.NoError(t, err)

		require.Len(t, student.Guardians, 2)
		assert.True(t, student.Guardians[0].IsPrimary)
		assert.False(t, student.Guardians[1].IsPrimary)
	})
}

func TestStudentService_List(t *testing.T) {
	store := newStubStudentStore()
	store.listResult = make([]models.Student, 20)
	store.listTotal = 45
	service := newStudentService(store, nil)

	_, meta, err := service.List(context.Background(), &dto.StudentFilter{Page: 0, Limit: -5})
	require.NoError(t, err)

	// Out-of-range paging falls back to the defaults.
	assert.Equal(t, 1, store.listFilter.Page)
	assert.Equal(t, 20, store.listFilter.Limit)
	assert.Equal(t, int64(45), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
}

func TestStudentService_Update(t *testing.T) {
	store := newStubStudentStore()
	service := newStudentService(store, nil)
	student, err := service.Create(context.Background(), validCreateStudentRequest())
	require.NoError(t, err)

	t.Run("name change recomputes full name", func(t *testing.T) {
		firstName := "Bình"
		updated, err := service.Update(context.Background(), student.ID, &dto.UpdateStudentRequest{
			FirstName: &firstName,
		})
		require.NoError(t, err)
		assert.Equal(t, "Nguyễn Bình", updated.FullName)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := service.Update(context.Background(), 999, &dto.UpdateStudentRequest{})
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})

	t.Run("unknown parish", func(t *testing.T) {
		parishID := int64(42)
		_, err := service.Update(context.Background(), student.ID, &dto.UpdateStudentRequest{
			ParishID: &parishID,
		})
		assert.ErrorIs(t, err, apperrors.ErrParishNotFound)
	})
}

func TestStudentService_Delete(t *testing.T) {
	store := newStubStudentStore()
	service := newStudentService(store, nil)
	student, err := service.Create(context.Background(), validCreateStudentRequest())
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), student.ID))

	// Soft delete keeps the record readable.
	deleted, err := service.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	assert.False(t, deleted.IsActive)
}

func TestStudentService_AddGuardian(t *testing.T) {
	store := newStubStudentStore()
	service := newStudentService(store, nil)
	student, err := service.Create(context.Background(), validCreateStudentRequest())
	require.NoError(t, err)

	t.Run("primary addition demotes the current primary", func(t *testing.T) {
		added, err := service.AddGuardian(context.Background(), student.ID, &dto.CreateGuardianRequest{
			Name: "Trần Thị B", Relationship: "Mẹ", Phone: "0912345678", IsPrimary: true,
		})
		require.NoError(t, err)
		assert.True(t, added.IsPrimary)

		guardians, err := service.ListGuardians(context.Background(), student.ID)
		require.NoError(t, err)
		primaries := 0
		for _, g := range guardians {
			if g.IsPrimary {
				primaries++
				assert.Equal(t, added.ID, g.ID)
			}
		}
		assert.Equal(t, 1, primaries)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := service.AddGuardian(context.Background(), 999, &dto.CreateGuardianRequest{
			Name: "X", Relationship: "Bố", Phone: "0987654321",
		})
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})

	t.Run("invalid phone", func(t *testing.T) {
		_, err := service.AddGuardian(context.Background(), student.ID, &dto.CreateGuardianRequest{
			Name: "X", Relationship: "Bố", Phone: "abc",
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestStudentService_UpdateGuardian(t *testing.T) {
	store := newStubStudentStore()
	service := newStudentService(store, nil)
	student, err := service.Create(context.Background(), validCreateStudentRequest())
	require.NoError(t, err)
	primary := student.Guardians[0]

	t.Run("demoting the sole primary is rejected", func(t *testing.T) {
		demote := false
		_, err := service.UpdateGuardian(context.Background(), student.ID, primary.ID, &dto.UpdateGuardianRequest{
			IsPrimary: &demote,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("promoting another guardian demotes the primary", func(t *testing.T) {
		other, err := service.AddGuardian(context.Background(), student.ID, &dto.CreateGuardianRequest{
			Name: "Trần Thị B", Relationship: "Mẹ", Phone: "0912345678",
		})
		require.NoError(t, err)

		promote := true
		updated, err := service.UpdateGuardian(context.Background(), student.ID, other.ID, &dto.UpdateGuardianRequest{
			IsPrimary: &promote,
		})
		require.NoError(t, err)
		assert.True(t, updated.IsPrimary)

		former, err := service.students.GetGuardian(context.Background(), student.ID, primary.ID)
		require.NoError(t, err)
		assert.False(t, former.IsPrimary)
	})

	t.Run("invalid phone", func(t *testing.T) {
		phone := "not-a-phone"
		_, err := service.UpdateGuardian(context.Background(), student.ID, primary.ID, &dto.UpdateGuardianRequest{
			Phone: &phone,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown guardian", func(t *testing.T) {
		_, err := service.UpdateGuardian(context.Background(), student.ID, 999, &dto.UpdateGuardianRequest{})
		assert.ErrorIs(t, err, apperrors.ErrGuardianNotFound)
	})
}

func TestStudentService_RemoveGuardian(t *testing.T) {
	setup := func(t *testing.T) (*StudentService, *models.Student) {
		t.Helper()
		store := newStubStudentStore()
		service := newStudentService(store, nil)
		student, err := service.Create(context.Background(), validCreateStudentRequest())
		require.NoError(t, err)
		return service, student
	}

	t.Run("the last guardian cannot be removed", func(t *testing.T) {
		service, student := setup(t)

		err := service.RemoveGuardian(context.Background(), student.ID, student.Guardians[0].ID)
		assert.ErrorIs(t, err, apperrors.ErrLastGuardian)

		guardians, err := service.ListGuardians(context.Background(), student.ID)
		require.NoError(t, err)
		assert.Len(t, guardians, 1)
	})

	t.Run("removing the primary promotes the lowest remaining id", func(t *testing.T) {
		service, student := setup(t)
		primary := student.Guardians[0]
		second, err := service.AddGuardian(context.Background(), student.ID, &dto.CreateGuardianRequest{
			Name: "Trần Thị B", Relationship: "Mẹ", Phone: "0912345678",
		})
		require.NoError(t, err)
		third, err := service.AddGuardian(context.Background(), student.ID, &dto.CreateGuardianRequest{
			Name: "Nguyễn Văn C", Relationship: "Ông", Phone: "0923456789",
		})
		require.NoError(t, err)

		require.NoError(t, service.RemoveGuardian(context.Background(), student.ID, primary.ID))

		guardians, err := service.ListGuardians(context.Background(), student.ID)
		require.NoError(t, err)
		require.Len(t, guardians, 2)
		for _, g := range guardians {
			switch g.ID {
			case second.ID:
				assert.True(t, g.IsPrimary)
			case third.ID:
				assert.False(t, g.IsPrimary)
			default:
				t.Fatalf("unexpected guardian %d", g.ID)
			}
		}
	})

	t.Run("removing a non-primary keeps the primary", func(t *testing.T) {
		service, student := setup(t)
		primary := student.Guardians[0]
		other, err := service.AddGuardian(context.Background(), student.ID, &dto.CreateGuardianRequest{
			Name: "Trần Thị B", Relationship: "Mẹ", Phone: "0912345678",
		})
		require.NoError(t, err)

		require.NoError(t, service.RemoveGuardian(context.Background(), student.ID, other.ID))

		remaining, err := service.students.GetGuardian(context.Background(), student.ID, primary.ID)
		require.NoError(t, err)
		assert.True(t, remaining.IsPrimary)
	})

	t.Run("unknown guardian", func(t *testing.T) {
		service, student := setup(t)

		err := service.RemoveGuardian(context.Background(), student.ID, 999)
		assert.ErrorIs(t, err, apperrors.ErrGuardianNotFound)
	})
}

func TestStudentService_ListGuardians_UnknownStudent(t *testing.T) {
	service := newStudentService(newStubStudentStore(), nil)

	_, err := service.ListGuardians(context.Background(), 42)
	assert.True(t, errors.Is(err, apperrors.ErrStudentNotFound))
}
