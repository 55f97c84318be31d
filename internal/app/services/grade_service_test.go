package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
)

type stubGradeStore struct {
	columns map[int64]*models.GradeColumn
	grades  map[int64]map[int64]*models.Grade // column id -> student id
	nextID  int64
}

func newStubGradeStore() *stubGradeStore {
	return &stubGradeStore{
		columns: map[int64]*models.GradeColumn{},
		grades:  map[int64]map[int64]*models.Grade{},
		nextID:  1,
	}
}

func (s *stubGradeStore) ListColumns(_ context.Context, classID int64) ([]models.GradeColumn, error) {
	result := []models.GradeColumn{}
	for _, column := range s.columns {
		if column.ClassID == classID {
			result = append(result, *column)
		}
	}
	return result, nil
}

func (s *stubGradeStore) GetColumn(_ context.Context, classID, columnID int64) (*models.GradeColumn, error) {
	column, ok := s.columns[columnID]
	if !ok || column.ClassID != classID {
		return nil, apperrors.ErrGradeColumnNotFound
	}
	copied := *column
	return &copied, nil
}

func (s *stubGradeStore) CreateColumn(_ context.Context, column *models.GradeColumn) error {
	column.ID = s.nextID
	s.nextID++
	s.columns[column.ID] = column
	return nil
}

func (s *stubGradeStore) UpdateColumn(_ context.Context, column *models.GradeColumn) error {
	if _, ok := s.columns[column.ID]; !ok {
		return apperrors.ErrGradeColumnNotFound
	}
	s.columns[column.ID] = column
	return nil
}

func (s *stubGradeStore) DeleteColumn(_ context.Context, classID, columnID int64) error {
	delete(s.columns, columnID)
	delete(s.grades, columnID)
	return nil
}

func (s *stubGradeStore) UpsertGrade(_ context.Context, grade *models.Grade) error {
	byStudent, ok := s.grades[grade.GradeColumnID]
	if !ok {
		byStudent = map[int64]*models.Grade{}
		s.grades[grade.GradeColumnID] = byStudent
	}
	if existing, ok := byStudent[grade.StudentID]; ok {
		grade.ID = existing.ID
	} else {
		grade.ID = s.nextID
		s.nextID++
	}
	byStudent[grade.StudentID] = grade
	return nil
}

func (s *stubGradeStore) ListByClass(_ context.Context, classID int64) ([]models.Grade, error) {
	result := []models.Grade{}
	for columnID, byStudent := range s.grades {
		column, ok := s.columns[columnID]
		if !ok || column.ClassID != classID {
			continue
		}
		for _, grade := range byStudent {
			result = append(result, *grade)
		}
	}
	return result, nil
}

type stubRosterLookup struct {
	classes map[int64][]models.Student
}

func (s *stubRosterLookup) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := s.classes[id]
	return ok, nil
}

func (s *stubRosterLookup) Roster(_ context.Context, classID int64) ([]models.Student, error) {
	return s.classes[classID], nil
}

func newGradeFixture() (*GradeService, *stubGradeStore, *stubRosterLookup) {
	store := newStubGradeStore()
	classes := &stubRosterLookup{classes: map[int64][]models.Student{
		1: {
			{ID: 10, FullName: "Nguyễn An"},
			{ID: 11, FullName: "Trần Bảo"},
		},
	}}
	return NewGradeService(store, classes, zerolog.Nop()), store, classes
}

func TestGradeService_CreateColumn(t *testing.T) {
	service, _, _ := newGradeFixture()

	t.Run("max score defaults to 10", func(t *testing.T) {
		column, err := service.CreateColumn(context.Background(), 1, &dto.CreateGradeColumnRequest{
			Name:   "Điểm miệng",
			Type:   models.GradeColumnOral,
			Weight: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, float64(10), column.MaxScore)
	})

	t.Run("unknown class", func(t *testing.T) {
		_, err := service.CreateColumn(context.Background(), 99, &dto.CreateGradeColumnRequest{
			Name:   "Điểm miệng",
			Type:   models.GradeColumnOral,
			Weight: 1,
		})
		assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
	})

	t.Run("unknown column type", func(t *testing.T) {
		_, err := service.CreateColumn(context.Background(), 1, &dto.CreateGradeColumnRequest{
			Name:   "???",
			Type:   models.GradeColumnType("HOMEWORK"),
			Weight: 1,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestGradeService_UpdateColumn(t *testing.T) {
	service, _, _ := newGradeFixture()
	column, err := service.CreateColumn(context.Background(), 1, &dto.CreateGradeColumnRequest{
		Name:   "Thi cuối kỳ",
		Type:   models.GradeColumnFinal,
		Weight: 3,
	})
	require.NoError(t, err)

	t.Run("weight below one is rejected", func(t *testing.T) {
		weight := 0
		_, err := service.UpdateColumn(context.Background(), 1, column.ID, &dto.UpdateGradeColumnRequest{
			Weight: &weight,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("non-positive max score is rejected", func(t *testing.T) {
		maxScore := 0.0
		_, err := service.UpdateColumn(context.Background(), 1, column.ID, &dto.UpdateGradeColumnRequest{
			MaxScore: &maxScore,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := service.UpdateColumn(context.Background(), 1, 999, &dto.UpdateGradeColumnRequest{})
		assert.ErrorIs(t, err, apperrors.ErrGradeColumnNotFound)
	})
}

func TestGradeService_UpsertGrade(t *testing.T) {
	service, _, _ := newGradeFixture()
	column, err := service.CreateColumn(context.Background(), 1, &dto.CreateGradeColumnRequest{
		Name:   "Điểm miệng",
		Type:   models.GradeColumnOral,
		Weight: 1,
	})
	require.NoError(t, err)

	t.Run("boundary scores are accepted", func(t *testing.T) {
		for _, score := range []float64{0, 10} {
			_, err := service.UpsertGrade(context.Background(), 1, column.ID, &dto.UpsertGradeRequest{
				StudentID: 10,
				Score:     score,
			})
			assert.NoError(t, err)
		}
	})

	t.Run("score above max is rejected", func(t *testing.T) {
		_, err := service.UpsertGrade(context.Background(), 1, column.ID, &dto.UpsertGradeRequest{
			StudentID: 10,
			Score:     10.5,
		})
		assert.ErrorIs(t, err, apperrors.ErrScoreOutOfRange)
	})

	t.Run("negative score is rejected", func(t *testing.T) {
		_, err := service.UpsertGrade(context.Background(), 1, column.ID, &dto.UpsertGradeRequest{
			StudentID: 10,
			Score:     -1,
		})
		assert.ErrorIs(t, err, apperrors.ErrScoreOutOfRange)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := service.UpsertGrade(context.Background(), 1, 999, &dto.UpsertGradeRequest{
			StudentID: 10,
			Score:     5,
		})
		assert.ErrorIs(t, err, apperrors.ErrGradeColumnNotFound)
	})
}

func TestGradeService_ClassGrades(t *testing.T) {
	service, _, _ := newGradeFixture()

	oral, err := service.CreateColumn(context.Background(), 1, &dto.CreateGradeColumnRequest{
		Name:   "Điểm miệng",
		Type:   models.GradeColumnOral,
		Weight: 1,
	})
	require.NoError(t, err)
	final, err := service.CreateColumn(context.Background(), 1, &dto.CreateGradeColumnRequest{
		Name:   "Thi cuối kỳ",
		Type:   models.GradeColumnFinal,
		Weight: 3,
	})
	require.NoError(t, err)

	// Student 10 has both scores, student 11 has none.
	_, err = service.UpsertGrade(context.Background(), 1, oral.ID, &dto.UpsertGradeRequest{StudentID: 10, Score: 8})
	require.NoError(t, err)
	_, err = service.UpsertGrade(context.Background(), 1, final.ID, &dto.UpsertGradeRequest{StudentID: 10, Score: 6})
	require.NoError(t, err)

	matrix, err := service.ClassGrades(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, matrix.Rows, 2)
	rows := map[int64]models.StudentGradeRow{}
	for _, row := range matrix.Rows {
		rows[row.StudentID] = row
	}

	scored := rows[10]
	require.NotNil(t, scored.Average)
	// (8×1 + 6×3) / (1+3)
	assert.InDelta(t, 6.5, *scored.Average, 1e-9)
	require.NotNil(t, scored.Scores[oral.ID])
	assert.Equal(t, float64(8), *scored.Scores[oral.ID])

	unscored := rows[11]
	assert.Nil(t, unscored.Average)
	assert.Nil(t, unscored.Scores[oral.ID])
	assert.Nil(t, unscored.Scores[final.ID])
}

func TestGradeService_ClassGrades_UnknownClass(t *testing.T) {
	service, _, _ := newGradeFixture()

	_, err := service.ClassGrades(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
}
