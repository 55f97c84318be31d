package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/app/models/dto"
)

// parishStore is the persistence surface the parish service needs.
type parishStore interface {
	GetAll(ctx context.Context) ([]models.Parish, error)
	GetByID(ctx context.Context, id int64) (*models.Parish, error)
	Create(ctx context.Context, parish *models.Parish) error
	Update(ctx context.Context, parish *models.Parish) error
	Delete(ctx context.Context, id int64) error
}

// ParishService handles parish reference data operations
type ParishService struct {
	parishes parishStore
	logger   zerolog.Logger
}

// NewParishService creates a new ParishService
func NewParishService(parishes parishStore, logger zerolog.Logger) *ParishService {
	return &ParishService{parishes: parishes, logger: logger}
}

// GetAll retrieves all parishes ordered by name.
func (s *ParishService) GetAll(ctx context.Context) ([]models.Parish, error) {
	return s.parishes.GetAll(ctx)
}

// GetByID retrieves a parish by ID
func (s *ParishService) GetByID(ctx context.Context, id int64) (*models.Parish, error) {
	return s.parishes.GetByID(ctx, id)
}

// Create creates a new parish
func (s *ParishService) Create(ctx context.Context, req *dto.CreateParishRequest) (*models.Parish, error) {
	parish := &models.Parish{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
	}
	if err := s.parishes.Create(ctx, parish); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("parishId", parish.ID).Str("name", parish.Name).Msg("Parish created")

	return parish, nil
}

// Update applies a partial update to a parish.
func (s *ParishService) Update(ctx context.Context, id int64, req *dto.UpdateParishRequest) (*models.Parish, error) {
	parish, err := s.parishes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		parish.Name = *req.Name
	}
	if req.Description != nil {
		parish.Description = req.Description
	}
	if req.Address != nil {
		parish.Address = req.Address
	}

	if err := s.parishes.Update(ctx, parish); err != nil {
		return nil, err
	}

	return parish, nil
}

// Delete removes a parish. Students referencing it are detached, not
// deleted.
func (s *ParishService) Delete(ctx context.Context, id int64) error {
	return s.parishes.Delete(ctx, id)
}
