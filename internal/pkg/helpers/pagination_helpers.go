package helpers

import (
	"math"

	"github.com/qlgl/catechism-backend/internal/app/models/dto"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultPage     = 1 // Page numbers are 1-based
)

// NormalizePagination clamps page and limit into their valid ranges.
func NormalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// CalculateOffsetLimit converts a 1-based page number into a SQL offset.
func CalculateOffsetLimit(page, limit int) (offset uint64, clampedLimit int) {
	page, clampedLimit = NormalizePagination(page, limit)
	offset = uint64((page - 1) * clampedLimit)
	return offset, clampedLimit
}

// NewPaginationMeta creates the standard pagination metadata returned
// alongside list results. totalPages = ceil(total/limit).
func NewPaginationMeta(total int64, page, limit int) dto.PaginationMeta {
	page, limit = NormalizePagination(page, limit)

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}

	return dto.PaginationMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
