package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		name                string
		page, limit         int
		wantPage, wantLimit int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative values", -3, -10, 1, 20},
		{"within range", 2, 50, 2, 50},
		{"limit clamped to max", 1, 500, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := NormalizePagination(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, 20, limit)

	offset, limit = CalculateOffsetLimit(0, 0)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, 20, limit)
}

func TestNewPaginationMeta(t *testing.T) {
	t.Run("total pages rounds up", func(t *testing.T) {
		meta := NewPaginationMeta(45, 1, 20)
		assert.Equal(t, int64(45), meta.Total)
		assert.Equal(t, 3, meta.TotalPages)
	})

	t.Run("exact multiple", func(t *testing.T) {
		meta := NewPaginationMeta(40, 1, 20)
		assert.Equal(t, 2, meta.TotalPages)
	})

	t.Run("empty result", func(t *testing.T) {
		meta := NewPaginationMeta(0, 1, 20)
		assert.Equal(t, 0, meta.TotalPages)
	})

	t.Run("page beyond the last stays as requested", func(t *testing.T) {
		meta := NewPaginationMeta(5, 9, 20)
		assert.Equal(t, 9, meta.Page)
		assert.Equal(t, 1, meta.TotalPages)
	})
}
