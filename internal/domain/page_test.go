package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FemiElu/movaa-park-api/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestNewPaginationParams_defaults(t *testing.T) {
	p := domain.NewPaginationParams(nil, nil)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
}

func TestNewPaginationParams_capsLimit(t *testing.T) {
	p := domain.NewPaginationParams(intPtr(2), intPtr(500))

	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 100, p.Limit)
}

func TestPaginate_windows(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, domain.Paginate(items, domain.PaginationParams{Page: 1, Limit: 2}))
	assert.Equal(t, []int{3, 4}, domain.Paginate(items, domain.PaginationParams{Page: 2, Limit: 2}))
	assert.Equal(t, []int{5}, domain.Paginate(items, domain.PaginationParams{Page: 3, Limit: 2}))
}

func TestPaginate_outOfRangeReturnsEmpty(t *testing.T) {
	got := domain.Paginate([]int{1, 2}, domain.PaginationParams{Page: 9, Limit: 10})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
