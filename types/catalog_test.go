package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_Defaults(t *testing.T) {
	params := ListParams{}.Normalize()

	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 12, params.Limit)
	assert.Equal(t, SortFeatured, params.Sort)
}

func TestNormalize_ClampsPageAndLimit(t *testing.T) {
	params := ListParams{Page: -3, Limit: 500}.Normalize()
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, maxPageSize, params.Limit)

	params = ListParams{Page: 7, Limit: 20}.Normalize()
	assert.Equal(t, 7, params.Page)
	assert.Equal(t, 20, params.Limit)
}

func TestNormalize_UnknownSortFallsBack(t *testing.T) {
	params := ListParams{Sort: "cheapest_first"}.Normalize()
	assert.Equal(t, SortFeatured, params.Sort)

	params = ListParams{Sort: SortPriceHighLow}.Normalize()
	assert.Equal(t, SortPriceHighLow, params.Sort)
}

func TestOffset(t *testing.T) {
	params := ListParams{Page: 1, Limit: 12}.Normalize()
	assert.Equal(t, 0, params.Offset())

	params = ListParams{Page: 3, Limit: 12}.Normalize()
	assert.Equal(t, 24, params.Offset())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 12, 30)

	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 30, p.TotalProducts)
	assert.Equal(t, 12, p.ProductsPerPage)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}

func TestNewPagination_ExactMultiple(t *testing.T) {
	p := NewPagination(2, 12, 24)

	assert.Equal(t, 2, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)
}

func TestNewPagination_EmptyResult(t *testing.T) {
	p := NewPagination(1, 12, 0)

	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNext)
	assert.False(t, p.HasPrev)
}

func TestSortOptions_CoverAllSortKeys(t *testing.T) {
	options := SortOptions()

	values := make(map[string]bool, len(options))
	for _, option := range options {
		values[option.Value] = true
		assert.NotEmpty(t, option.Label)
	}
	for _, key := range []string{
		SortFeatured, SortPriceLowHigh, SortPriceHighLow,
		SortRating, SortNewest, SortName,
	} {
		assert.True(t, values[key], "missing sort option %q", key)
	}
}
