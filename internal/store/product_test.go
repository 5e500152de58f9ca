package store

import (
	"testing"

	"github.com/shopsmart/apiserver/types"
	"github.com/stretchr/testify/assert"
)

func TestBuildProductFilters_ActiveOnly(t *testing.T) {
	where, args := buildProductFilters(types.ListParams{})

	assert.Equal(t, "WHERE p.is_active = TRUE", where)
	assert.Empty(t, args)
}

func TestBuildProductFilters_Search(t *testing.T) {
	where, args := buildProductFilters(types.ListParams{Search: "head phones"})

	assert.Contains(t, where, "p.name ILIKE $1")
	assert.Contains(t, where, "p.description ILIKE $2")
	assert.Contains(t, where, "p.brand ILIKE $3")
	assert.Equal(t, []any{"%head phones%", "%head phones%", "%head phones%"}, args)
}

func TestBuildProductFilters_PlaceholdersStaySequential(t *testing.T) {
	featured := true
	newArrival := false
	where, args := buildProductFilters(types.ListParams{
		Search:     "watch",
		Category:   "Electronics",
		Featured:   &featured,
		NewArrival: &newArrival,
	})

	assert.Contains(t, where, "c.name = $4")
	assert.Contains(t, where, "p.is_featured = $5")
	assert.Contains(t, where, "p.is_new_arrival = $6")
	assert.Equal(t, []any{"%watch%", "%watch%", "%watch%", "Electronics", true, false}, args)
}

func TestBuildProductFilters_FalseFlagIsAFilter(t *testing.T) {
	bestseller := false
	where, args := buildProductFilters(types.ListParams{Bestseller: &bestseller})

	assert.Contains(t, where, "p.is_bestseller = $1")
	assert.Equal(t, []any{false}, args)
}

func TestOrderClause(t *testing.T) {
	cases := map[string]string{
		types.SortPriceLowHigh: "ORDER BY display_price ASC",
		types.SortPriceHighLow: "ORDER BY display_price DESC",
		types.SortRating:       "ORDER BY p.rating DESC, p.review_count DESC",
		types.SortNewest:       "ORDER BY p.created_at DESC",
		types.SortName:         "ORDER BY p.name ASC",
		types.SortFeatured:     "ORDER BY p.is_featured DESC, p.is_bestseller DESC, p.rating DESC",
	}
	for sort, want := range cases {
		assert.Equal(t, want, orderClause(sort), "sort %q", sort)
	}
}
