package types

// Sort keys accepted by the product listing. Unknown values fall back
// to SortFeatured.
const (
	SortFeatured     = "featured"
	SortPriceLowHigh = "price_low_high"
	SortPriceHighLow = "price_high_low"
	SortRating       = "rating"
	SortNewest       = "newest"
	SortName         = "name"
)

const (
	defaultPageSize = 12
	maxPageSize     = 50
)

// ListParams are the catalog listing filters, sort and page selection.
// Optional boolean flags are nil when not supplied, so "not filtered"
// and "filtered to false" stay distinct.
type ListParams struct {
	Search     string `json:"search"`
	Category   string `json:"category"`
	Sort       string `json:"sort"`
	Page       int    `json:"-"`
	Limit      int    `json:"-"`
	Featured   *bool  `json:"featured"`
	Bestseller *bool  `json:"bestseller"`
	NewArrival *bool  `json:"new_arrival"`
}

// Normalize clamps page and limit into their allowed ranges and maps
// unknown sort keys to the default.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	switch p.Sort {
	case SortFeatured, SortPriceLowHigh, SortPriceHighLow, SortRating, SortNewest, SortName:
	default:
		p.Sort = SortFeatured
	}
	return p
}

// Offset is the row offset for the selected page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination describes the page window of a filtered listing. Totals
// refer to the filtered set, not the whole catalog.
type Pagination struct {
	CurrentPage     int  `json:"current_page"`
	TotalPages      int  `json:"total_pages"`
	TotalProducts   int  `json:"total_products"`
	ProductsPerPage int  `json:"products_per_page"`
	HasNext         bool `json:"has_next"`
	HasPrev         bool `json:"has_prev"`
}

// NewPagination computes page metadata for a filtered total.
func NewPagination(page, limit, total int) Pagination {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return Pagination{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalProducts:   total,
		ProductsPerPage: limit,
		HasNext:         page < totalPages,
		HasPrev:         page > 1,
	}
}

// SortOption is one entry of the sort control echoed to the caller.
type SortOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SortOptions lists the supported sort keys with display labels.
func SortOptions() []SortOption {
	return []SortOption{
		{Value: SortFeatured, Label: "Featured"},
		{Value: SortPriceLowHigh, Label: "Price: Low to High"},
		{Value: SortPriceHighLow, Label: "Price: High to Low"},
		{Value: SortRating, Label: "Highest Rated"},
		{Value: SortNewest, Label: "Newest First"},
		{Value: SortName, Label: "Name A-Z"},
	}
}
