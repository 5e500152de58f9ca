package services

import (
	"context"
	"fmt"

	"github.com/shopsmart/apiserver/types"
)

// ProductRepository defines read operations on the catalog.
type ProductRepository interface {
	List(ctx context.Context, params types.ListParams) ([]types.Product, int, error)
	Get(ctx context.Context, id int) (types.Product, error)
	Images(ctx context.Context, productID int) ([]types.ProductImage, error)
	Categories(ctx context.Context) ([]types.Category, error)
}

// CatalogPage is one browsable page of the catalog: the filtered
// products, pagination metadata for the filtered set, and the filter
// values echoed back so the caller can re-render controls statelessly.
type CatalogPage struct {
	Products       []types.Product
	Pagination     types.Pagination
	Categories     []types.Category
	SortOptions    []types.SortOption
	AppliedFilters types.ListParams
}

// CatalogService encapsulates catalog browsing use-cases.
type CatalogService struct {
	repo ProductRepository
}

func NewCatalogService(repo ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Browse returns one page of the catalog for the given filters.
func (s *CatalogService) Browse(ctx context.Context, params types.ListParams) (CatalogPage, error) {
	params = params.Normalize()

	products, total, err := s.repo.List(ctx, params)
	if err != nil {
		return CatalogPage{}, fmt.Errorf("list products: %w", err)
	}

	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return CatalogPage{}, fmt.Errorf("list categories: %w", err)
	}

	return CatalogPage{
		Products:       products,
		Pagination:     types.NewPagination(params.Page, params.Limit, total),
		Categories:     categories,
		SortOptions:    types.SortOptions(),
		AppliedFilters: params,
	}, nil
}

// Get returns one product with all of its images.
func (s *CatalogService) Get(ctx context.Context, id int) (types.Product, []types.ProductImage, error) {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Product{}, nil, err
	}
	images, err := s.repo.Images(ctx, id)
	if err != nil {
		return types.Product{}, nil, fmt.Errorf("list images: %w", err)
	}
	return product, images, nil
}
