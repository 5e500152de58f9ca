package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopsmart/apiserver/internal/services"
	"github.com/shopsmart/apiserver/internal/store"
	"github.com/shopsmart/apiserver/types"
)

// ProductHandler provides catalog browsing endpoints.
type ProductHandler struct {
	catalog *services.CatalogService
}

func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ProductRouter registers catalog routes on the given router.
func ProductRouter(r chi.Router, catalog *services.CatalogService) {
	handler := NewProductHandler(catalog)

	r.Get("/", handler.ListProducts)
	r.Get("/{id}", handler.GetProduct)
}

type productListData struct {
	Products       []types.Product    `json:"products"`
	Pagination     types.Pagination   `json:"pagination"`
	Filters        productListFilters `json:"filters"`
	AppliedFilters types.ListParams   `json:"applied_filters"`
}

type productListFilters struct {
	Categories  []types.Category   `json:"categories"`
	SortOptions []types.SortOption `json:"sort_options"`
}

// ListProducts returns one filtered, sorted, paginated catalog page.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := types.ListParams{
		Search:     query.Get("search"),
		Category:   query.Get("category"),
		Sort:       query.Get("sort"),
		Page:       atoiOr(query.Get("page"), 1),
		Limit:      atoiOr(query.Get("limit"), 0),
		Featured:   parseOptionalBool(query.Get("featured")),
		Bestseller: parseOptionalBool(query.Get("bestseller")),
		NewArrival: parseOptionalBool(query.Get("new_arrival")),
	}

	page, err := h.catalog.Browse(r.Context(), params)
	if err != nil {
		log.Printf("list products: %v", err)
		writeError(w, http.StatusBadRequest, "Failed to retrieve products")
		return
	}

	if page.Products == nil {
		page.Products = []types.Product{}
	}
	if page.Categories == nil {
		page.Categories = []types.Category{}
	}

	writeSuccess(w, http.StatusOK, "Products retrieved successfully", productListData{
		Products:   page.Products,
		Pagination: page.Pagination,
		Filters: productListFilters{
			Categories:  page.Categories,
			SortOptions: page.SortOptions,
		},
		AppliedFilters: page.AppliedFilters,
	})
}

// GetProduct returns one product with all of its images.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, images, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Product not found or unavailable")
			return
		}
		log.Printf("get product %d: %v", id, err)
		writeError(w, http.StatusBadRequest, "Failed to retrieve product")
		return
	}

	if images == nil {
		images = []types.ProductImage{}
	}

	writeSuccess(w, http.StatusOK, "Product retrieved successfully", map[string]any{
		"product": product,
		"images":  images,
	})
}
