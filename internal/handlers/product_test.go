package handlers

import (
	"net/http"
	"testing"

	"github.com/shopsmart/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(env *testEnv) {
	env.products.products = []types.Product{
		{ID: 1, Name: "Wireless Headphones", Price: 99.99, IsFeatured: true},
		{ID: 2, Name: "Mechanical Keyboard", Price: 149.00},
		{ID: 3, Name: "USB-C Hub", Price: 39.50},
	}
	env.products.categories = []types.Category{
		{ID: 1, Name: "Electronics"},
	}
	env.products.images[1] = []types.ProductImage{
		{ID: 10, ProductID: 1, ImageURL: "https://cdn.example.com/p1.jpg", IsPrimary: true},
	}
}

func TestListProducts_Envelope(t *testing.T) {
	env := newTestEnv()
	seedCatalog(env)

	rec := env.do(t, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	message, data := decodeSuccess(t, rec)
	assert.Equal(t, "Products retrieved successfully", message)

	products, ok := data["products"].([]any)
	require.True(t, ok)
	assert.Len(t, products, 3)

	pagination, ok := data["pagination"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), pagination["current_page"])
	assert.Equal(t, float64(3), pagination["total_products"])
	assert.Equal(t, false, pagination["has_next"])

	filters, ok := data["filters"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, filters, "categories")
	assert.Contains(t, filters, "sort_options")
	assert.Contains(t, data, "applied_filters")
}

func TestListProducts_Pagination(t *testing.T) {
	env := newTestEnv()
	seedCatalog(env)

	rec := env.do(t, http.MethodGet, "/products?page=2&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, data := decodeSuccess(t, rec)
	products := data["products"].([]any)
	assert.Len(t, products, 1)

	pagination := data["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pagination["current_page"])
	assert.Equal(t, float64(2), pagination["total_pages"])
	assert.Equal(t, true, pagination["has_prev"])
	assert.Equal(t, false, pagination["has_next"])
}

func TestListProducts_FeaturedFlag(t *testing.T) {
	env := newTestEnv()
	seedCatalog(env)

	rec := env.do(t, http.MethodGet, "/products?featured=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, data := decodeSuccess(t, rec)
	products := data["products"].([]any)
	require.Len(t, products, 1)
	first := products[0].(map[string]any)
	assert.Equal(t, "Wireless Headphones", first["name"])
}

func TestListProducts_EmptyCatalogKeepsArrays(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, data := decodeSuccess(t, rec)
	products, ok := data["products"].([]any)
	require.True(t, ok, "products must be an array, not null")
	assert.Empty(t, products)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv()
	seedCatalog(env)

	rec := env.do(t, http.MethodGet, "/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, data := decodeSuccess(t, rec)
	product := data["product"].(map[string]any)
	assert.Equal(t, "Wireless Headphones", product["name"])
	images := data["images"].([]any)
	assert.Len(t, images, 1)
}

func TestGetProduct_Errors(t *testing.T) {
	env := newTestEnv()
	seedCatalog(env)

	rec := env.do(t, http.MethodGet, "/products/999", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Product not found or unavailable", decodeError(t, rec))

	rec = env.do(t, http.MethodGet, "/products/banana", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid product ID", decodeError(t, rec))
}

func TestUnknownEndpointAndMethod(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Endpoint not found", decodeError(t, rec))

	rec = env.do(t, http.MethodDelete, "/products", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method not allowed", decodeError(t, rec))
}

func TestHealthz(t *testing.T) {
	env := newTestEnv()

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
