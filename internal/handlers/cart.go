package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopsmart/apiserver/internal/services"
	"github.com/shopsmart/apiserver/internal/session"
	"github.com/shopsmart/apiserver/internal/store"
	"github.com/shopsmart/apiserver/types"
)

// CartHandler provides the shopping cart endpoints. Every operation is
// scoped to the caller's principal, so one visitor can never read or
// mutate another visitor's cart.
type CartHandler struct {
	cart *services.CartService
}

func NewCartHandler(cart *services.CartService) *CartHandler {
	return &CartHandler{cart: cart}
}

// CartRouter registers cart routes on the given router.
func CartRouter(r chi.Router, cart *services.CartService) {
	handler := NewCartHandler(cart)

	r.Get("/", handler.GetCart)
	r.Post("/", handler.AddItem)
	r.Put("/", handler.UpdateItem)
	r.Delete("/", handler.RemoveItem)
}

// Pointer fields distinguish "missing" from zero values in requests.
type addItemRequest struct {
	ProductID *int `json:"product_id"`
	Quantity  *int `json:"quantity"`
}

type updateItemRequest struct {
	CartID   *int `json:"cart_id"`
	Quantity *int `json:"quantity"`
}

type removeItemRequest struct {
	CartID *int `json:"cart_id"`
}

// GetCart returns every line of the caller's cart with a totals summary.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "Failed to retrieve cart")
		return
	}

	lines, summary, err := h.cart.List(r.Context(), principal)
	if err != nil {
		log.Printf("list cart: %v", err)
		writeError(w, http.StatusBadRequest, "Failed to retrieve cart")
		return
	}
	if lines == nil {
		lines = []types.CartLine{}
	}

	writeSuccess(w, http.StatusOK, "Cart retrieved successfully", map[string]any{
		"cart_items": lines,
		"summary":    summary,
	})
}

// AddItem adds a product to the cart, folding the quantity into an
// existing line for the same product when one exists.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "Failed to add item to cart")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON input")
		return
	}
	if req.ProductID == nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "Product ID and quantity are required")
		return
	}

	created, err := h.cart.Add(r.Context(), principal, *req.ProductID, *req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusBadRequest, "Product not found or unavailable")
		case errors.Is(err, services.ErrQuantityExceedsStock):
			writeError(w, http.StatusBadRequest, "Insufficient stock available for requested quantity")
		case errors.Is(err, store.ErrInsufficientStock):
			writeError(w, http.StatusBadRequest, "Insufficient stock available")
		default:
			log.Printf("add cart item: %v", err)
			writeError(w, http.StatusBadRequest, "Failed to add item to cart")
		}
		return
	}

	message := "Cart item updated successfully"
	if created {
		message = "Item added to cart successfully"
	}
	writeSuccess(w, http.StatusOK, message, map[string]any{
		"product_id": *req.ProductID,
		"quantity":   *req.Quantity,
	})
}

// UpdateItem sets the quantity of an existing cart line. Quantity zero
// removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "Failed to update cart item")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON input")
		return
	}
	if req.CartID == nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "Cart ID and quantity are required")
		return
	}

	removed, err := h.cart.SetQuantity(r.Context(), principal, *req.CartID, *req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusBadRequest, "Cart item not found")
		case errors.Is(err, store.ErrInsufficientStock):
			writeError(w, http.StatusBadRequest, "Insufficient stock available")
		default:
			log.Printf("update cart item: %v", err)
			writeError(w, http.StatusBadRequest, "Failed to update cart item")
		}
		return
	}

	if removed {
		writeSuccess(w, http.StatusOK, "Item removed from cart", map[string]any{
			"cart_id": *req.CartID,
		})
		return
	}
	writeSuccess(w, http.StatusOK, "Cart item updated successfully", map[string]any{
		"cart_id":  *req.CartID,
		"quantity": *req.Quantity,
	})
}

// RemoveItem deletes one cart line. The cart id may come from the JSON
// body or from a query parameter.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	principal, ok := session.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "Failed to remove item from cart")
		return
	}

	var req removeItemRequest
	if r.Body != nil {
		// Body is optional on DELETE; decode errors on an empty body
		// are fine as long as the query parameter is present.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.CartID == nil {
		if id := atoiOr(r.URL.Query().Get("cart_id"), 0); id > 0 {
			req.CartID = &id
		}
	}
	if req.CartID == nil {
		writeError(w, http.StatusBadRequest, "Cart ID is required")
		return
	}

	if err := h.cart.Remove(r.Context(), principal, *req.CartID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusBadRequest, "Cart item not found")
			return
		}
		log.Printf("remove cart item: %v", err)
		writeError(w, http.StatusBadRequest, "Failed to remove item from cart")
		return
	}

	writeSuccess(w, http.StatusOK, "Item removed from cart successfully", map[string]any{
		"cart_id": *req.CartID,
	})
}
