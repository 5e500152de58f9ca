package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopsmart/apiserver/internal/store"
	"github.com/shopsmart/apiserver/types"
)

// ErrQuantityExceedsStock is returned when adding to an existing line
// would push its combined quantity past the product's stock. A fresh
// line that exceeds stock fails with store.ErrInsufficientStock; the
// two cases surface as different messages.
var ErrQuantityExceedsStock = errors.New("insufficient stock for requested quantity")

// CartRepository defines persistence operations for cart lines. Writes
// that depend on stock are conditional in the repository, so checks
// here are fast-fail courtesy checks, not the authority.
type CartRepository interface {
	GetProductForSale(ctx context.Context, productID int) (store.ProductStock, error)
	FindLine(ctx context.Context, principal types.Principal, productID int) (store.LineRef, error)
	GetLine(ctx context.Context, principal types.Principal, cartID int) (store.LineRef, error)
	InsertLine(ctx context.Context, principal types.Principal, productID, quantity int) (int, error)
	UpdateLineQuantity(ctx context.Context, cartID, quantity int) error
	DeleteLine(ctx context.Context, principal types.Principal, cartID int) error
}

// CartLister lists a principal's lines joined with live product data.
type CartLister interface {
	ListLines(ctx context.Context, principal types.Principal) ([]types.CartLine, error)
}

// CartStore is the full cart persistence surface.
type CartStore interface {
	CartRepository
	CartLister
}

// CartService reconciles cart lines per (principal, product) pair: at
// most one line exists for each pair, repeat adds aggregate quantities,
// and every quantity is capped by the product's live stock.
type CartService struct {
	repo CartStore
}

func NewCartService(repo CartStore) *CartService {
	return &CartService{repo: repo}
}

// Add puts quantity units of a product into the principal's cart. When
// a line for the product already exists, the quantity is added to it
// and the combined total is re-checked against current stock. Returns
// true when a new line was created.
func (s *CartService) Add(ctx context.Context, principal types.Principal, productID, quantity int) (bool, error) {
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.repo.GetProductForSale(ctx, productID)
	if err != nil {
		return false, err
	}
	if product.StockQuantity < quantity {
		return false, store.ErrInsufficientStock
	}

	line, err := s.repo.FindLine(ctx, principal, productID)
	if errors.Is(err, store.ErrNotFound) {
		if _, err := s.repo.InsertLine(ctx, principal, productID, quantity); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("find line: %w", err)
	}

	combined := line.Quantity + quantity
	if product.StockQuantity < combined {
		return false, ErrQuantityExceedsStock
	}
	if err := s.repo.UpdateLineQuantity(ctx, line.ID, combined); err != nil {
		if errors.Is(err, store.ErrInsufficientStock) {
			return false, ErrQuantityExceedsStock
		}
		return false, err
	}
	return false, nil
}

// SetQuantity overwrites a line's quantity. Zero removes the line, so
// removal via update is idempotent. Returns true when the line was
// removed.
func (s *CartService) SetQuantity(ctx context.Context, principal types.Principal, cartID, quantity int) (bool, error) {
	if quantity < 0 {
		quantity = 0
	}

	line, err := s.repo.GetLine(ctx, principal, cartID)
	if err != nil {
		return false, err
	}

	if quantity == 0 {
		if err := s.repo.DeleteLine(ctx, principal, line.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return false, err
		}
		return true, nil
	}

	if err := s.repo.UpdateLineQuantity(ctx, line.ID, quantity); err != nil {
		return false, err
	}
	return false, nil
}

// Remove deletes a line owned by the principal.
func (s *CartService) Remove(ctx context.Context, principal types.Principal, cartID int) error {
	return s.repo.DeleteLine(ctx, principal, cartID)
}

// List returns the principal's cart annotated with display prices and
// line totals, plus the aggregate summary. Lines whose product has
// become inactive are hidden, not deleted.
func (s *CartService) List(ctx context.Context, principal types.Principal) ([]types.CartLine, types.CartSummary, error) {
	lines, err := s.repo.ListLines(ctx, principal)
	if err != nil {
		return nil, types.CartSummary{}, fmt.Errorf("list lines: %w", err)
	}

	var summary types.CartSummary
	for i := range lines {
		displayPrice := types.EffectivePrice(lines[i].Price, lines[i].SalePrice)
		lines[i].DisplayPrice = displayPrice
		lines[i].TotalPrice = displayPrice * float64(lines[i].Quantity)
		summary.Subtotal += lines[i].TotalPrice
		summary.ItemCount += lines[i].Quantity
	}
	summary.FormattedSubtotal = types.FormatPrice(summary.Subtotal)

	return lines, summary, nil
}
