package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopsmart/apiserver/types"
)

// CartRepository handles persistence for cart lines. Writes that depend
// on stock are single conditional statements: the stock ceiling is part
// of the UPDATE/INSERT itself, so a concurrent writer cannot slip in
// between a check and the write.
type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ProductStock is the slice of product state cart writes depend on.
type ProductStock struct {
	ProductID     int
	Name          string
	StockQuantity int
}

// LineRef locates an existing cart line and its quantity.
type LineRef struct {
	ID        int
	ProductID int
	Quantity  int
}

// ownerCond renders the principal's partition predicate. A cart line is
// owned by a user id or an anonymous session id, never both.
func ownerCond(principal types.Principal, argIndex int) (string, any) {
	if principal.Authenticated() {
		return fmt.Sprintf("sc.user_id = $%d", argIndex), principal.UserID
	}
	return fmt.Sprintf("sc.session_id = $%d", argIndex), principal.SessionID
}

// GetProductForSale returns the product's stock state, or ErrNotFound
// when the product is missing or inactive.
func (r *CartRepository) GetProductForSale(ctx context.Context, productID int) (ProductStock, error) {
	const query = `
		SELECT product_id, name, stock_quantity
		FROM products
		WHERE product_id = $1 AND is_active = TRUE`
	var product ProductStock
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&product.ProductID,
		&product.Name,
		&product.StockQuantity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProductStock{}, ErrNotFound
		}
		return ProductStock{}, err
	}
	return product, nil
}

// FindLine returns the principal's line for a product, if any.
func (r *CartRepository) FindLine(ctx context.Context, principal types.Principal, productID int) (LineRef, error) {
	cond, owner := ownerCond(principal, 2)
	query := `
		SELECT sc.cart_id, sc.product_id, sc.quantity
		FROM shopping_cart sc
		WHERE sc.product_id = $1 AND ` + cond
	var line LineRef
	err := r.db.QueryRowContext(ctx, query, productID, owner).Scan(
		&line.ID,
		&line.ProductID,
		&line.Quantity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LineRef{}, ErrNotFound
		}
		return LineRef{}, err
	}
	return line, nil
}

// GetLine returns a line by id, scoped to the owning principal. Lines
// belonging to anyone else are indistinguishable from absent lines.
func (r *CartRepository) GetLine(ctx context.Context, principal types.Principal, cartID int) (LineRef, error) {
	cond, owner := ownerCond(principal, 2)
	query := `
		SELECT sc.cart_id, sc.product_id, sc.quantity
		FROM shopping_cart sc
		WHERE sc.cart_id = $1 AND ` + cond
	var line LineRef
	err := r.db.QueryRowContext(ctx, query, cartID, owner).Scan(
		&line.ID,
		&line.ProductID,
		&line.Quantity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LineRef{}, ErrNotFound
		}
		return LineRef{}, err
	}
	return line, nil
}

// InsertLine creates a new line, guarded by the stock ceiling in the
// same statement. Returns ErrInsufficientStock when the product's
// current stock cannot cover the quantity.
func (r *CartRepository) InsertLine(ctx context.Context, principal types.Principal, productID, quantity int) (int, error) {
	var userID any
	var sessionID any
	if principal.Authenticated() {
		userID = principal.UserID
	} else {
		sessionID = principal.SessionID
	}

	const query = `
		INSERT INTO shopping_cart (user_id, session_id, product_id, quantity)
		SELECT $1, $2, p.product_id, $4
		FROM products p
		WHERE p.product_id = $3 AND p.is_active = TRUE AND p.stock_quantity >= $4
		RETURNING cart_id`
	var cartID int
	err := r.db.QueryRowContext(ctx, query, userID, sessionID, productID, quantity).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInsufficientStock
		}
		return 0, err
	}
	return cartID, nil
}

// UpdateLineQuantity overwrites a line's quantity, guarded by the stock
// ceiling in the same statement. The caller has already resolved the
// line through GetLine/FindLine, so zero rows means the stock moved.
func (r *CartRepository) UpdateLineQuantity(ctx context.Context, cartID, quantity int) error {
	const query = `
		UPDATE shopping_cart sc
		SET quantity = $2, updated_at = NOW()
		FROM products p
		WHERE sc.cart_id = $1 AND sc.product_id = p.product_id AND p.stock_quantity >= $2`
	result, err := r.db.ExecContext(ctx, query, cartID, quantity)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// DeleteLine removes a line owned by the principal.
func (r *CartRepository) DeleteLine(ctx context.Context, principal types.Principal, cartID int) error {
	cond, owner := ownerCond(principal, 2)
	query := `DELETE FROM shopping_cart sc WHERE sc.cart_id = $1 AND ` + cond
	result, err := r.db.ExecContext(ctx, query, cartID, owner)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLines returns the principal's lines joined with live product
// data, newest first. Lines whose product has become inactive are
// filtered out but not deleted.
func (r *CartRepository) ListLines(ctx context.Context, principal types.Principal) ([]types.CartLine, error) {
	cond, owner := ownerCond(principal, 1)
	query := `
		SELECT
			sc.cart_id, sc.product_id, sc.quantity, sc.added_at,
			p.name, p.price, p.sale_price, p.stock_quantity, p.sku,
			pi.image_url AS product_image
		FROM shopping_cart sc
		JOIN products p ON sc.product_id = p.product_id
		LEFT JOIN product_images pi ON p.product_id = pi.product_id AND pi.is_primary = TRUE
		WHERE ` + cond + ` AND p.is_active = TRUE
		ORDER BY sc.added_at DESC`
	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []types.CartLine
	for rows.Next() {
		var line types.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.ProductID,
			&line.Quantity,
			&line.AddedAt,
			&line.Name,
			&line.Price,
			&line.SalePrice,
			&line.StockQuantity,
			&line.SKU,
			&line.ProductImage,
		); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
