package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopsmart/apiserver/types"
)

// displayPriceExpr is the effective customer price: the sale price when
// present and positive, otherwise the list price. The same expression
// is used for projection and for price sorting so what is shown and
// what is sorted on never diverge.
const displayPriceExpr = `CASE WHEN p.sale_price IS NOT NULL AND p.sale_price > 0 THEN p.sale_price ELSE p.price END`

const productColumns = `
	p.product_id, p.name, p.description, p.short_description,
	p.price, p.sale_price, ` + displayPriceExpr + ` AS display_price,
	p.stock_quantity, p.rating, p.review_count, p.brand, p.sku,
	p.is_featured, p.is_bestseller, p.is_new_arrival,
	c.category_id, c.name AS category_name,
	pi.image_url AS primary_image,
	p.created_at`

const productJoins = `
	FROM products p
	LEFT JOIN categories c ON p.category_id = c.category_id
	LEFT JOIN product_images pi ON p.product_id = pi.product_id AND pi.is_primary = TRUE`

// ProductRepository handles read access to the catalog.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// buildProductFilters assembles the WHERE conjunction for whichever
// filters are present. All values are positionally bound.
func buildProductFilters(params types.ListParams) (string, []any) {
	conds := []string{"p.is_active = TRUE"}
	var args []any

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		conds = append(conds, fmt.Sprintf(
			"(p.name ILIKE $%d OR p.description ILIKE $%d OR p.brand ILIKE $%d)",
			len(args)+1, len(args)+2, len(args)+3))
		args = append(args, pattern, pattern, pattern)
	}
	if params.Category != "" {
		conds = append(conds, fmt.Sprintf("c.name = $%d", len(args)+1))
		args = append(args, params.Category)
	}
	if params.Featured != nil {
		conds = append(conds, fmt.Sprintf("p.is_featured = $%d", len(args)+1))
		args = append(args, *params.Featured)
	}
	if params.Bestseller != nil {
		conds = append(conds, fmt.Sprintf("p.is_bestseller = $%d", len(args)+1))
		args = append(args, *params.Bestseller)
	}
	if params.NewArrival != nil {
		conds = append(conds, fmt.Sprintf("p.is_new_arrival = $%d", len(args)+1))
		args = append(args, *params.NewArrival)
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// orderClause maps a normalized sort key to exactly one ORDER BY.
func orderClause(sort string) string {
	switch sort {
	case types.SortPriceLowHigh:
		return "ORDER BY display_price ASC"
	case types.SortPriceHighLow:
		return "ORDER BY display_price DESC"
	case types.SortRating:
		return "ORDER BY p.rating DESC, p.review_count DESC"
	case types.SortNewest:
		return "ORDER BY p.created_at DESC"
	case types.SortName:
		return "ORDER BY p.name ASC"
	default:
		return "ORDER BY p.is_featured DESC, p.is_bestseller DESC, p.rating DESC"
	}
}

// List returns one page of the filtered catalog and the total size of
// the filtered set, so pagination metadata is consistent with the
// filters rather than the whole catalog.
func (r *ProductRepository) List(ctx context.Context, params types.ListParams) ([]types.Product, int, error) {
	params = params.Normalize()
	where, args := buildProductFilters(params)

	countQuery := `
		SELECT COUNT(1)
		FROM products p
		LEFT JOIN categories c ON p.category_id = c.category_id
		` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := fmt.Sprintf(`
		SELECT %s %s
		%s
		%s
		OFFSET $%d LIMIT $%d`,
		productColumns, productJoins, where, orderClause(params.Sort),
		len(args)+1, len(args)+2)
	args = append(args, params.Offset(), params.Limit)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]types.Product, 0, params.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Get returns one active product with its category and primary image.
func (r *ProductRepository) Get(ctx context.Context, id int) (types.Product, error) {
	query := `
		SELECT ` + productColumns + productJoins + `
		WHERE p.product_id = $1 AND p.is_active = TRUE`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return types.Product{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return types.Product{}, err
		}
		return types.Product{}, ErrNotFound
	}
	return scanProduct(rows)
}

// Images returns all images of a product, primary first.
func (r *ProductRepository) Images(ctx context.Context, productID int) ([]types.ProductImage, error) {
	const query = `
		SELECT image_id, product_id, image_url, alt_text, is_primary, sort_order
		FROM product_images
		WHERE product_id = $1
		ORDER BY is_primary DESC, sort_order, image_id`
	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []types.ProductImage
	for rows.Next() {
		var image types.ProductImage
		if err := rows.Scan(
			&image.ID,
			&image.ProductID,
			&image.ImageURL,
			&image.AltText,
			&image.IsPrimary,
			&image.SortOrder,
		); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

// Categories returns the active categories in filter-control order.
func (r *ProductRepository) Categories(ctx context.Context) ([]types.Category, error) {
	const query = `
		SELECT category_id, name, description, sort_order
		FROM categories
		WHERE is_active = TRUE
		ORDER BY sort_order, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []types.Category
	for rows.Next() {
		var category types.Category
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.SortOrder,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func scanProduct(rows *sql.Rows) (types.Product, error) {
	var product types.Product
	err := rows.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.ShortDescription,
		&product.Price,
		&product.SalePrice,
		&product.DisplayPrice,
		&product.StockQuantity,
		&product.Rating,
		&product.ReviewCount,
		&product.Brand,
		&product.SKU,
		&product.IsFeatured,
		&product.IsBestseller,
		&product.IsNewArrival,
		&product.CategoryID,
		&product.CategoryName,
		&product.PrimaryImage,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Product{}, ErrNotFound
		}
		return types.Product{}, err
	}
	return product, nil
}
