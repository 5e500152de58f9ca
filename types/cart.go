package types

import (
	"strconv"
	"strings"
	"time"
)

// Principal is the acting identity of a request: either an authenticated
// user (UserID > 0) or an anonymous session. Exactly one side is set.
// The cart treats it as an opaque partition key.
type Principal struct {
	UserID    int
	SessionID string
}

// Authenticated reports whether the principal is a logged-in user.
func (p Principal) Authenticated() bool {
	return p.UserID > 0
}

// CartLine is one row of a principal's cart: a chosen quantity of one
// product, joined with live product data when listed. At most one line
// exists per (principal, product) pair.
type CartLine struct {
	// ID is the unique identifier of the cart line.
	ID int `json:"cart_id" db:"cart_id"`

	// ProductID references the product in this line.
	ProductID int `json:"product_id" db:"product_id"`

	// Quantity is the number of units of the product.
	Quantity int `json:"quantity" db:"quantity"`

	// Name, Price, SalePrice, StockQuantity, SKU and ProductImage carry
	// the product's live data at listing time.
	Name          string   `json:"name" db:"name"`
	Price         float64  `json:"price" db:"price"`
	SalePrice     *float64 `json:"sale_price" db:"sale_price"`
	StockQuantity int      `json:"stock_quantity" db:"stock_quantity"`
	SKU           string   `json:"sku" db:"sku"`
	ProductImage  *string  `json:"product_image" db:"product_image"`

	// DisplayPrice is the effective unit price (sale price when positive,
	// list price otherwise).
	DisplayPrice float64 `json:"display_price"`

	// TotalPrice is DisplayPrice multiplied by Quantity.
	TotalPrice float64 `json:"total_price"`

	// AddedAt is the timestamp the line was first created.
	AddedAt time.Time `json:"added_at" db:"added_at"`
}

// CartSummary aggregates a listed cart.
type CartSummary struct {
	ItemCount         int     `json:"item_count"`
	Subtotal          float64 `json:"subtotal"`
	FormattedSubtotal string  `json:"formatted_subtotal"`
}

// FormatPrice renders an amount as a dollar string with two decimals
// and thousands separators, e.g. 1234.5 -> "$1,234.50".
func FormatPrice(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 2, 64)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	return sign + "$" + b.String() + "." + frac
}
