package types

import "time"

// Product represents a catalog item. Products are read-only from this
// system's perspective; inventory and admin tooling mutate them out of band.
type Product struct {
	// ID is the unique identifier of the product.
	ID int `json:"product_id" db:"product_id"`

	// Name is the display name of the product.
	Name string `json:"name" db:"name"`

	// Description is the full product description.
	Description string `json:"description" db:"description"`

	// ShortDescription is a one-line summary used in listings.
	ShortDescription string `json:"short_description" db:"short_description"`

	// Price is the regular list price.
	Price float64 `json:"price" db:"price"`

	// SalePrice is the discounted price, or nil when the product is not
	// on sale. A sale price overrides the list price only when positive.
	SalePrice *float64 `json:"sale_price" db:"sale_price"`

	// DisplayPrice is the effective price shown to customers: the sale
	// price when present and positive, otherwise the list price.
	DisplayPrice float64 `json:"display_price" db:"display_price"`

	// StockQuantity is the number of units currently in stock.
	StockQuantity int `json:"stock_quantity" db:"stock_quantity"`

	// Rating is the aggregate review rating (0..5).
	Rating float64 `json:"rating" db:"rating"`

	// ReviewCount is the number of reviews behind Rating.
	ReviewCount int `json:"review_count" db:"review_count"`

	// Brand is the manufacturer or brand name.
	Brand string `json:"brand" db:"brand"`

	// SKU is the stock keeping unit code.
	SKU string `json:"sku" db:"sku"`

	// IsFeatured marks products promoted on the storefront.
	IsFeatured bool `json:"is_featured" db:"is_featured"`

	// IsBestseller marks high-volume products.
	IsBestseller bool `json:"is_bestseller" db:"is_bestseller"`

	// IsNewArrival marks recently added products.
	IsNewArrival bool `json:"is_new_arrival" db:"is_new_arrival"`

	// CategoryID references the product's category, if any.
	CategoryID *int `json:"category_id" db:"category_id"`

	// CategoryName is the name of the referenced category, joined in
	// for listing responses.
	CategoryName *string `json:"category_name" db:"category_name"`

	// PrimaryImage is the URL of the product's primary image, if any.
	PrimaryImage *string `json:"primary_image" db:"primary_image"`

	// CreatedAt is the timestamp at which the product was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Category is read-only reference data used to group products.
type Category struct {
	// ID is the unique identifier of the category.
	ID int `json:"category_id" db:"category_id"`

	// Name is the unique display name of the category.
	Name string `json:"name" db:"name"`

	// Description describes what the category contains.
	Description string `json:"description" db:"description"`

	// SortOrder controls category ordering in filter controls.
	SortOrder int `json:"-" db:"sort_order"`
}

// ProductImage is one image attached to a product. At most one image per
// product is marked primary; listings surface only the primary image.
type ProductImage struct {
	ID        int    `json:"image_id" db:"image_id"`
	ProductID int    `json:"product_id" db:"product_id"`
	ImageURL  string `json:"image_url" db:"image_url"`
	AltText   string `json:"alt_text" db:"alt_text"`
	IsPrimary bool   `json:"is_primary" db:"is_primary"`
	SortOrder int    `json:"-" db:"sort_order"`
}

// EffectivePrice returns the display price for a list price and an
// optional sale price: the sale price wins when present and positive.
func EffectivePrice(price float64, salePrice *float64) float64 {
	if salePrice != nil && *salePrice > 0 {
		return *salePrice
	}
	return price
}
