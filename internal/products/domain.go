package products

import "time"

// Product is a sellable item. VendorID references the owning user; Published
// controls storefront visibility independently of stock.
type Product struct {
	ID          int64     `json:"id"`
	VendorID    int64     `json:"vendor_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListFilter narrows product listings.
type ListFilter struct {
	VendorID      int64
	PublishedOnly bool
	Page          int
	PerPage       int
}
