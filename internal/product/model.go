package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Dimensions struct {
	Length float64 `json:"length" example:"14.75"`
	Width  float64 `json:"width"  example:"7.15"`
	Height float64 `json:"height" example:"0.79"`
	Unit   string  `json:"unit"   example:"cm"`
}

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// NUMERIC(10,2) in Postgres; scanned through text to keep every cent.
	Price      decimal.Decimal `json:"price"      swaggertype:"string" example:"199.90"`
	Inventory  int             `json:"inventory"`
	IsActive   bool            `json:"isActive"`
	SKU        string          `json:"sku,omitempty"`
	Categories []string        `json:"categories"`
	Attributes map[string]any  `json:"attributes,omitempty"`
	ImageURL   string          `json:"imageUrl,omitempty"`
	Weight     decimal.Decimal `json:"weight"     swaggertype:"string" example:"0.21"`
	Dimensions *Dimensions     `json:"dimensions,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type Query struct {
	// Category keeps products listing it among their categories.
	Category string
	// Q searches name and description.
	Q      string
	Limit  int
	Offset int
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	// category filter applied
	Category string `json:"category,omitempty"`
	// search query applied
	Q string `json:"q,omitempty"`
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset int `json:"offset"`
	// items found
	Items []Product `json:"items"`
}
