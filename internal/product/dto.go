package product

import "github.com/shopspring/decimal"

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string           `json:"name"        binding:"required,max=100" example:"Mechanical Keyboard"`
	Description string           `json:"description"                            example:"RGB 60%"`
	Price       decimal.Decimal  `json:"price"       swaggertype:"string"       example:"199.90"`
	Inventory   *int             `json:"inventory"   binding:"omitempty,min=0"  example:"10"`
	IsActive    *bool            `json:"isActive"                               example:"true"`
	SKU         string           `json:"sku"         binding:"omitempty,max=50" example:"KB-60-RGB"`
	Categories  []string         `json:"categories"`
	Attributes  map[string]any   `json:"attributes"`
	ImageURL    string           `json:"imageUrl"    binding:"omitempty,url"`
	Weight      *decimal.Decimal `json:"weight"      swaggertype:"string"       example:"0.85"`
	Dimensions  *Dimensions      `json:"dimensions"`
}

// UpdateProductRequest payload of partial update. Inventory is changed only
// through UpdateInventoryRequest.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        *string          `json:"name"        binding:"omitempty,max=100"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"       swaggertype:"string"`
	IsActive    *bool            `json:"isActive"`
	SKU         *string          `json:"sku"         binding:"omitempty,max=50"`
	Categories  []string         `json:"categories"`
	Attributes  map[string]any   `json:"attributes"`
	ImageURL    *string          `json:"imageUrl"    binding:"omitempty,url"`
	Weight      *decimal.Decimal `json:"weight"      swaggertype:"string"`
	Dimensions  *Dimensions      `json:"dimensions"`
}

// UpdateInventoryRequest sets the absolute inventory count.
// swagger:model UpdateInventoryRequest
type UpdateInventoryRequest struct {
	Quantity *int `json:"quantity" binding:"required,min=0" example:"100"`
}
