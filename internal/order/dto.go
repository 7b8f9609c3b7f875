package order

import (
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-ecom/internal/customer"
)

// CreateOrderItem payload of one line.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ProductID string           `json:"productId" binding:"required,uuid" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int              `json:"quantity"  binding:"required,min=1" example:"2"`
	Discount  *decimal.Decimal `json:"discount"  swaggertype:"string"     example:"0"`
	Notes     string           `json:"notes"`
}

// CreateOrderRequest payload of order creation.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	CustomerID      string            `json:"customerId"      binding:"required,uuid" example:"b2f5ff47-2b1e-4f22-8a96-5f3c1f2f2e7b"`
	Items           []CreateOrderItem `json:"items"           binding:"required,min=1,dive"`
	ShippingAddress *customer.Address `json:"shippingAddress" binding:"required"`
	BillingAddress  *customer.Address `json:"billingAddress"`
	Shipping        *decimal.Decimal  `json:"shipping"        swaggertype:"string" example:"10.00"`
	Discount        *decimal.Decimal  `json:"discount"        swaggertype:"string" example:"0"`
	Notes           string            `json:"notes"`
}

// UpdateStatusRequest payload of PATCH /orders/:id/status.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status         Status `json:"status"         binding:"required" example:"shipped"`
	TrackingNumber string `json:"trackingNumber"                    example:"1Z999AA10123456784"`
}

// UpdatePaymentStatusRequest payload of PATCH /orders/:id/payment-status.
// swagger:model UpdatePaymentStatusRequest
type UpdatePaymentStatusRequest struct {
	PaymentStatus PaymentStatus `json:"paymentStatus" binding:"required" example:"failed"`
}
