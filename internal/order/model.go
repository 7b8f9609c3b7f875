package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-ecom/internal/customer"
	"github.com/MikeMC777/ordenes-ecom/internal/product"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusRefunded   Status = "refunded"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// Open reports whether the order can still be updated or cancelled.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusProcessing
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Order struct {
	ID         string             `json:"id"`
	CustomerID string             `json:"customerId"`
	Customer   *customer.Customer `json:"customer,omitempty"`
	Items      []Item             `json:"items"`

	Status        Status        `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	// NUMERIC(10,2) -> decimal
	Total    decimal.Decimal `json:"total"    swaggertype:"string" example:"236.00"`
	Tax      decimal.Decimal `json:"tax"      swaggertype:"string" example:"36.00"`
	Shipping decimal.Decimal `json:"shipping" swaggertype:"string" example:"0"`
	Discount decimal.Decimal `json:"discount" swaggertype:"string" example:"0"`

	TrackingNumber  string            `json:"trackingNumber,omitempty"`
	ShippingAddress *customer.Address `json:"shippingAddress,omitempty"`
	BillingAddress  *customer.Address `json:"billingAddress,omitempty"`
	Notes           string            `json:"notes,omitempty"`

	OrderDate     time.Time  `json:"orderDate"`
	ShippedDate   *time.Time `json:"shippedDate,omitempty"`
	DeliveredDate *time.Time `json:"deliveredDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type Item struct {
	ID        string           `json:"id"`
	OrderID   string           `json:"orderId"`
	ProductID string           `json:"productId"`
	Product   *product.Product `json:"product,omitempty"`
	Quantity  int              `json:"quantity"`
	// Unit price captured when the order was placed.
	Price    decimal.Decimal `json:"price"    swaggertype:"string" example:"100.00"`
	Discount decimal.Decimal `json:"discount" swaggertype:"string" example:"0"`
	Notes    string          `json:"notes,omitempty"`
}

// LineTotal is (price - discount) * quantity.
func (it Item) LineTotal() decimal.Decimal {
	return it.Price.Sub(it.Discount).Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Filter narrows List. Set fields combine with AND.
type Filter struct {
	Status     Status
	CustomerID string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// ListResponse represents the paginated response of orders.
// swagger:model
type ListResponse struct {
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Items  []Order `json:"items"`
}
