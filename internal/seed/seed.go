// Package seed loads demo customers, products and orders through the
// regular services, so stock is reserved and totals are computed exactly as
// they are for API traffic.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeMC777/ordenes-ecom/internal/customer"
	"github.com/MikeMC777/ordenes-ecom/internal/order"
	"github.com/MikeMC777/ordenes-ecom/internal/product"
)

type Customers interface {
	List(ctx context.Context, f customer.Filter) ([]customer.Customer, error)
	Create(ctx context.Context, in customer.CreateCustomerRequest) (*customer.Customer, error)
}

type Products interface {
	List(ctx context.Context, q product.Query) ([]product.Product, error)
	Create(ctx context.Context, in product.CreateProductRequest) (*product.Product, error)
}

// Orders is the slice of *order.Service the seeder drives.
type Orders interface {
	List(ctx context.Context, f order.Filter) ([]order.Order, error)
	Create(ctx context.Context, in order.CreateOrderRequest) (*order.Order, error)
	ConfirmPayment(ctx context.Context, id string) (*order.Order, error)
	UpdateStatus(ctx context.Context, id string, in order.UpdateStatusRequest) (*order.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, ps order.PaymentStatus) (*order.Order, error)
	Cancel(ctx context.Context, id string) (*order.Order, error)
}

// Summary counts what a run created. Skipped tables count zero.
type Summary struct {
	Customers int
	Products  int
	Orders    int
}

type Seeder struct {
	customers Customers
	products  Products
	orders    Orders
	log       *slog.Logger
}

func New(customers Customers, products Products, orders Orders, log *slog.Logger) *Seeder {
	return &Seeder{customers: customers, products: products, orders: orders, log: log}
}

// Run seeds customers, then products, then orders. Each table is seeded
// only while it is empty, so running twice is harmless.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	existing, err := s.customers.List(ctx, customer.Filter{Limit: 100})
	if err != nil {
		return sum, fmt.Errorf("list customers: %w", err)
	}
	byEmail := map[string]customer.Customer{}
	for _, c := range existing {
		byEmail[c.Email] = c
	}
	if len(existing) > 0 {
		s.log.Info("customers table is not empty, skipping")
	} else {
		for _, in := range demoCustomers {
			c, err := s.customers.Create(ctx, in)
			if err != nil {
				return sum, fmt.Errorf("create customer %s: %w", in.Email, err)
			}
			byEmail[c.Email] = *c
			sum.Customers++
		}
		s.log.Info("seeded customers", "count", sum.Customers)
	}

	products, err := s.products.List(ctx, product.Query{Limit: 100})
	if err != nil {
		return sum, fmt.Errorf("list products: %w", err)
	}
	bySKU := map[string]product.Product{}
	for _, p := range products {
		bySKU[p.SKU] = p
	}
	if len(products) > 0 {
		s.log.Info("products table is not empty, skipping")
	} else {
		for _, in := range demoProducts {
			p, err := s.products.Create(ctx, in)
			if err != nil {
				return sum, fmt.Errorf("create product %s: %w", in.SKU, err)
			}
			bySKU[p.SKU] = *p
			sum.Products++
		}
		s.log.Info("seeded products", "count", sum.Products)
	}

	placed, err := s.orders.List(ctx, order.Filter{Limit: 1})
	if err != nil {
		return sum, fmt.Errorf("list orders: %w", err)
	}
	if len(placed) > 0 {
		s.log.Info("orders table is not empty, skipping")
		return sum, nil
	}
	for _, d := range demoOrders {
		req, ok := s.request(d, byEmail, bySKU)
		if !ok {
			continue
		}
		o, err := s.orders.Create(ctx, req)
		if err != nil {
			return sum, fmt.Errorf("place order for %s: %w", d.email, err)
		}
		if err := s.advance(ctx, o.ID, d); err != nil {
			return sum, fmt.Errorf("advance order %s to %s: %w", o.ID, d.status, err)
		}
		sum.Orders++
	}
	s.log.Info("seeded orders", "count", sum.Orders)
	return sum, nil
}

// request resolves the demo order against what is in the database. Orders
// whose customer or products are missing are skipped.
func (s *Seeder) request(d demoOrder, byEmail map[string]customer.Customer, bySKU map[string]product.Product) (order.CreateOrderRequest, bool) {
	c, ok := byEmail[d.email]
	if !ok || c.Address == nil {
		s.log.Warn("seed customer missing, skipping order", "email", d.email)
		return order.CreateOrderRequest{}, false
	}
	req := order.CreateOrderRequest{
		CustomerID:      c.ID,
		ShippingAddress: c.Address,
		BillingAddress:  c.Address,
		Shipping:        dec(d.shipping),
		Notes:           d.notes,
	}
	for _, l := range d.lines {
		p, ok := bySKU[l.sku]
		if !ok {
			s.log.Warn("seed product missing, skipping order", "sku", l.sku, "email", d.email)
			return order.CreateOrderRequest{}, false
		}
		it := order.CreateOrderItem{ProductID: p.ID, Quantity: l.quantity, Notes: l.notes}
		if l.discount != "" {
			it.Discount = dec(l.discount)
		}
		req.Items = append(req.Items, it)
	}
	return req, true
}

// advance walks a freshly placed order through the same transitions the API
// exposes until it reaches d.status.
func (s *Seeder) advance(ctx context.Context, id string, d demoOrder) error {
	switch d.status {
	case order.StatusPending:
		return nil
	case order.StatusCancelled:
		if d.refunded {
			if _, err := s.orders.UpdatePaymentStatus(ctx, id, order.PaymentRefunded); err != nil {
				return err
			}
		}
		_, err := s.orders.Cancel(ctx, id)
		return err
	}

	if _, err := s.orders.ConfirmPayment(ctx, id); err != nil {
		return err
	}
	if d.status == order.StatusProcessing {
		return nil
	}
	// Only open orders accept a status change, so shipped and delivered are
	// both reached straight from processing.
	_, err := s.orders.UpdateStatus(ctx, id, order.UpdateStatusRequest{Status: d.status, TrackingNumber: d.tracking})
	return err
}

// SkipBilling stands in for the billing dispatcher while seeding: demo
// orders are never sent to Billme.
type SkipBilling struct {
	Log *slog.Logger
}

func (b SkipBilling) Dispatch(o order.Order) {
	b.Log.Info("billing skipped for seeded order", "order_id", o.ID, "total", o.Total.StringFixed(2))
}

var _ order.BillingDispatcher = SkipBilling{}
