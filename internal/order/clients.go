package order

import (
	"context"

	"github.com/MikeMC777/ordenes-ecom/internal/customer"
	"github.com/MikeMC777/ordenes-ecom/internal/product"
)

// CustomerLookup is satisfied by *customer.Service.
type CustomerLookup interface {
	GetByID(ctx context.Context, id string) (*customer.Customer, error)
}

// ProductLookup is satisfied by *product.Service.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

// BillingDispatcher receives fully hydrated orders after payment is
// confirmed. Dispatch must not block on the billing provider.
type BillingDispatcher interface {
	Dispatch(o Order)
}

// Ext groups the collaborators the workflow reads from but does not own.
type Ext struct {
	Customers CustomerLookup
	Products  ProductLookup
	Billing   BillingDispatcher
}

// hydrator resolves customers and products for a batch of orders, fetching
// each id once.
type hydrator struct {
	ext       Ext
	customers map[string]*customer.Customer
	products  map[string]*product.Product
}

func newHydrator(ext Ext) *hydrator {
	return &hydrator{
		ext:       ext,
		customers: map[string]*customer.Customer{},
		products:  map[string]*product.Product{},
	}
}

func (h *hydrator) fill(ctx context.Context, o *Order) error {
	c, ok := h.customers[o.CustomerID]
	if !ok {
		var err error
		if c, err = h.ext.Customers.GetByID(ctx, o.CustomerID); err != nil {
			return err
		}
		h.customers[o.CustomerID] = c
	}
	o.Customer = c

	for i := range o.Items {
		it := &o.Items[i]
		p, ok := h.products[it.ProductID]
		if !ok {
			var err error
			if p, err = h.ext.Products.GetByID(ctx, it.ProductID); err != nil {
				return err
			}
			h.products[it.ProductID] = p
		}
		it.Product = p
	}
	return nil
}
