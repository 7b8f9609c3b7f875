//go:build integration

package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/ordenes-ecom/internal/customer"
	"github.com/MikeMC777/ordenes-ecom/internal/db"
	"github.com/MikeMC777/ordenes-ecom/internal/db/dbtest"
	"github.com/MikeMC777/ordenes-ecom/internal/logging"
	"github.com/MikeMC777/ordenes-ecom/internal/order"
	"github.com/MikeMC777/ordenes-ecom/internal/product"
)

func TestRun_AgainstPostgres(t *testing.T) {
	ctx := context.Background()
	pool := dbtest.Start(t)
	log := logging.Discard()

	customers := customer.NewService(customer.NewPGRepo(pool), log)
	products := product.NewService(product.NewPGRepo(pool), log)
	orders := order.NewService(order.NewPGRepo(pool), order.Ext{
		Customers: customers,
		Products:  products,
		Billing:   SkipBilling{Log: log},
	}, log)
	s := New(customers, products, orders, log)

	sum, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Customers: 5, Products: 5, Orders: 5}, sum)

	// Placed orders reserve stock; the cancelled one gives it back.
	stock := map[string]int{}
	list, err := products.List(ctx, product.Query{Limit: 100})
	require.NoError(t, err)
	for _, p := range list {
		stock[p.SKU] = p.Inventory
	}
	assert.Equal(t, map[string]int{
		"PHONE-X-001":    49,
		"LAPTOP-PRO-001": 24,
		"AUDIO-HP-001":   99,
		"WATCH-SW-001":   74,
		"AUDIO-BS-001":   119,
	}, stock)

	placed, err := orders.List(ctx, order.Filter{Limit: 100})
	require.NoError(t, err)
	byStatus := map[order.Status]int{}
	for _, o := range placed {
		byStatus[o.Status]++
		if o.Status == order.StatusCancelled {
			assert.Equal(t, order.PaymentRefunded, o.PaymentStatus)
		}
		if o.Status == order.StatusDelivered {
			assert.Equal(t, "TRK123456789", o.TrackingNumber)
			assert.Equal(t, order.PaymentPaid, o.PaymentStatus)
		}
	}
	assert.Equal(t, map[order.Status]int{
		order.StatusDelivered: 1, order.StatusProcessing: 1, order.StatusPending: 1,
		order.StatusShipped: 1, order.StatusCancelled: 1,
	}, byStatus)

	again, err := s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, again)

	require.NoError(t, db.Reset(ctx, pool))
	left, err := customers.List(ctx, customer.Filter{Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, left)

	sum, err = s.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Customers: 5, Products: 5, Orders: 5}, sum)
}
