package order

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
	"github.com/MikeMC777/ordenes-ecom/internal/customer"
	"github.com/MikeMC777/ordenes-ecom/internal/logging"
	"github.com/MikeMC777/ordenes-ecom/internal/product"
)

//
// ---------- FAKES ----------
//

// catalog is an in-memory customer and product store shared with memRepo so
// reservations and restocks are visible through lookups.
type catalog struct {
	customers map[string]*customer.Customer
	products  map[string]*product.Product
}

func newCatalog() *catalog {
	return &catalog{customers: map[string]*customer.Customer{}, products: map[string]*product.Product{}}
}

func (c *catalog) addCustomer() *customer.Customer {
	cu := &customer.Customer{ID: uuid.NewString(), TypeDocument: customer.TypeDNI, FirstName: "John", LastName: "Doe", Email: "john@example.com"}
	c.customers[cu.ID] = cu
	return cu
}

func (c *catalog) addProduct(price string, inventory int) *product.Product {
	p := &product.Product{ID: uuid.NewString(), Name: "Prod-" + price, Price: d(price), Inventory: inventory}
	c.products[p.ID] = p
	return p
}

type customerLookup struct{ *catalog }

func (c customerLookup) GetByID(_ context.Context, id string) (*customer.Customer, error) {
	cu, ok := c.customers[id]
	if !ok {
		return nil, apperr.NotFound("Customer", id)
	}
	cp := *cu
	return &cp, nil
}

type productLookup struct{ *catalog }

func (c productLookup) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, apperr.NotFound("Product", id)
	}
	cp := *p
	return &cp, nil
}

// memRepo implements Repository in memory with the same conditional
// semantics as PGRepo.
type memRepo struct {
	cat    *catalog
	orders map[string]*Order
}

func (m *memRepo) Create(_ context.Context, o *Order) error {
	need := map[string]int{}
	for _, it := range o.Items {
		need[it.ProductID] += it.Quantity
	}
	for id, q := range need {
		p, ok := m.cat.products[id]
		if !ok {
			return apperr.NotFound("Product", id)
		}
		if p.Inventory < q {
			return apperr.InsufficientInventory(id, p.Name, p.Inventory, q)
		}
	}
	for id, q := range need {
		m.cat.products[id].Inventory -= q
	}
	cp := *o
	cp.Customer = nil
	cp.Items = make([]Item, len(o.Items))
	for i, it := range o.Items {
		it.Product = nil
		cp.Items[i] = it
	}
	m.orders[o.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order", id)
	}
	cp := *o
	cp.Items = append([]Item(nil), o.Items...)
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, f Filter) ([]Order, error) {
	out := []Order{}
	for _, o := range m.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.CustomerID != "" && o.CustomerID != f.CustomerID {
			continue
		}
		cp := *o
		cp.Items = append([]Item(nil), o.Items...)
		out = append(out, cp)
	}
	return out, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, from, to Status, tracking string) (bool, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	if tracking != "" {
		o.TrackingNumber = tracking
	}
	return true, nil
}

func (m *memRepo) UpdatePaymentStatus(_ context.Context, id string, ps PaymentStatus) (bool, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != StatusPending {
		return false, nil
	}
	o.PaymentStatus = ps
	return true, nil
}

func (m *memRepo) ConfirmPayment(_ context.Context, id string) (bool, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != StatusPending {
		return false, nil
	}
	o.PaymentStatus, o.Status = PaymentPaid, StatusProcessing
	return true, nil
}

func (m *memRepo) Cancel(_ context.Context, id string) error {
	o, ok := m.orders[id]
	if !ok {
		return apperr.NotFound("Order", id)
	}
	if !o.Status.Open() {
		return apperr.InvalidTransition("Cannot cancel order with status %s", o.Status)
	}
	for _, it := range o.Items {
		m.cat.products[it.ProductID].Inventory += it.Quantity
	}
	o.Status = StatusCancelled
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) (bool, error) {
	o, ok := m.orders[id]
	if !ok || o.Status != StatusCancelled {
		return false, nil
	}
	delete(m.orders, id)
	return true, nil
}

type recordingBilling struct {
	mu   sync.Mutex
	sent []Order
}

func (r *recordingBilling) Dispatch(o Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, o)
}

type fixture struct {
	cat     *catalog
	repo    *memRepo
	billing *recordingBilling
	svc     *Service
}

func newFixture() *fixture {
	cat := newCatalog()
	repo := &memRepo{cat: cat, orders: map[string]*Order{}}
	billing := &recordingBilling{}
	svc := NewService(repo, Ext{
		Customers: customerLookup{cat},
		Products:  productLookup{cat},
		Billing:   billing,
	}, logging.Discard())
	return &fixture{cat: cat, repo: repo, billing: billing, svc: svc}
}

func addr() *customer.Address {
	return &customer.Address{Street: "Av. Arequipa 123", City: "Lima", State: "Lima", PostalCode: "15001", Country: "PE"}
}

func (f *fixture) place(t *testing.T, items ...CreateOrderItem) *Order {
	t.Helper()
	cu := f.cat.addCustomer()
	o, err := f.svc.Create(context.Background(), CreateOrderRequest{
		CustomerID:      cu.ID,
		Items:           items,
		ShippingAddress: addr(),
	})
	require.NoError(t, err)
	return o
}

//
// ---------- TESTS ----------
//

func TestCreate_TaxOncePerItemAndInventoryDecrement(t *testing.T) {
	f := newFixture()
	p := f.cat.addProduct("100.00", 10)

	o := f.place(t, CreateOrderItem{ProductID: p.ID, Quantity: 2})

	assert.Equal(t, "18.00", o.Tax.StringFixed(2))
	assert.Equal(t, "218.00", o.Total.StringFixed(2))
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentPending, o.PaymentStatus)
	assert.Equal(t, 8, f.cat.products[p.ID].Inventory)
	assert.Equal(t, o.ShippingAddress, o.BillingAddress)
	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].Price.Equal(d("100")))
}

func TestCreate_TotalInvariant(t *testing.T) {
	f := newFixture()
	a := f.cat.addProduct("19.99", 10)
	b := f.cat.addProduct("5.50", 10)
	ship, disc, lineDisc := d("12.00"), d("3.00"), d("0.50")

	cu := f.cat.addCustomer()
	o, err := f.svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: cu.ID,
		Items: []CreateOrderItem{
			{ProductID: a.ID, Quantity: 3},
			{ProductID: b.ID, Quantity: 2, Discount: &lineDisc},
		},
		ShippingAddress: addr(),
		Shipping:        &ship,
		Discount:        &disc,
	})
	require.NoError(t, err)

	subtotal := decimal.Zero
	for _, it := range o.Items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	want := subtotal.Add(o.Tax).Add(o.Shipping).Sub(o.Discount)
	assert.True(t, want.Equal(o.Total), "total %s want %s", o.Total, want)
	// 19.99*3 + 5.00*2 = 69.97; tax 3.60 + 0.99; +12 -3
	assert.Equal(t, "83.56", o.Total.StringFixed(2))
}

func TestCreate_InsufficientInventoryLeavesStockUntouched(t *testing.T) {
	f := newFixture()
	p := f.cat.addProduct("100.00", 5)
	cu := f.cat.addCustomer()

	_, err := f.svc.Create(context.Background(), CreateOrderRequest{
		CustomerID:      cu.ID,
		Items:           []CreateOrderItem{{ProductID: p.ID, Quantity: 6}},
		ShippingAddress: addr(),
	})
	require.ErrorIs(t, err, apperr.ErrInsufficientInventory)
	ae, _ := apperr.As(err)
	assert.Equal(t, "Insufficient inventory for product Prod-100.00", ae.Message)
	assert.Equal(t, 5, f.cat.products[p.ID].Inventory)
	assert.Empty(t, f.repo.orders)
}

func TestCreate_FailingLaterItemRollsBackEarlierReservations(t *testing.T) {
	f := newFixture()
	a := f.cat.addProduct("10.00", 5)
	b := f.cat.addProduct("20.00", 1)
	cu := f.cat.addCustomer()

	_, err := f.svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: cu.ID,
		Items: []CreateOrderItem{
			{ProductID: a.ID, Quantity: 2},
			{ProductID: b.ID, Quantity: 1},
			{ProductID: b.ID, Quantity: 1},
		},
		ShippingAddress: addr(),
	})
	require.ErrorIs(t, err, apperr.ErrInsufficientInventory)
	assert.Equal(t, 5, f.cat.products[a.ID].Inventory)
	assert.Equal(t, 1, f.cat.products[b.ID].Inventory)
}

func TestCreate_UnknownCustomerOrProduct(t *testing.T) {
	f := newFixture()
	p := f.cat.addProduct("10.00", 5)

	_, err := f.svc.Create(context.Background(), CreateOrderRequest{
		CustomerID:      uuid.NewString(),
		Items:           []CreateOrderItem{{ProductID: p.ID, Quantity: 1}},
		ShippingAddress: addr(),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	cu := f.cat.addCustomer()
	_, err = f.svc.Create(context.Background(), CreateOrderRequest{
		CustomerID:      cu.ID,
		Items:           []CreateOrderItem{{ProductID: uuid.NewString(), Quantity: 1}},
		ShippingAddress: addr(),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestConfirmPayment_OnceThenRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.cat.addProduct("100.00", 10)
	o := f.place(t, CreateOrderItem{ProductID: p.ID, Quantity: 1})

	paid, err := f.svc.ConfirmPayment(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, paid.Status)
	assert.Equal(t, PaymentPaid, paid.PaymentStatus)

	require.Len(t, f.billing.sent, 1)
	sent := f.billing.sent[0]
	require.NotNil(t, sent.Customer)
	require.NotNil(t, sent.Items[0].Product)
	assert.Equal(t, p.ID, sent.Items[0].Product.ID)

	_, err = f.svc.ConfirmPayment(ctx, o.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	ae, _ := apperr.As(err)
	assert.Equal(t, "Cannot confirm payment for order with status processing", ae.Message)
	assert.Len(t, f.billing.sent, 1)
}

func TestConfirmPayment_NotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ConfirmPayment(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, f.billing.sent)
}

func TestCancel_RestoresInventory(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.cat.addProduct("10.00", 10)
	b := f.cat.addProduct("20.00", 4)
	o := f.place(t, CreateOrderItem{ProductID: a.ID, Quantity: 3}, CreateOrderItem{ProductID: b.ID, Quantity: 4})
	require.Equal(t, 7, f.cat.products[a.ID].Inventory)
	require.Equal(t, 0, f.cat.products[b.ID].Inventory)

	// stock adjusted after ordering: restock adds to the current value
	f.cat.products[a.ID].Inventory = 100

	got, err := f.svc.Cancel(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.Equal(t, 103, f.cat.products[a.ID].Inventory)
	assert.Equal(t, 4, f.cat.products[b.ID].Inventory)
}

func TestCancel_DeliveredRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.cat.addProduct("10.00", 10)
	o := f.place(t, CreateOrderItem{ProductID: p.ID, Quantity: 2})
	f.repo.orders[o.ID].Status = StatusDelivered

	_, err := f.svc.Cancel(ctx, o.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, 8, f.cat.products[p.ID].Inventory)
}

func TestDelete_OnlyCancelled(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.cat.addProduct("10.00", 10)
	o := f.place(t, CreateOrderItem{ProductID: p.ID, Quantity: 1})

	err := f.svc.Delete(ctx, o.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = f.svc.Cancel(ctx, o.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, o.ID))

	_, err = f.svc.GetByID(ctx, o.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.cat.addProduct("10.00", 10)
	o := f.place(t, CreateOrderItem{ProductID: p.ID, Quantity: 1})

	_, err := f.svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "lost"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: StatusCancelled})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	got, err := f.svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: StatusProcessing})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, got.Status)

	_, err = f.svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: StatusPending})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	got, err = f.svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: StatusShipped, TrackingNumber: "TRK-1"})
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, got.Status)
	assert.Equal(t, "TRK-1", got.TrackingNumber)

	// shipped is past the source gate
	_, err = f.svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: StatusDelivered})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestUpdatePaymentStatus_OnlyPending(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.cat.addProduct("10.00", 10)
	o := f.place(t, CreateOrderItem{ProductID: p.ID, Quantity: 1})

	got, err := f.svc.UpdatePaymentStatus(ctx, o.ID, PaymentFailed)
	require.NoError(t, err)
	assert.Equal(t, PaymentFailed, got.PaymentStatus)

	_, err = f.svc.UpdatePaymentStatus(ctx, o.ID, "bogus")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	f.repo.orders[o.ID].Status = StatusProcessing
	_, err = f.svc.UpdatePaymentStatus(ctx, o.ID, PaymentPaid)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestList_CustomerMustExist(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.cat.addProduct("10.00", 10)
	o := f.place(t, CreateOrderItem{ProductID: p.ID, Quantity: 1})

	_, err := f.svc.List(ctx, Filter{CustomerID: uuid.NewString()})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	got, err := f.svc.List(ctx, Filter{CustomerID: o.CustomerID, Status: StatusPending})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].Customer)

	_, err = f.svc.List(ctx, Filter{Status: "nope"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.List(ctx, Filter{CustomerID: "abc"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
