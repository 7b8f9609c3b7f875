package product

import (
	"context"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
	"github.com/MikeMC777/ordenes-ecom/internal/logging"
)

// memRepo implements Repository in memory.
type memRepo struct {
	items     map[string]*Product
	lastQuery Query
}

func newMemRepo() *memRepo { return &memRepo{items: map[string]*Product{}} }

func (m *memRepo) Create(_ context.Context, p *Product) error {
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("Product", id)
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, q Query) ([]Product, error) {
	m.lastQuery = q
	out := []Product{}
	for _, p := range m.items {
		if q.Category != "" && !slices.Contains(p.Categories, q.Category) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memRepo) Update(_ context.Context, p *Product) error {
	cur, ok := m.items[p.ID]
	if !ok {
		return apperr.NotFound("Product", p.ID)
	}
	cp := *p
	cp.Inventory = cur.Inventory
	m.items[p.ID] = &cp
	p.Inventory = cur.Inventory
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

func (m *memRepo) SetInventory(_ context.Context, id string, quantity int) (*Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("Product", id)
	}
	p.Inventory = quantity
	cp := *p
	return &cp, nil
}

func intp(n int) *int { return &n }

func TestCreate_Defaults(t *testing.T) {
	svc := NewService(newMemRepo(), logging.Discard())

	p, err := svc.Create(context.Background(), CreateProductRequest{
		Name:  "Mouse",
		Price: decimal.RequireFromString("25.499"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.True(t, p.IsActive)
	assert.Equal(t, 0, p.Inventory)
	assert.Equal(t, []string{}, p.Categories)
	assert.Equal(t, "25.50", p.Price.StringFixed(2))
}

func TestCreate_NegativePrice(t *testing.T) {
	svc := NewService(newMemRepo(), logging.Discard())
	_, err := svc.Create(context.Background(), CreateProductRequest{Name: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreate_ColumnBounds(t *testing.T) {
	w := func(v string) *decimal.Decimal { d := decimal.RequireFromString(v); return &d }
	tests := []struct {
		name   string
		price  string
		weight *decimal.Decimal
		ok     bool
	}{
		{"max weight", "10", w("99.99"), true},
		{"weight rounds up to 100", "10", w("99.996"), false},
		{"weight 100", "10", w("100"), false},
		{"negative weight", "10", w("-0.5"), false},
		{"max price", "99999999.99", nil, true},
		{"price too large", "100000000", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMemRepo(), logging.Discard())
			_, err := svc.Create(context.Background(), CreateProductRequest{
				Name: "Scale", Price: decimal.RequireFromString(tt.price), Weight: tt.weight,
			})
			if tt.ok {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestUpdate_RejectsOversizedWeight(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), logging.Discard())
	p, err := svc.Create(ctx, CreateProductRequest{Name: "Desk", Price: decimal.NewFromInt(300)})
	require.NoError(t, err)

	heavy := decimal.NewFromInt(150)
	_, err = svc.Update(ctx, p.ID, UpdateProductRequest{Weight: &heavy})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdate_NeverTouchesInventory(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, logging.Discard())
	p, err := svc.Create(ctx, CreateProductRequest{Name: "Mouse", Price: decimal.NewFromInt(25), Inventory: intp(7)})
	require.NoError(t, err)

	price := decimal.RequireFromString("30.00")
	got, err := svc.Update(ctx, p.ID, UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, got.Price.Equal(price))
	assert.Equal(t, 7, got.Inventory)
	assert.Equal(t, "Mouse", got.Name)
}

func TestAdjustInventory(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), logging.Discard())
	p, _ := svc.Create(ctx, CreateProductRequest{Name: "Mouse", Price: decimal.NewFromInt(25), Inventory: intp(3)})

	got, err := svc.AdjustInventory(ctx, p.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Inventory)

	_, err = svc.AdjustInventory(ctx, p.ID, -1)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.AdjustInventory(ctx, "missing", 5)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	svc := NewService(newMemRepo(), logging.Discard())
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), apperr.ErrNotFound)
}

func TestList_ByCategory(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, logging.Discard())
	_, _ = svc.Create(ctx, CreateProductRequest{Name: "Phone", Price: decimal.NewFromInt(900), Categories: []string{"Electronics"}})
	_, _ = svc.Create(ctx, CreateProductRequest{Name: "Shirt", Price: decimal.NewFromInt(20), Categories: []string{"Clothing"}})

	got, err := svc.List(ctx, Query{Category: "Electronics"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Phone", got[0].Name)
	assert.Equal(t, "Electronics", repo.lastQuery.Category)
}
