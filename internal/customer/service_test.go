package customer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
	"github.com/MikeMC777/ordenes-ecom/internal/logging"
)

// memRepo implements Repository in memory.
type memRepo struct {
	byID    map[string]*Customer
	deleted []string
}

func newMemRepo() *memRepo { return &memRepo{byID: map[string]*Customer{}} }

func (m *memRepo) List(_ context.Context, f Filter) ([]Customer, error) {
	out := []Customer{}
	for _, c := range m.byID {
		if f.Active != nil && c.IsActive != *f.Active {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(c.FullName()), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Customer, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("Customer", id)
	}
	cp := *c
	return &cp, nil
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*Customer, error) {
	for _, c := range m.byID {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, apperr.NotFoundf("Customer with email %s not found", email)
}

func (m *memRepo) Create(_ context.Context, c *Customer) error {
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memRepo) Update(_ context.Context, c *Customer) error {
	if _, ok := m.byID[c.ID]; !ok {
		return apperr.NotFound("Customer", c.ID)
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.byID[id]; !ok {
		return false, nil
	}
	delete(m.byID, id)
	m.deleted = append(m.deleted, id)
	return true, nil
}

func newReq(email string) CreateCustomerRequest {
	return CreateCustomerRequest{
		TypeDocument:   TypeDNI,
		NumberDocument: "12345678",
		FirstName:      "John",
		LastName:       "Doe",
		Email:          email,
	}
}

func TestCreate_DefaultsActiveAndAssignsID(t *testing.T) {
	svc := NewService(newMemRepo(), logging.Discard())

	c, err := svc.Create(context.Background(), newReq("john@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.True(t, c.IsActive)
	assert.Equal(t, "John Doe", c.FullName())
}

func TestCreate_DuplicateEmailConflicts(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), logging.Discard())

	first, err := svc.Create(ctx, newReq("dup@example.com"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, newReq("dup@example.com"))
	require.ErrorIs(t, err, apperr.ErrConflict)
	ae, _ := apperr.As(err)
	assert.Equal(t, apperr.CodeDuplicateEntry, ae.Code)
	assert.Equal(t, "Customer with email 'dup@example.com' already exists", ae.Message)

	got, err := svc.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestCreate_BadDateOfBirth(t *testing.T) {
	svc := NewService(newMemRepo(), logging.Discard())
	req := newReq("a@example.com")
	req.DateOfBirth = "15/07/1985"

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdate_EmailOwnedByAnotherCustomer(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), logging.Discard())
	a, _ := svc.Create(ctx, newReq("a@example.com"))
	_, _ = svc.Create(ctx, newReq("b@example.com"))

	taken := "b@example.com"
	_, err := svc.Update(ctx, a.ID, UpdateCustomerRequest{Email: &taken})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	same := "a@example.com"
	name := "Jane"
	got, err := svc.Update(ctx, a.ID, UpdateCustomerRequest{Email: &same, FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, "Doe", got.LastName)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMemRepo(), logging.Discard())
	_, err := svc.Update(context.Background(), "missing", UpdateCustomerRequest{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := NewService(repo, logging.Discard())
	c, _ := svc.Create(ctx, newReq("a@example.com"))

	require.NoError(t, svc.Delete(ctx, c.ID))
	assert.Equal(t, []string{c.ID}, repo.deleted)
	assert.ErrorIs(t, svc.Delete(ctx, c.ID), apperr.ErrNotFound)
}

func TestList_FiltersCombine(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemRepo(), logging.Discard())
	inactive := false
	r1 := newReq("a@example.com")
	r2 := newReq("b@example.com")
	r2.FirstName = "Maria"
	r3 := newReq("c@example.com")
	r3.IsActive = &inactive
	for _, r := range []CreateCustomerRequest{r1, r2, r3} {
		_, err := svc.Create(ctx, r)
		require.NoError(t, err)
	}

	active := true
	got, err := svc.List(ctx, Filter{Active: &active, Name: "john"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a@example.com", got[0].Email)
}
