//go:build integration

package customer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
	"github.com/MikeMC777/ordenes-ecom/internal/db/dbtest"
)

func TestPGRepo_EmailIsUnique(t *testing.T) {
	repo := NewPGRepo(dbtest.Start(t))
	ctx := context.Background()
	mk := func(first string) *Customer {
		return &Customer{
			ID: uuid.NewString(), TypeDocument: TypeDNI, NumberDocument: "12345678",
			FirstName: first, LastName: "Quispe", Email: "dup@example.com", IsActive: true,
			Address: &Address{City: "Lima"},
		}
	}

	first := mk("Ana")
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, mk("Beatriz"))
	ae, ok := apperr.As(err)
	require.True(t, ok, "%v", err)
	assert.Equal(t, apperr.CodeDuplicateEntry, ae.Code)

	got, err := repo.GetByEmail(ctx, "dup@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "Lima", got.Address.City)
}

func TestPGRepo_ListByNameAndActive(t *testing.T) {
	repo := NewPGRepo(dbtest.Start(t))
	ctx := context.Background()
	for i, name := range []string{"Ana", "Anibal", "Carlos"} {
		require.NoError(t, repo.Create(ctx, &Customer{
			ID: uuid.NewString(), TypeDocument: TypeDNI, NumberDocument: "1",
			FirstName: name, LastName: "Perez", Email: uuid.NewString() + "@example.com", IsActive: i != 1,
		}))
	}
	active := true

	got, err := repo.List(ctx, Filter{Active: &active, Name: "an"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].FirstName)

	ok, err := repo.Delete(ctx, got[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = repo.GetByID(ctx, got[0].ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
