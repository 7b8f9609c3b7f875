package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIs_MatchesByKind(t *testing.T) {
	err := fmt.Errorf("load order: %w", NotFound("Order", "o-1"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "load order: Order with ID o-1 not found", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	cases := map[*Error]int{
		NotFound("Customer", 1):                      http.StatusNotFound,
		DuplicateEntry("Customer", "email", "a@b.c"): http.StatusConflict,
		InvalidTransition("nope"):                    http.StatusBadRequest,
		InsufficientInventory("p", "Mouse", 5, 6):    http.StatusBadRequest,
		Validation("bad"):                            http.StatusBadRequest,
		Upstream(errors.New("x"), "billing failed"):  http.StatusBadGateway,
		{Kind: KindTimeout, Code: CodeQueryTimeout}:  http.StatusRequestTimeout,
		{Kind: KindStore, Code: CodeQueryFailed}:     http.StatusInternalServerError,
	}
	for e, want := range cases {
		assert.Equal(t, want, e.HTTPStatus(), e.Code)
	}
}

func TestFromStore(t *testing.T) {
	tests := []struct {
		name string
		in   error
		code string
		kind Kind
	}{
		{"no rows", pgx.ErrNoRows, CodeEntityNotFound, KindNotFound},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), CodeQueryTimeout, KindTimeout},
		{"unique", &pgconn.PgError{Code: "23505", Detail: "Key (email)=(a@b.c) already exists."}, CodeDuplicateEntry, KindConflict},
		{"fk", &pgconn.PgError{Code: "23503"}, CodeForeignKey, KindValidation},
		{"not null", &pgconn.PgError{Code: "23502"}, CodeNotNull, KindValidation},
		{"numeric overflow", &pgconn.PgError{Code: "22003", Message: "numeric field overflow"}, CodeValidation, KindValidation},
		{"bad uuid text", &pgconn.PgError{Code: "22P02"}, CodeValidation, KindValidation},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, CodeQueryTimeout, KindTimeout},
		{"other pg", &pgconn.PgError{Code: "42P01"}, CodeQueryFailed, KindStore},
		{"plain", errors.New("conn reset"), CodeQueryFailed, KindStore},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := As(FromStore(tt.in))
			require.True(t, ok)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.kind, got.Kind)
			assert.ErrorIs(t, got, tt.in)
		})
	}
}

func TestFromStore_PassesThroughAppErrors(t *testing.T) {
	in := InvalidTransition("Cannot cancel order with status delivered")
	assert.Same(t, in, FromStore(in))
	assert.NoError(t, FromStore(nil))
}
