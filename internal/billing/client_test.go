package billing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

func TestClientSend_Accepted(t *testing.T) {
	var gotToken, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/EnviarBoletaFactura", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		gotToken = r.Header.Get("token")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"data":{"description":"La Factura F001-0001 ha sido aceptada","cdrBase64":"CDR","xmlBase64":"XML","xmlDocument":"<Invoice/>"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret")
	res, err := c.Send(context.Background(), []byte(`{"serie":"F001"}`))

	require.NoError(t, err)
	assert.Equal(t, Accepted, res.Outcome)
	assert.Equal(t, "La Factura F001-0001 ha sido aceptada", res.Data.Description)
	assert.Equal(t, "CDR", res.Data.CDRBase64)
	assert.Equal(t, "<Invoice/>", res.Data.XMLDocument)
	assert.Equal(t, "secret", gotToken)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, `{"serie":"F001"}`, gotBody)
}

func TestClientSend_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"data":{"faultCode":"2800","faultDescription":"bad ruc","cdrBase64":"CDR"}}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "k").Send(context.Background(), []byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, Rejected, res.Outcome)
	assert.Equal(t, "2800", res.Data.FaultCode)
	assert.Equal(t, "CDR", res.Data.CDRBase64)
}

func TestClientSend_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"down"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Send(context.Background(), []byte(`{}`))

	var up *UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, http.StatusServiceUnavailable, up.Status)
	assert.Equal(t, `HTTP error! status: 503, message: {"message":"down"}`, err.Error())
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestClientSend_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL, "k").Send(ctx, []byte(`{}`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestClientSend_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Send(context.Background(), []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response (status 200)")
}
