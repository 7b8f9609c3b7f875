package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

const sendPath = "/EnviarBoletaFactura"

// ResponseData is the "data" object of a Billme response.
type ResponseData struct {
	Description      string   `json:"description"`
	Observations     []string `json:"observations"`
	FaultCode        string   `json:"faultCode"`
	FaultDescription string   `json:"faultDescription"`
	XMLDocument      string   `json:"xmlDocument"`
	CDRBase64        string   `json:"cdrBase64"`
	XMLBase64        string   `json:"xmlBase64"`
}

type Outcome int

const (
	// Accepted is a 2xx answer.
	Accepted Outcome = iota + 1
	// Rejected is a 400 answer carrying the provider's fault description.
	Rejected
)

// Result is a response the provider answered with a body we could read.
type Result struct {
	Outcome Outcome
	Status  int
	Data    ResponseData
}

// UpstreamError is any failure that did not yield a Result: transport errors,
// unreadable bodies and unexpected statuses.
type UpstreamError struct {
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("HTTP error! status: %d, message: %s", e.Status, e.Body)
	}
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool { return target == apperr.ErrUpstream }

// Sender is implemented by *Client.
type Sender interface {
	Send(ctx context.Context, payload []byte) (*Result, error)
}

type Client struct {
	HTTP    *http.Client
	BaseURL string
	Token   string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		HTTP:    &http.Client{},
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
	}
}

// Send posts a serialized Document. Deadlines come from ctx.
func (c *Client) Send(ctx context.Context, payload []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+sendPath, bytes.NewReader(payload))
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("token", c.Token)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("read response: %w", err)}
	}

	var outcome Outcome
	switch {
	case res.StatusCode >= 200 && res.StatusCode < 300:
		outcome = Accepted
	case res.StatusCode == http.StatusBadRequest:
		outcome = Rejected
	default:
		return nil, &UpstreamError{Status: res.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var envelope struct {
		Data *ResponseData `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("decode response (status %d): %w", res.StatusCode, err)}
	}
	out := &Result{Outcome: outcome, Status: res.StatusCode}
	if envelope.Data != nil {
		out.Data = *envelope.Data
	}
	return out, nil
}
