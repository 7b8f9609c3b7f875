package billing

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MikeMC777/ordenes-ecom/internal/config"
	"github.com/MikeMC777/ordenes-ecom/internal/order"
)

const (
	defaultAccepted = "Billing processed successfully"
	defaultRejected = "Error: Bad Request (400)"
	queueFull       = "Error: billing queue is full"
	stopped         = "Error: billing dispatcher stopped"
)

// Dispatcher sends paid orders to Billme from a fixed set of workers and
// records the outcome of every attempt. It satisfies order.BillingDispatcher.
type Dispatcher struct {
	sender  Sender
	repo    Repository
	issuer  config.Company
	num     Numbering
	timeout time.Duration
	workers int
	queue   chan order.Order
	log     *slog.Logger
	tracer  trace.Tracer

	// now is swapped in tests.
	now func() time.Time

	// mu guards closed and orders every queue send and inflight.Add
	// against shutdown.
	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

func NewDispatcher(sender Sender, repo Repository, issuer config.Company, cfg config.Billing, log *slog.Logger) *Dispatcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{
		sender:  sender,
		repo:    repo,
		issuer:  issuer,
		num:     Numbering{Series: cfg.Series, Correlative: cfg.Correlative},
		timeout: timeout,
		workers: workers,
		queue:   make(chan order.Order, size),
		log:     log,
		tracer:  otel.Tracer("billing-dispatcher"),
		now:     time.Now,
	}
}

// Dispatch enqueues o and returns immediately. When the queue is full the
// attempt is recorded as failed in the background. Once Run has begun
// shutting down, the attempt is recorded as failed before Dispatch returns.
func (d *Dispatcher) Dispatch(o order.Order) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Error("billing dispatch after shutdown", "order_id", o.ID)
		d.reject(context.Background(), o, stopped)
		return
	}
	defer d.mu.Unlock()
	select {
	case d.queue <- o:
	default:
		d.log.Warn("billing queue full", "order_id", o.ID)
		d.inflight.Add(1)
		go func() {
			defer d.inflight.Done()
			d.reject(context.Background(), o, queueFull)
		}()
	}
}

// reject stores a failed attempt for o without contacting Billme.
func (d *Dispatcher) reject(ctx context.Context, o order.Order, desc string) {
	payload, _ := json.Marshal(BuildPayload(o, d.issuer, d.num, d.now()))
	d.persist(ctx, o.ID, string(payload), desc, ResponseData{})
}

// Run starts the workers and blocks until ctx is cancelled. Orders still
// queued at that point are processed before Run returns.
func (d *Dispatcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.work(ctx)
		}()
	}
	<-ctx.Done()

	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	wg.Wait()
	d.drain(context.WithoutCancel(ctx))
	d.inflight.Wait()
	return nil
}

func (d *Dispatcher) work(ctx context.Context) {
	for {
		select {
		case o := <-d.queue:
			d.Process(context.WithoutCancel(ctx), o)
		case <-ctx.Done():
			return
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case o := <-d.queue:
			d.Process(ctx, o)
		default:
			return
		}
	}
}

// Process performs one billing attempt for o synchronously. It never
// returns an error: every failure ends in a stored Record or a log line.
func (d *Dispatcher) Process(ctx context.Context, o order.Order) {
	ctx, span := d.tracer.Start(ctx, "billing.Process", trace.WithAttributes(attribute.String("order.id", o.ID)))
	defer span.End()

	body, err := json.Marshal(BuildPayload(o, d.issuer, d.num, d.now()))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		d.persist(ctx, o.ID, "", "Error: "+err.Error(), ResponseData{})
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	res, err := d.sender.Send(sendCtx, body)
	cancel()

	desc, data := describe(res, err)
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		d.log.Error("billing send failed", "order_id", o.ID, "err", err)
	case res.Outcome == Rejected:
		span.SetStatus(codes.Error, "rejected")
		d.log.Warn("billing rejected", "order_id", o.ID, "description", desc, "fault_code", data.FaultCode)
	default:
		d.log.Info("billing sent", "order_id", o.ID, "description", desc)
	}
	d.persist(ctx, o.ID, string(body), desc, data)
}

// describe maps a send outcome to the description and result fields stored
// on the Record.
func describe(res *Result, err error) (string, ResponseData) {
	if err != nil {
		return "Error: " + err.Error(), ResponseData{}
	}
	data := res.Data
	if data.Description != "" {
		return data.Description, data
	}
	if res.Outcome == Rejected {
		return defaultRejected, data
	}
	return defaultAccepted, data
}

func (d *Dispatcher) persist(ctx context.Context, orderID, payload, desc string, data ResponseData) {
	now := d.now()
	rec := &Record{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		Payload:     payload,
		Description: desc,
		XMLDocument: data.XMLDocument,
		CDRResult:   data.CDRBase64,
		XMLResult:   data.XMLBase64,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := d.repo.Create(context.WithoutCancel(ctx), rec); err != nil {
		d.log.Error("failed to save billing record", "order_id", orderID, "err", err)
	}
}
