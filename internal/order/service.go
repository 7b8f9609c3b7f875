package order

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

type Service struct {
	repo   Repository
	ext    Ext
	log    *slog.Logger
	tracer trace.Tracer
}

func NewService(repo Repository, ext Ext, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		ext:    ext,
		log:    log,
		tracer: otel.Tracer("order-service"),
	}
}

func (s *Service) start(ctx context.Context, name, orderID string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	if orderID != "" {
		span.SetAttributes(attribute.String("order.id", orderID))
	}
	return ctx, span
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Create validates the customer and every item against the catalog, prices
// the order and persists it while reserving inventory.
func (s *Service) Create(ctx context.Context, in CreateOrderRequest) (*Order, error) {
	ctx, span := s.start(ctx, "order.Create", "")
	defer span.End()

	cust, err := s.ext.Customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fail(span, err)
	}
	if len(in.Items) == 0 {
		return nil, fail(span, apperr.Validation("an order needs at least one item"))
	}

	o := &Order{
		ID:              uuid.NewString(),
		CustomerID:      cust.ID,
		Customer:        cust,
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		Shipping:        orZero(in.Shipping),
		Discount:        orZero(in.Discount),
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		Notes:           in.Notes,
	}
	if o.BillingAddress == nil {
		o.BillingAddress = in.ShippingAddress
	}
	if o.Shipping.IsNegative() || o.Discount.IsNegative() {
		return nil, fail(span, apperr.Validation("shipping and discount must not be negative"))
	}

	for _, req := range in.Items {
		if req.Quantity <= 0 {
			return nil, fail(span, apperr.Validation("quantity must be positive"))
		}
		p, err := s.ext.Products.GetByID(ctx, req.ProductID)
		if err != nil {
			return nil, fail(span, err)
		}
		if p.Inventory < req.Quantity {
			return nil, fail(span, apperr.InsufficientInventory(p.ID, p.Name, p.Inventory, req.Quantity))
		}
		it := Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: p.ID,
			Product:   p,
			Quantity:  req.Quantity,
			Price:     p.Price,
			Discount:  orZero(req.Discount),
			Notes:     req.Notes,
		}
		if it.Discount.IsNegative() {
			return nil, fail(span, apperr.Validation("item discount must not be negative"))
		}
		o.Items = append(o.Items, it)
	}

	subtotal, tax := Totals(o.Items)
	o.Tax = tax
	o.Total = subtotal.Add(tax).Add(o.Shipping).Sub(o.Discount)

	if err := s.repo.Create(ctx, o); err != nil {
		s.log.Error("create order failed", "customer_id", o.CustomerID, "err", err)
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.String("order.id", o.ID), attribute.String("order.total", o.Total.StringFixed(2)))
	s.log.Info("order created", "order_id", o.ID, "customer_id", o.CustomerID,
		"items", len(o.Items), "total", o.Total.StringFixed(2))
	return o, nil
}

// GetByID returns the order with its customer and item products resolved.
func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := newHydrator(s.ext).fill(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("Invalid order status %q", f.Status)
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return nil, apperr.Validation("endDate must not be before startDate")
	}
	if f.CustomerID != "" {
		if _, err := uuid.Parse(f.CustomerID); err != nil {
			return nil, apperr.Validation("Invalid customerId: %q is not a valid UUID", f.CustomerID)
		}
		if _, err := s.ext.Customers.GetByID(ctx, f.CustomerID); err != nil {
			return nil, err
		}
	}
	orders, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	h := newHydrator(s.ext)
	for i := range orders {
		if err := h.fill(ctx, &orders[i]); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateStatus moves an open order forward. Cancellation goes through Cancel
// so inventory is restored, and no order moves back to pending.
func (s *Service) UpdateStatus(ctx context.Context, id string, in UpdateStatusRequest) (*Order, error) {
	ctx, span := s.start(ctx, "order.UpdateStatus", id)
	defer span.End()

	if !in.Status.Valid() {
		return nil, fail(span, apperr.Validation("Invalid order status %q", in.Status))
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if !o.Status.Open() {
		return nil, fail(span, apperr.InvalidTransition("Cannot update order with status %s", o.Status))
	}
	switch in.Status {
	case StatusCancelled:
		return nil, fail(span, apperr.InvalidTransition("Use the cancel operation to cancel order %s", id))
	case StatusPending:
		return nil, fail(span, apperr.InvalidTransition("Cannot move order with status %s back to pending", o.Status))
	}

	ok, err := s.repo.UpdateStatus(ctx, id, o.Status, in.Status, in.TrackingNumber)
	if err != nil {
		return nil, fail(span, err)
	}
	if !ok {
		return nil, fail(span, apperr.InvalidTransition("Order %s changed status concurrently", id))
	}
	s.log.Info("order status updated", "order_id", id, "from", o.Status, "to", in.Status)
	return s.GetByID(ctx, id)
}

// UpdatePaymentStatus is only allowed while the order is pending.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id string, ps PaymentStatus) (*Order, error) {
	if !ps.Valid() {
		return nil, apperr.Validation("Invalid payment status %q", ps)
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusPending {
		return nil, apperr.InvalidTransition("Cannot update payment status for order with status %s", o.Status)
	}
	ok, err := s.repo.UpdatePaymentStatus(ctx, id, ps)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.InvalidTransition("Order %s changed status concurrently", id)
	}
	return s.GetByID(ctx, id)
}

// Cancel restores inventory for every item and marks the order cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (*Order, error) {
	ctx, span := s.start(ctx, "order.Cancel", id)
	defer span.End()

	if err := s.repo.Cancel(ctx, id); err != nil {
		return nil, fail(span, err)
	}
	s.log.Info("order cancelled", "order_id", id)
	return s.GetByID(ctx, id)
}

// Delete removes a cancelled order together with its items.
func (s *Service) Delete(ctx context.Context, id string) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != StatusCancelled {
		return apperr.InvalidTransition("Cannot delete order with status %s. Cancel the order first.", o.Status)
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.InvalidTransition("Order %s changed status concurrently", id)
	}
	s.log.Info("order deleted", "order_id", id)
	return nil
}

// ConfirmPayment marks a pending order paid and processing, then hands the
// hydrated order to billing. The billing outcome never reaches the caller.
func (s *Service) ConfirmPayment(ctx context.Context, id string) (*Order, error) {
	ctx, span := s.start(ctx, "order.ConfirmPayment", id)
	defer span.End()

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if o.Status != StatusPending {
		return nil, fail(span, apperr.InvalidTransition("Cannot confirm payment for order with status %s", o.Status))
	}
	ok, err := s.repo.ConfirmPayment(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}
	if !ok {
		return nil, fail(span, apperr.InvalidTransition("Cannot confirm payment for order %s: status changed", id))
	}

	paid, err := s.GetByID(ctx, id)
	if err != nil {
		s.log.Error("reload after payment failed, billing skipped", "order_id", id, "err", err)
		return nil, fail(span, err)
	}
	s.log.Info("payment confirmed", "order_id", id, "total", paid.Total.StringFixed(2))
	s.ext.Billing.Dispatch(*paid)
	return paid, nil
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
