package order

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

const queryTimeout = 5 * time.Second

type Repository interface {
	// Create reserves inventory for every item and inserts the order with its
	// items in one transaction. A short item rolls everything back.
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, f Filter) ([]Order, error)
	// UpdateStatus moves the order from `from` to `to`; false when the order
	// was no longer in `from`.
	UpdateStatus(ctx context.Context, id string, from, to Status, trackingNumber string) (bool, error)
	UpdatePaymentStatus(ctx context.Context, id string, ps PaymentStatus) (bool, error)
	ConfirmPayment(ctx context.Context, id string) (bool, error)
	// Cancel restocks every item and marks the order cancelled in one transaction.
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) (bool, error)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const orderCols = `id, customer_id, status::text, payment_status::text,
	total::text, tax::text, shipping::text, discount::text,
	COALESCE(tracking_number, ''), shipping_address, billing_address, COALESCE(notes, ''),
	order_date, shipped_date, delivered_date, created_at, updated_at`

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o     Order
		money [4]string
	)
	err := row.Scan(&o.ID, &o.CustomerID, &o.Status, &o.PaymentStatus,
		&money[0], &money[1], &money[2], &money[3],
		&o.TrackingNumber, &o.ShippingAddress, &o.BillingAddress, &o.Notes,
		&o.OrderDate, &o.ShippedDate, &o.DeliveredDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	dst := [4]*decimal.Decimal{&o.Total, &o.Tax, &o.Shipping, &o.Discount}
	for i, s := range money {
		if *dst[i], err = decimal.NewFromString(s); err != nil {
			return nil, fmt.Errorf("order %s amount %q: %w", o.ID, s, err)
		}
	}
	o.Items = []Item{}
	return &o, nil
}

func (r *PGRepo) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.FromStore(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Lock products in id order so concurrent orders cannot deadlock.
	byProduct := slices.Clone(o.Items)
	slices.SortStableFunc(byProduct, func(a, b Item) int { return strings.Compare(a.ProductID, b.ProductID) })
	for _, it := range byProduct {
		if err := reserve(ctx, tx, it); err != nil {
			return err
		}
	}

	if err := tx.QueryRow(ctx, `
		INSERT INTO orders (id, customer_id, status, payment_status, total, tax, shipping, discount,
		                    shipping_address, billing_address, notes, order_date, created_at, updated_at)
		VALUES ($1,$2,$3::order_status,$4::payment_status,$5,$6,$7,$8,$9,$10,NULLIF($11,''),NOW(),NOW(),NOW())
		RETURNING order_date, created_at, updated_at
	`, o.ID, o.CustomerID, string(o.Status), string(o.PaymentStatus),
		o.Total.String(), o.Tax.String(), o.Shipping.String(), o.Discount.String(),
		o.ShippingAddress, o.BillingAddress, o.Notes,
	).Scan(&o.OrderDate, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return apperr.FromStore(err)
	}

	batch := &pgx.Batch{}
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (id, order_id, product_id, line_no, quantity, price, discount, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,NULLIF($8,''))
		`, it.ID, o.ID, it.ProductID, i+1, it.Quantity, it.Price.String(), it.Discount.String(), it.Notes)
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return err
	}
	return apperr.FromStore(tx.Commit(ctx))
}

// reserve decrements inventory only when enough stock remains, so two
// concurrent orders can never both take the last unit.
func reserve(ctx context.Context, tx pgx.Tx, it Item) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products SET inventory = inventory - $2, updated_at = NOW()
		WHERE id = $1 AND inventory >= $2
	`, it.ProductID, it.Quantity)
	if err != nil {
		return apperr.FromStore(err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var (
		name      string
		available int
	)
	err = tx.QueryRow(ctx, `SELECT name, inventory FROM products WHERE id = $1`, it.ProductID).Scan(&name, &available)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Product", it.ProductID)
	}
	if err != nil {
		return apperr.FromStore(err)
	}
	return apperr.InsufficientInventory(it.ProductID, name, available, it.Quantity)
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return apperr.FromStore(err)
		}
	}
	return apperr.FromStore(br.Close())
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Order", id)
	}
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	items, err := loadItems(ctx, r.db, []string{o.ID})
	if err != nil {
		return nil, err
	}
	if its, ok := items[o.ID]; ok {
		o.Items = its
	}
	return o, nil
}

func (r *PGRepo) List(ctx context.Context, f Filter) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	var customerID *string
	if f.CustomerID != "" {
		customerID = &f.CustomerID
	}

	rows, err := r.db.Query(ctx, `SELECT `+orderCols+` FROM orders
		WHERE ($1 = '' OR status::text = $1)
		  AND ($2::uuid IS NULL OR customer_id = $2::uuid)
		  AND ($3::timestamptz IS NULL OR order_date >= $3::timestamptz)
		  AND ($4::timestamptz IS NULL OR order_date <= $4::timestamptz)
		ORDER BY order_date DESC
		LIMIT $5 OFFSET $6
	`, string(f.Status), customerID, f.StartDate, f.EndDate, limit, offset)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	defer rows.Close()

	out := []Order{}
	var ids []string
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apperr.FromStore(err)
		}
		out = append(out, *o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromStore(err)
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := loadItems(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if its, ok := items[out[i].ID]; ok {
			out[i].Items = its
		}
	}
	return out, nil
}

// loadItems returns the items of every order in ids, keyed by order id and
// kept in line order.
func loadItems(ctx context.Context, q querier, ids []string) (map[string][]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, price::text, discount::text, COALESCE(notes, '')
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, line_no
	`, ids)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	defer rows.Close()

	out := make(map[string][]Item, len(ids))
	for rows.Next() {
		var (
			it              Item
			price, discount string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &price, &discount, &it.Notes); err != nil {
			return nil, apperr.FromStore(err)
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("item %s price %q: %w", it.ID, price, err)
		}
		if it.Discount, err = decimal.NewFromString(discount); err != nil {
			return nil, fmt.Errorf("item %s discount %q: %w", it.ID, discount, err)
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, apperr.FromStore(rows.Err())
}

func (r *PGRepo) UpdateStatus(ctx context.Context, id string, from, to Status, trackingNumber string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $3::order_status,
		    tracking_number = COALESCE(NULLIF($4, ''), tracking_number),
		    shipped_date = CASE WHEN $3 = 'shipped' THEN NOW() ELSE shipped_date END,
		    delivered_date = CASE WHEN $3 = 'delivered' THEN NOW() ELSE delivered_date END,
		    updated_at = NOW()
		WHERE id = $1 AND status = $2::order_status
	`, id, string(from), string(to), trackingNumber)
	if err != nil {
		return false, apperr.FromStore(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) UpdatePaymentStatus(ctx context.Context, id string, ps PaymentStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET payment_status = $2::payment_status, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id, string(ps))
	if err != nil {
		return false, apperr.FromStore(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) ConfirmPayment(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET payment_status = 'paid', status = 'processing', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return false, apperr.FromStore(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGRepo) Cancel(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.FromStore(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status Status
	err = tx.QueryRow(ctx, `SELECT status::text FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Order", id)
	}
	if err != nil {
		return apperr.FromStore(err)
	}
	if !status.Open() {
		return apperr.InvalidTransition("Cannot cancel order with status %s", status)
	}

	items, err := loadItems(ctx, tx, []string{id})
	if err != nil {
		return err
	}
	batch := &pgx.Batch{}
	for _, it := range items[id] {
		batch.Queue(`UPDATE products SET inventory = inventory + $2, updated_at = NOW() WHERE id = $1`,
			it.ProductID, it.Quantity)
	}
	batch.Queue(`UPDATE orders SET status = 'cancelled', updated_at = NOW() WHERE id = $1`, id)
	if err := execBatch(ctx, tx, batch); err != nil {
		return err
	}
	return apperr.FromStore(tx.Commit(ctx))
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1 AND status = 'cancelled'`, id)
	if err != nil {
		return false, apperr.FromStore(err)
	}
	return cmd.RowsAffected() > 0, nil
}
