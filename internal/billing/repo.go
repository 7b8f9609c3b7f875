package billing

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

const queryTimeout = 5 * time.Second

type Repository interface {
	Create(ctx context.Context, r *Record) error
	ListByOrder(ctx context.Context, orderID string) ([]Record, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Create(ctx context.Context, rec *Record) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO billing (id, order_id, payload, description, xml_document, cdr_result, xml_result, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),NULLIF($7,''),$8,$9)`,
		rec.ID, rec.OrderID, rec.Payload, rec.Description, rec.XMLDocument,
		rec.CDRResult, rec.XMLResult, rec.CreatedAt, rec.UpdatedAt)
	return apperr.FromStore(err)
}

// ListByOrder returns every attempt for an order, oldest first.
func (r *PGRepo) ListByOrder(ctx context.Context, orderID string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, payload, description, xml_document,
		       COALESCE(cdr_result, ''), COALESCE(xml_result, ''), created_at, updated_at
		FROM billing
		WHERE order_id = $1
		ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.OrderID, &rec.Payload, &rec.Description, &rec.XMLDocument,
			&rec.CDRResult, &rec.XMLResult, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, apperr.FromStore(err)
		}
		out = append(out, rec)
	}
	return out, apperr.FromStore(rows.Err())
}
