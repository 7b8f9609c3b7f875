// Package product provides the repository interface and PostgreSQL implementation for managing products.
package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

const queryTimeout = 5 * time.Second

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, q Query) ([]Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) (bool, error)
	SetInventory(ctx context.Context, id string, quantity int) (*Product, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const columns = `id, name, COALESCE(description, ''), price::text, inventory, is_active,
	COALESCE(sku, ''), categories, attributes, COALESCE(image_url, ''),
	weight::text, dimensions, created_at, updated_at`

const selectCols = `SELECT ` + columns + ` FROM products`

func scan(row pgx.Row) (*Product, error) {
	var (
		p             Product
		price, weight string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Inventory, &p.IsActive,
		&p.SKU, &p.Categories, &p.Attributes, &p.ImageURL,
		&weight, &p.Dimensions, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Price, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("product %s price %q: %w", p.ID, price, err)
	}
	if p.Weight, err = decimal.NewFromString(weight); err != nil {
		return nil, fmt.Errorf("product %s weight %q: %w", p.ID, weight, err)
	}
	return &p, nil
}

func (r *PGRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price, inventory, is_active, sku, categories,
		                      attributes, image_url, weight, dimensions, created_at, updated_at)
		VALUES ($1,$2,NULLIF($3,''),$4,$5,$6,NULLIF($7,''),$8,$9,NULLIF($10,''),$11,$12,NOW(),NOW())
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Price.String(), p.Inventory, p.IsActive, p.SKU, p.Categories,
		p.Attributes, p.ImageURL, p.Weight.String(), p.Dimensions,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return apperr.FromStore(err)
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scan(r.db.QueryRow(ctx, selectCols+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Product", id)
	}
	return p, apperr.FromStore(err)
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	limit := q.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	search := strings.TrimSpace(q.Q)
	category := strings.TrimSpace(q.Category)

	rows, err := r.db.Query(ctx, selectCols+`
		WHERE ($1 = '' OR name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		  AND ($2 = '' OR $2 = ANY(categories))
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, search, category, limit, offset)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, apperr.FromStore(err)
		}
		out = append(out, *p)
	}
	return out, apperr.FromStore(rows.Err())
}

// Update writes every column except inventory.
func (r *PGRepo) Update(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		UPDATE products
		SET name = $2, description = NULLIF($3,''), price = $4, is_active = $5,
		    sku = NULLIF($6,''), categories = $7, attributes = $8,
		    image_url = NULLIF($9,''), weight = $10, dimensions = $11,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING inventory, updated_at
	`, p.ID, p.Name, p.Description, p.Price.String(), p.IsActive,
		p.SKU, p.Categories, p.Attributes,
		p.ImageURL, p.Weight.String(), p.Dimensions,
	).Scan(&p.Inventory, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Product", p.ID)
	}
	return apperr.FromStore(err)
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return false, apperr.FromStore(err)
	}
	return cmd.RowsAffected() > 0, nil
}

// SetInventory overwrites the inventory count. It is a blind write: callers
// that derive quantity from a previous read can lose a concurrent update.
func (r *PGRepo) SetInventory(ctx context.Context, id string, quantity int) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scan(r.db.QueryRow(ctx, `
		UPDATE products SET inventory = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+columns, id, quantity))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Product", id)
	}
	return p, apperr.FromStore(err)
}
