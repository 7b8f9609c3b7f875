package customer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

const queryTimeout = 5 * time.Second

type Repository interface {
	List(ctx context.Context, f Filter) ([]Customer, error)
	GetByID(ctx context.Context, id string) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id string) (bool, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectCols = `
	SELECT id, type_document, number_document, first_name, last_name, email,
	       COALESCE(phone, ''), address, is_active, date_of_birth, preferences,
	       COALESCE(notes, ''), created_at, updated_at
	FROM customers`

func scan(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.TypeDocument, &c.NumberDocument, &c.FirstName, &c.LastName, &c.Email,
		&c.Phone, &c.Address, &c.IsActive, &c.DateOfBirth, &c.Preferences,
		&c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGRepo) List(ctx context.Context, f Filter) ([]Customer, error) {
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
	name := strings.ToLower(strings.TrimSpace(f.Name))

	rows, err := r.db.Query(ctx, selectCols+`
		WHERE ($1::boolean IS NULL OR is_active = $1)
		  AND ($2 = '' OR LOWER(first_name) LIKE '%'||$2||'%' OR LOWER(last_name) LIKE '%'||$2||'%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, f.Active, name, limit, offset)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	defer rows.Close()

	out := []Customer{}
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, apperr.FromStore(err)
		}
		out = append(out, *c)
	}
	return out, apperr.FromStore(rows.Err())
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	c, err := scan(r.db.QueryRow(ctx, selectCols+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Customer", id)
	}
	return c, apperr.FromStore(err)
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	c, err := scan(r.db.QueryRow(ctx, selectCols+` WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("Customer with email %s not found", email)
	}
	return c, apperr.FromStore(err)
}

func (r *PGRepo) Create(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (id, type_document, number_document, first_name, last_name, email,
		                       phone, address, is_active, date_of_birth, preferences, notes,
		                       created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7,''),$8,$9,$10,$11,NULLIF($12,''),NOW(),NOW())
		RETURNING created_at, updated_at
	`, c.ID, c.TypeDocument, c.NumberDocument, c.FirstName, c.LastName, c.Email,
		c.Phone, c.Address, c.IsActive, c.DateOfBirth, c.Preferences, c.Notes,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return r.mapWriteErr(err, c.Email)
}

func (r *PGRepo) Update(ctx context.Context, c *Customer) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRow(ctx, `
		UPDATE customers
		SET type_document = $2, number_document = $3, first_name = $4, last_name = $5,
		    email = $6, phone = NULLIF($7,''), address = $8, is_active = $9,
		    date_of_birth = $10, preferences = $11, notes = NULLIF($12,''),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, c.ID, c.TypeDocument, c.NumberDocument, c.FirstName, c.LastName,
		c.Email, c.Phone, c.Address, c.IsActive,
		c.DateOfBirth, c.Preferences, c.Notes,
	).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Customer", c.ID)
	}
	return r.mapWriteErr(err, c.Email)
}

// mapWriteErr turns a unique violation on the email index into the same
// conflict the service pre-check reports.
func (r *PGRepo) mapWriteErr(err error, email string) error {
	err = apperr.FromStore(err)
	if ae, ok := apperr.As(err); ok && ae.Code == apperr.CodeDuplicateEntry {
		return apperr.DuplicateEntry("Customer", "email", email)
	}
	return err
}

func (r *PGRepo) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cmd, err := r.db.Exec(ctx, `DELETE FROM customers WHERE id=$1`, id)
	if err != nil {
		return false, apperr.FromStore(err)
	}
	return cmd.RowsAffected() > 0, nil
}
