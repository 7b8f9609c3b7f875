package customer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Customer, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	return s.repo.GetByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) Create(ctx context.Context, in CreateCustomerRequest) (*Customer, error) {
	email := strings.TrimSpace(in.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	dob, err := parseDate(in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	c := &Customer{
		ID:             uuid.NewString(),
		TypeDocument:   in.TypeDocument,
		NumberDocument: in.NumberDocument,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          email,
		Phone:          in.Phone,
		Address:        in.Address,
		IsActive:       true,
		DateOfBirth:    dob,
		Preferences:    in.Preferences,
		Notes:          in.Notes,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if err := s.repo.Create(ctx, c); err != nil {
		s.log.Error("create customer failed", "email", email, "err", err)
		return nil, err
	}
	return c, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateCustomerRequest) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		c.Email = email
	}
	if in.TypeDocument != nil {
		c.TypeDocument = *in.TypeDocument
	}
	if in.NumberDocument != nil {
		c.NumberDocument = *in.NumberDocument
	}
	if in.FirstName != nil {
		c.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		c.LastName = *in.LastName
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if in.Address != nil {
		c.Address = in.Address
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	if in.DateOfBirth != nil {
		dob, err := parseDate(*in.DateOfBirth)
		if err != nil {
			return nil, err
		}
		c.DateOfBirth = dob
	}
	if in.Preferences != nil {
		c.Preferences = in.Preferences
	}
	if in.Notes != nil {
		c.Notes = *in.Notes
	}
	if err := s.repo.Update(ctx, c); err != nil {
		s.log.Error("update customer failed", "customer_id", id, "err", err)
		return nil, err
	}
	return c, nil
}

// Delete fails with a foreign key violation while the customer still has orders.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("delete customer failed", "customer_id", id, "err", err)
		return err
	}
	if !ok {
		return apperr.NotFound("Customer", id)
	}
	return nil
}

// ensureEmailFree reports a conflict when email belongs to a customer other than self.
func (s *Service) ensureEmailFree(ctx context.Context, email, self string) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return apperr.DuplicateEntry("Customer", "email", email)
	}
	return nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, apperr.Validation("dateOfBirth must be YYYY-MM-DD")
	}
	return &t, nil
}
