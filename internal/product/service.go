package product

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/ordenes-ecom/internal/apperr"
)

type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) List(ctx context.Context, q Query) ([]Product, error) {
	return s.repo.List(ctx, q)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateProductRequest) (*Product, error) {
	if err := validPrice(in.Price); err != nil {
		return nil, err
	}
	p := &Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		IsActive:    true,
		SKU:         in.SKU,
		Categories:  in.Categories,
		Attributes:  in.Attributes,
		ImageURL:    in.ImageURL,
		Dimensions:  in.Dimensions,
	}
	if in.Inventory != nil {
		p.Inventory = *in.Inventory
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Weight != nil {
		if err := validWeight(*in.Weight); err != nil {
			return nil, err
		}
		p.Weight = in.Weight.Round(2)
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("create product failed", "name", p.Name, "err", err)
		return nil, err
	}
	return p, nil
}

// Update applies a partial change. Inventory is never touched here.
func (s *Service) Update(ctx context.Context, id string, in UpdateProductRequest) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		if err := validPrice(*in.Price); err != nil {
			return nil, err
		}
		p.Price = in.Price.Round(2)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.Categories != nil {
		p.Categories = in.Categories
	}
	if in.Attributes != nil {
		p.Attributes = in.Attributes
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.Weight != nil {
		if err := validWeight(*in.Weight); err != nil {
			return nil, err
		}
		p.Weight = in.Weight.Round(2)
	}
	if in.Dimensions != nil {
		p.Dimensions = in.Dimensions
	}
	if err := s.repo.Update(ctx, p); err != nil {
		s.log.Error("update product failed", "product_id", id, "err", err)
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.log.Error("delete product failed", "product_id", id, "err", err)
		return err
	}
	if !ok {
		return apperr.NotFound("Product", id)
	}
	return nil
}

// AdjustInventory sets inventory to an absolute quantity.
func (s *Service) AdjustInventory(ctx context.Context, id string, quantity int) (*Product, error) {
	if quantity < 0 {
		return nil, apperr.Validation("quantity must not be less than 0")
	}
	p, err := s.repo.SetInventory(ctx, id, quantity)
	if err != nil {
		return nil, err
	}
	s.log.Info("inventory adjusted", "product_id", id, "inventory", quantity)
	return p, nil
}

// Column bounds: price NUMERIC(10,2), weight NUMERIC(4,2).
var (
	maxPrice  = decimal.New(1, 8)
	maxWeight = decimal.NewFromInt(100)
)

func validPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return apperr.Validation("price must not be negative")
	}
	if p.Round(2).GreaterThanOrEqual(maxPrice) {
		return apperr.Validation("price must be less than %s", maxPrice)
	}
	return nil
}

func validWeight(w decimal.Decimal) error {
	if w.IsNegative() {
		return apperr.Validation("weight must not be negative")
	}
	if w.Round(2).GreaterThanOrEqual(maxWeight) {
		return apperr.Validation("weight must be less than %s", maxWeight)
	}
	return nil
}
