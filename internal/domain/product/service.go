package product

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Store is the catalog storage contract the service depends on.
// Get returns (nil, nil) when the product does not exist.
type Store interface {
	Get(ctx context.Context, id string) (*Product, error)
	GetAll(ctx context.Context) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Save(ctx context.Context, p *Product) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, name, description string, price int64, stock int) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	now := time.Now().UTC()
	p := &Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("[Catalog] Created product %s (%s)", p.ID, p.Name)
	return p, nil
}

func (s *Service) Update(ctx context.Context, id, name, description string, price int64, stock int) (*Product, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.Stock = stock
	p.UpdatedAt = time.Now().UTC()

	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	log.Printf("[Catalog] Updated product %s", p.ID)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetAll(ctx context.Context) ([]*Product, error) {
	return s.store.GetAll(ctx)
}
