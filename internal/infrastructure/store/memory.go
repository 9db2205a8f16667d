// Package store provides the persistence implementations behind the
// catalog, order and customer contracts: an in-memory variant used in
// tests and local runs, and a PostgreSQL variant for real deployments.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/example/order-catalog/internal/domain/customer"
	"github.com/example/order-catalog/internal/domain/order"
	"github.com/example/order-catalog/internal/domain/product"
)

// MemoryProductStore keeps products in a map. The mutex serializes
// TryDecrementStock's check and mutate, which is what closes the
// check-then-act race for concurrent orders.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[string]product.Product
}

func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{products: make(map[string]product.Product)}
}

func (s *MemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *MemoryProductStore) GetAll(ctx context.Context) ([]*product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*product.Product, 0, len(s.products))
	for _, p := range s.products {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryProductStore) Create(ctx context.Context, p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = *p
	return nil
}

func (s *MemoryProductStore) Save(ctx context.Context, p *product.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return product.ErrProductNotFound
	}
	s.products[p.ID] = *p
	return nil
}

// TryDecrementStock checks availability and decrements under one lock
// acquisition.
func (s *MemoryProductStore) TryDecrementStock(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return product.ErrProductNotFound
	}
	if p.Stock < quantity {
		return &product.InsufficientStockError{
			ProductID: id,
			Available: p.Stock,
			Requested: quantity,
		}
	}
	p.Stock -= quantity
	s.products[id] = p
	return nil
}

func (s *MemoryProductStore) AddStock(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return product.ErrProductNotFound
	}
	p.Stock += quantity
	s.products[id] = p
	return nil
}

// MemoryOrderStore keeps orders in a map.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]order.Order
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{orders: make(map[string]order.Order)}
}

func (s *MemoryOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Items = append([]order.LineItem(nil), o.Items...)
	return &o, nil
}

func (s *MemoryOrderStore) GetAll(ctx context.Context) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		o := o
		o.Items = append([]order.LineItem(nil), o.Items...)
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryOrderStore) GetByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*order.Order, 0)
	for _, o := range s.orders {
		if o.CustomerID != customerID {
			continue
		}
		o := o
		o.Items = append([]order.LineItem(nil), o.Items...)
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryOrderStore) Create(ctx context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *o
	stored.Items = append([]order.LineItem(nil), o.Items...)
	s.orders[o.ID] = stored
	return nil
}

func (s *MemoryOrderStore) Update(ctx context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[o.ID]
	if !ok {
		return nil
	}
	stored.Status = o.Status
	stored.Total = o.Total
	stored.UpdatedAt = o.UpdatedAt
	s.orders[o.ID] = stored
	return nil
}

func (s *MemoryOrderStore) ReplaceLineItems(ctx context.Context, orderID string, items []order.LineItem, total int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[orderID]
	if !ok {
		return nil
	}
	stored.Items = append([]order.LineItem(nil), items...)
	stored.Total = total
	s.orders[orderID] = stored
	return nil
}

// MemoryCustomerStore keeps customer accounts in a map.
type MemoryCustomerStore struct {
	mu        sync.RWMutex
	customers map[string]customer.Customer
	byEmail   map[string]string
}

func NewMemoryCustomerStore() *MemoryCustomerStore {
	return &MemoryCustomerStore{
		customers: make(map[string]customer.Customer),
		byEmail:   make(map[string]string),
	}
}

func (s *MemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (s *MemoryCustomerStore) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	c := s.customers[id]
	return &c, nil
}

func (s *MemoryCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[c.Email]; ok {
		return customer.ErrEmailTaken
	}
	s.customers[c.ID] = *c
	s.byEmail[c.Email] = c.ID
	return nil
}
