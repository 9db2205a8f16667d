package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/example/order-catalog/internal/domain/customer"
	"github.com/example/order-catalog/internal/domain/order"
	"github.com/example/order-catalog/internal/domain/product"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProduct(price int64, stock int) *product.Product {
	now := time.Now().UTC()
	return &product.Product{
		ID:        uuid.New().String(),
		Name:      "Widget",
		Price:     price,
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryProductStore_GetAbsent(t *testing.T) {
	s := NewMemoryProductStore()

	p, err := s.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestMemoryProductStore_SaveAbsent(t *testing.T) {
	s := NewMemoryProductStore()

	err := s.Save(context.Background(), newProduct(100, 1))

	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestMemoryProductStore_TryDecrementStock(t *testing.T) {
	s := NewMemoryProductStore()
	ctx := context.Background()
	p := newProduct(100, 5)
	require.NoError(t, s.Create(ctx, p))

	require.NoError(t, s.TryDecrementStock(ctx, p.ID, 3))

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	err = s.TryDecrementStock(ctx, p.ID, 3)
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
	var stockErr *product.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	// Failed attempt must not change stock.
	got, err = s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestMemoryProductStore_TryDecrementStock_Unknown(t *testing.T) {
	s := NewMemoryProductStore()

	err := s.TryDecrementStock(context.Background(), "missing", 1)

	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestMemoryProductStore_AddStock(t *testing.T) {
	s := NewMemoryProductStore()
	ctx := context.Background()
	p := newProduct(100, 1)
	require.NoError(t, s.Create(ctx, p))

	require.NoError(t, s.AddStock(ctx, p.ID, 4))

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}

func TestMemoryProductStore_ConcurrentDecrementsNeverGoNegative(t *testing.T) {
	s := NewMemoryProductStore()
	ctx := context.Background()

	const stock = 30
	const attempts = 100
	p := newProduct(100, stock)
	require.NoError(t, s.Create(ctx, p))

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.TryDecrementStock(ctx, p.ID, 1); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, stock, successes)
	assert.Equal(t, 0, got.Stock)
}

func TestMemoryProductStore_GetReturnsCopy(t *testing.T) {
	s := NewMemoryProductStore()
	ctx := context.Background()
	p := newProduct(100, 5)
	require.NoError(t, s.Create(ctx, p))

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	got.Stock = 999

	again, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, again.Stock)
}

func newOrder(customerID string, items ...order.LineItem) *order.Order {
	now := time.Now().UTC()
	var total int64
	for _, li := range items {
		total += li.Total
	}
	return &order.Order{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Status:     order.StatusCreated,
		Total:      total,
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestMemoryOrderStore_CreateAndGet(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := context.Background()

	o := newOrder("customer-1", order.LineItem{
		ID: uuid.New().String(), ProductID: "p-1", Quantity: 2, UnitPrice: 500, Total: 1000,
	})
	require.NoError(t, s.Create(ctx, o))

	got, err := s.Get(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, o.Total, got.Total)
	require.Len(t, got.Items, 1)

	// The returned slice is a copy.
	got.Items[0].Quantity = 99
	again, err := s.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, again.Items[0].Quantity)
}

func TestMemoryOrderStore_GetAbsent(t *testing.T) {
	s := NewMemoryOrderStore()

	got, err := s.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryOrderStore_GetByCustomer(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newOrder("alice")))
	require.NoError(t, s.Create(ctx, newOrder("alice")))
	require.NoError(t, s.Create(ctx, newOrder("bob")))

	got, err := s.GetByCustomer(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	none, err := s.GetByCustomer(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryOrderStore_ReplaceLineItems(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := context.Background()

	o := newOrder("customer-1", order.LineItem{
		ID: uuid.New().String(), ProductID: "p-1", Quantity: 2, UnitPrice: 500, Total: 1000,
	})
	require.NoError(t, s.Create(ctx, o))

	replacement := []order.LineItem{
		{ID: uuid.New().String(), OrderID: o.ID, ProductID: "p-2", Quantity: 1, UnitPrice: 300, Total: 300},
	}
	require.NoError(t, s.ReplaceLineItems(ctx, o.ID, replacement, 300))

	got, err := s.Get(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p-2", got.Items[0].ProductID)
	assert.Equal(t, int64(300), got.Total)
}

func TestMemoryOrderStore_UpdateStatus(t *testing.T) {
	s := NewMemoryOrderStore()
	ctx := context.Background()

	o := newOrder("customer-1")
	require.NoError(t, s.Create(ctx, o))

	o.Status = order.StatusShipped
	o.UpdatedAt = time.Now().UTC()
	require.NoError(t, s.Update(ctx, o))

	got, err := s.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, got.Status)
}

func TestMemoryCustomerStore_CreateAndLookup(t *testing.T) {
	s := NewMemoryCustomerStore()
	ctx := context.Background()

	c := &customer.Customer{
		ID:        uuid.New().String(),
		Email:     "alice@example.com",
		Name:      "Alice",
		Role:      customer.RoleCustomer,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Create(ctx, c))

	byID, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, c.Email, byID.Email)

	byEmail, err := s.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, c.ID, byEmail.ID)

	missing, err := s.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryCustomerStore_DuplicateEmail(t *testing.T) {
	s := NewMemoryCustomerStore()
	ctx := context.Background()

	first := &customer.Customer{ID: uuid.New().String(), Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, s.Create(ctx, first))

	dup := &customer.Customer{ID: uuid.New().String(), Email: "alice@example.com", Name: "Other Alice"}
	err := s.Create(ctx, dup)

	assert.ErrorIs(t, err, customer.ErrEmailTaken)
}
