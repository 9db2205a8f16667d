package customer_test

import (
	"context"
	"testing"

	"github.com/example/order-catalog/internal/auth"
	"github.com/example/order-catalog/internal/domain/customer"
	"github.com/example/order-catalog/internal/infrastructure/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Register(t *testing.T) {
	svc := customer.NewService(store.NewMemoryCustomerStore())

	c, err := svc.Register(context.Background(), "  Alice@Example.COM ", "password123", "Alice")

	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "alice@example.com", c.Email)
	assert.Equal(t, "Alice", c.Name)
	assert.Equal(t, customer.RoleCustomer, c.Role)
	assert.NotEmpty(t, c.PasswordHash)
	assert.NotEqual(t, "password123", c.PasswordHash)
}

func TestService_Register_Validation(t *testing.T) {
	svc := customer.NewService(store.NewMemoryCustomerStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "password123", "Alice")
	assert.ErrorIs(t, err, customer.ErrInvalidEmail)

	_, err = svc.Register(ctx, "alice@example.com", "password123", "")
	assert.ErrorIs(t, err, customer.ErrInvalidName)

	_, err = svc.Register(ctx, "alice@example.com", "short", "Alice")
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := customer.NewService(store.NewMemoryCustomerStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "password123", "Alice")
	require.NoError(t, err)

	// Same email, different case.
	_, err = svc.Register(ctx, "ALICE@example.com", "password456", "Other Alice")
	assert.ErrorIs(t, err, customer.ErrEmailTaken)
}

func TestService_Authenticate(t *testing.T) {
	svc := customer.NewService(store.NewMemoryCustomerStore())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice@example.com", "password123", "Alice")
	require.NoError(t, err)

	c, err := svc.Authenticate(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, c.ID)
}

func TestService_Authenticate_Failures(t *testing.T) {
	svc := customer.NewService(store.NewMemoryCustomerStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "password123", "Alice")
	require.NoError(t, err)

	// Wrong password and unknown email yield the same error.
	_, err = svc.Authenticate(ctx, "alice@example.com", "wrongpassword")
	assert.ErrorIs(t, err, customer.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, customer.ErrInvalidCredentials)
}

func TestService_Get_Absent(t *testing.T) {
	svc := customer.NewService(store.NewMemoryCustomerStore())

	c, err := svc.Get(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, c)
}
