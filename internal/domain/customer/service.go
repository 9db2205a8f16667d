package customer

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/example/order-catalog/internal/auth"
	"github.com/google/uuid"
)

// Store persists customer accounts. Get and GetByEmail return
// (nil, nil) when no customer matches.
type Store interface {
	Get(ctx context.Context, id string) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Create(ctx context.Context, c *Customer) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates a customer account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password, name string) (*Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrInvalidEmail
	}
	if name == "" {
		return nil, ErrInvalidName
	}

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	c := &Customer{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		Role:         RoleCustomer,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	log.Printf("[Customer] Registered customer %s", c.ID)
	return c, nil
}

// Authenticate verifies the email/password pair. The same error is
// returned for unknown email and wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	c, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, c.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return c, nil
}

// Get returns (nil, nil) when the customer does not exist.
func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	return s.store.Get(ctx, id)
}
