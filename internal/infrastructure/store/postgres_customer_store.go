package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/order-catalog/internal/domain/customer"
)

// PostgresCustomerStore implements the customer contract over PostgreSQL.
type PostgresCustomerStore struct {
	db *sql.DB
}

func NewPostgresCustomerStore(db *sql.DB) *PostgresCustomerStore {
	return &PostgresCustomerStore{db: db}
}

func (s *PostgresCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	return s.get(ctx, `SELECT id, email, name, role, password_hash, created_at
		FROM customers WHERE id = $1`, id)
}

func (s *PostgresCustomerStore) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return s.get(ctx, `SELECT id, email, name, role, password_hash, created_at
		FROM customers WHERE email = $1`, email)
}

func (s *PostgresCustomerStore) get(ctx context.Context, stmt string, arg any) (*customer.Customer, error) {
	var c customer.Customer
	err := s.db.QueryRowContext(ctx, stmt, arg).
		Scan(&c.ID, &c.Email, &c.Name, &c.Role, &c.PasswordHash, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (s *PostgresCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (id, email, name, role, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Email, c.Name, c.Role, c.PasswordHash, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create customer %s: %w", c.ID, err)
	}
	return nil
}
