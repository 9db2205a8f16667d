package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/order-catalog/internal/domain/product"
)

// PostgresProductStore implements the catalog contracts over PostgreSQL.
type PostgresProductStore struct {
	db *sql.DB
}

func NewPostgresProductStore(db *sql.DB) *PostgresProductStore {
	return &PostgresProductStore{db: db}
}

func (s *PostgresProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, stock, created_at, updated_at
		 FROM products WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return &p, nil
}

func (s *PostgresProductStore) GetAll(ctx context.Context) ([]*product.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, price, stock, created_at, updated_at
		 FROM products ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (s *PostgresProductStore) Create(ctx context.Context, p *product.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, stock, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product %s: %w", p.ID, err)
	}
	return nil
}

func (s *PostgresProductStore) Save(ctx context.Context, p *product.Product) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = $2, description = $3, price = $4, stock = $5, updated_at = $6
		 WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save product %s: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return product.ErrProductNotFound
	}
	return nil
}

// TryDecrementStock decrements stock only when enough is available,
// in a single conditional UPDATE. Two orders racing for the last units
// are serialized by the database's row lock; the losing one sees zero
// rows affected.
func (s *PostgresProductStore) TryDecrementStock(ctx context.Context, id string, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now()
		 WHERE id = $1 AND stock >= $2`,
		id, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock for product %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// Distinguish a missing product from insufficient stock.
	var available int
	err = s.db.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&available)
	if err == sql.ErrNoRows {
		return product.ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("read stock for product %s: %w", id, err)
	}
	return &product.InsufficientStockError{
		ProductID: id,
		Available: available,
		Requested: quantity,
	}
}

func (s *PostgresProductStore) AddStock(ctx context.Context, id string, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`,
		id, quantity)
	if err != nil {
		return fmt.Errorf("add stock for product %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return product.ErrProductNotFound
	}
	return nil
}
