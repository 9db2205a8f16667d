package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/order-catalog/internal/domain/order"
)

// PostgresOrderStore implements the order contract over PostgreSQL.
// Create and ReplaceLineItems run in a database transaction so the
// order row and its lines commit together.
type PostgresOrderStore struct {
	db *sql.DB
}

func NewPostgresOrderStore(db *sql.DB) *PostgresOrderStore {
	return &PostgresOrderStore{db: db}
}

func (s *PostgresOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	err := s.db.QueryRowContext(ctx,
		`SELECT id, customer_id, status, total, created_at, updated_at
		 FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}

	items, err := s.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *PostgresOrderStore) GetAll(ctx context.Context) ([]*order.Order, error) {
	return s.query(ctx,
		`SELECT id, customer_id, status, total, created_at, updated_at
		 FROM orders ORDER BY created_at`)
}

func (s *PostgresOrderStore) GetByCustomer(ctx context.Context, customerID string) ([]*order.Order, error) {
	return s.query(ctx,
		`SELECT id, customer_id, status, total, created_at, updated_at
		 FROM orders WHERE customer_id = $1 ORDER BY created_at`, customerID)
}

func (s *PostgresOrderStore) query(ctx context.Context, stmt string, args ...any) ([]*order.Order, error) {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*order.Order, 0)
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := s.loadItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func (s *PostgresOrderStore) loadItems(ctx context.Context, orderID string) ([]order.LineItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price, total
		 FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load items for order %s: %w", orderID, err)
	}
	defer rows.Close()

	var items []order.LineItem
	for rows.Next() {
		var li order.LineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.Quantity, &li.UnitPrice, &li.Total); err != nil {
			return nil, err
		}
		items = append(items, li)
	}
	return items, rows.Err()
}

func (s *PostgresOrderStore) Create(ctx context.Context, o *order.Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, customer_id, status, total, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.CustomerID, o.Status, o.Total, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", o.ID, err)
	}

	for _, li := range o.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			li.ID, li.OrderID, li.ProductID, li.Quantity, li.UnitPrice, li.Total)
		if err != nil {
			return fmt.Errorf("insert line item for order %s: %w", o.ID, err)
		}
	}

	return tx.Commit()
}

func (s *PostgresOrderStore) Update(ctx context.Context, o *order.Order) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, total = $3, updated_at = $4 WHERE id = $1`,
		o.ID, o.Status, o.Total, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order %s: %w", o.ID, err)
	}
	return nil
}

func (s *PostgresOrderStore) ReplaceLineItems(ctx context.Context, orderID string, items []order.LineItem, total int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace items: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("clear items for order %s: %w", orderID, err)
	}
	for _, li := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, quantity, unit_price, total)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			li.ID, li.OrderID, li.ProductID, li.Quantity, li.UnitPrice, li.Total)
		if err != nil {
			return fmt.Errorf("insert line item for order %s: %w", orderID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE orders SET total = $2 WHERE id = $1`, orderID, total); err != nil {
		return fmt.Errorf("update total for order %s: %w", orderID, err)
	}

	return tx.Commit()
}
