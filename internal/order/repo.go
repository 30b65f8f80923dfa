package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MikeMC777/tienda-api/internal/product"
)

var (
	ErrNotFound = errors.New("order not found")
)

// Store is the persistence boundary of the placement service. Begin opens the
// unit of work that the whole placement runs inside.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	GetOrder(ctx context.Context, id string) (*Order, []Line, error)
}

// Tx is one placement transaction: everything done through it commits
// together or not at all.
type Tx interface {
	InsertOrder(ctx context.Context, o *Order) error
	InsertLine(ctx context.Context, l *Line) error
	GetProduct(ctx context.Context, id string) (*product.Product, error)
	// UpdateProductQuantity writes `to` only if the row still holds `from`.
	// Returns false when a concurrent writer got there first.
	UpdateProductQuantity(ctx context.Context, id string, from, to int) (bool, error)
	UpdateOrderTotal(ctx context.Context, id, total string) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type PGStore struct{ db *pgxpool.Pool }

func NewPGStore(db *pgxpool.Pool) *PGStore { return &PGStore{db: db} }

func (s *PGStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	return &pgTx{tx: tx}, nil
}

func (s *PGStore) GetOrder(ctx context.Context, id string) (*Order, []Line, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	if err := s.db.QueryRow(ctx, `
    SELECT id,customer_name,address,total::text,created_at,updated_at
    FROM orders WHERE id=$1
  `, id).Scan(&o.ID, &o.CustomerName, &o.Address, &o.Total, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	rows, err := s.db.Query(ctx, `
    SELECT id,order_id,product_id,quantity,price::text,created_at
    FROM order_lines WHERE order_id=$1
    ORDER BY created_at ASC, id ASC
  `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.Price, &l.CreatedAt); err != nil {
			return nil, nil, err
		}
		lines = append(lines, l)
	}
	return &o, lines, rows.Err()
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	_, err := t.tx.Exec(ctx, `
    INSERT INTO orders (id, customer_name, address, total, created_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, o.ID, o.CustomerName, o.Address, o.Total, o.CreatedAt, o.UpdatedAt)
	return err
}

func (t *pgTx) InsertLine(ctx context.Context, l *Line) error {
	_, err := t.tx.Exec(ctx, `
    INSERT INTO order_lines (id, order_id, product_id, quantity, price, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, l.ID, l.OrderID, l.ProductID, l.Quantity, l.Price, l.CreatedAt)
	return err
}

func (t *pgTx) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	err := t.tx.QueryRow(ctx, `
    SELECT id, name, image, price::text, quantity, created_at, updated_at
    FROM products WHERE id=$1
  `, id).Scan(&p.ID, &p.Name, &p.Image, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (t *pgTx) UpdateProductQuantity(ctx context.Context, id string, from, to int) (bool, error) {
	tag, err := t.tx.Exec(ctx, `
    UPDATE products
    SET quantity = $3, updated_at = NOW()
    WHERE id = $1 AND quantity = $2
  `, id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (t *pgTx) UpdateOrderTotal(ctx context.Context, id, total string) error {
	_, err := t.tx.Exec(ctx, `
    UPDATE orders SET total = $2, updated_at = NOW() WHERE id = $1
  `, id, total)
	return err
}

func (t *pgTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }
