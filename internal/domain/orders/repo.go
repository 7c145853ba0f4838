package orders

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Save(ctx context.Context, o *Order) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO orders (chat_id, order_id, sequence_number, total_price, currency,
		                    client_name, phone, marketplace, warehouse_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at
	`, o.ChatID, o.OrderID, o.SequenceNumber, o.TotalPrice, o.Currency,
		o.ClientName, o.Phone, o.Marketplace, o.WarehouseID)
	return row.Scan(&o.ID, &o.CreatedAt)
}

// LastByChat возвращает последний заказ чата; nil — если заказов не было.
func (r *Repo) LastByChat(ctx context.Context, chatID int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, chat_id, order_id, sequence_number, total_price, currency,
		       client_name, phone, marketplace, warehouse_id, created_at
		FROM orders WHERE chat_id = $1
		ORDER BY created_at DESC LIMIT 1
	`, chatID)
	var o Order
	if err := row.Scan(&o.ID, &o.ChatID, &o.OrderID, &o.SequenceNumber, &o.TotalPrice,
		&o.Currency, &o.ClientName, &o.Phone, &o.Marketplace, &o.WarehouseID, &o.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *Repo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, chat_id, order_id, sequence_number, total_price, currency,
		       client_name, phone, marketplace, warehouse_id, created_at
		FROM orders
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ChatID, &o.OrderID, &o.SequenceNumber, &o.TotalPrice,
			&o.Currency, &o.ClientName, &o.Phone, &o.Marketplace, &o.WarehouseID, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
