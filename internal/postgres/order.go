package postgres

import (
	"context"
	"fmt"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepository implements domain.OrderRepository.
type OrderRepository struct {
	db DBTX
}

var _ domain.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, number, customer_name, customer_phone, notes, delivery_date,
	lines, total, summary, status, created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o     domain.Order
		lines []byte
	)
	err := row.Scan(
		&o.ID, &o.Number, &o.CustomerName, &o.CustomerPhone, &o.Notes, &o.DeliveryDate,
		&lines, &o.Total, &o.Summary, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

// Create inserts the order. The database assigns the sequential number.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusSubmitted
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (id, customer_name, customer_phone, notes, delivery_date, lines, total, summary, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING number, created_at, updated_at`,
		o.ID, o.CustomerName, o.CustomerPhone, o.Notes, o.DeliveryDate,
		[]byte(o.Lines), o.Total, o.Summary, o.Status,
	).Scan(&o.Number, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to create order")
	}
	return nil
}

// SetSummary stores the handoff summary once the order number is known.
func (r *OrderRepository) SetSummary(ctx context.Context, id uuid.UUID, summary string) error {
	_, err := r.db.Exec(ctx, "UPDATE orders SET summary = $2, updated_at = NOW() WHERE id = $1", id, summary)
	if err != nil {
		return domain.Internal(err, "order.set_summary", "failed to save order summary")
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.WrapError(domain.ErrOrderNotFound, domain.ENOTFOUND, "order.get", domain.ErrOrderNotFound.Message)
		}
		return nil, domain.Internal(err, "order.get", "failed to get order")
	}
	return o, nil
}

// List returns orders newest first.
func (r *OrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := "SELECT " + orderColumns + " FROM orders"
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += " WHERE status = $1"
	}
	args = append(args, limit, filter.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, domain.Internal(err, "order.list", "failed to read order")
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	return out, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	tag, err := r.db.Exec(ctx, "UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1", id, status)
	if err != nil {
		return domain.Internal(err, "order.update_status", "failed to update order status")
	}
	if tag.RowsAffected() == 0 {
		return domain.WrapError(domain.ErrOrderNotFound, domain.ENOTFOUND, "order.update_status", domain.ErrOrderNotFound.Message)
	}
	return nil
}
