package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/Sanjay-off/telegram-filebot/internal/domain"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

type PaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

func (r *PaymentRepo) Save(ctx context.Context, o *model.PaymentOrder) error {
	const sql = `
INSERT INTO payment_orders (order_id, user_id, plan_name, amount, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := r.pool.Exec(ctx, sql, o.OrderID, o.UserID, o.PlanName, o.Amount, string(o.Status), o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("postgres: save payment order: %w", err)
	}
	return nil
}

func (r *PaymentRepo) FindByID(ctx context.Context, orderID string) (*model.PaymentOrder, error) {
	const sql = `
SELECT order_id, user_id, plan_name, amount, status, created_at, paid_at, premium_until
  FROM payment_orders
 WHERE order_id = $1;
`
	row := r.pool.QueryRow(ctx, sql, orderID)

	var o model.PaymentOrder
	var status string
	err := row.Scan(&o.OrderID, &o.UserID, &o.PlanName, &o.Amount, &status, &o.CreatedAt, &o.PaidAt, &o.PremiumUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("postgres: querying payment order: %w", err)
	}
	o.Status = model.PaymentStatus(status)
	return &o, nil
}

// MarkPaid performs the pending -> paid transition as one conditional
// UPDATE. A second confirmation matches zero rows and reports false.
func (r *PaymentRepo) MarkPaid(ctx context.Context, orderID string, paidAt, premiumUntil time.Time) (bool, error) {
	const sql = `
UPDATE payment_orders
   SET status = 'paid',
       paid_at = $2,
       premium_until = $3
 WHERE order_id = $1
   AND status = 'pending';
`
	ct, err := r.pool.Exec(ctx, sql, orderID, paidAt, premiumUntil)
	if err != nil {
		return false, fmt.Errorf("postgres: mark paid: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
