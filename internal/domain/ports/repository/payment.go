package repository

import (
	"context"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
)

// -----------------------------
// Payment orders
// -----------------------------

type PaymentRepository interface {
	Save(ctx context.Context, o *model.PaymentOrder) error
	FindByID(ctx context.Context, orderID string) (*model.PaymentOrder, error)
	// MarkPaid flips the order from pending to paid, stamping paid_at and
	// premium_until in the same statement. Returns false when the order was
	// not in pending state (already paid, or raced by another confirmation).
	MarkPaid(ctx context.Context, orderID string, paidAt, premiumUntil time.Time) (bool, error)
}
