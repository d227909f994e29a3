package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/repository"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/logging"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ PaymentUseCase = (*paymentUC)(nil)

// PaymentUseCase is the thin orchestration of the premium purchase flow:
// open an order, confirm it, extend the user's premium window.
type PaymentUseCase interface {
	// OpenOrder creates a pending order for the configured premium plan.
	OpenOrder(ctx context.Context, userID int64, planName string, amount int64, now time.Time) (*model.PaymentOrder, error)
	// ConfirmOrder marks a pending order as paid and extends the user's
	// premium until now + premiumMinutes. The nil, nil return means the order
	// was not found or already processed, a user-visible notice rather than
	// an error. Confirming the same order twice never re-extends premium.
	ConfirmOrder(ctx context.Context, orderID string, premiumMinutes int, now time.Time) (*time.Time, error)
}

type paymentUC struct {
	payments repository.PaymentRepository
	users    repository.UserRepository
	log      *zerolog.Logger
}

func NewPaymentUseCase(payments repository.PaymentRepository, users repository.UserRepository, logger *zerolog.Logger) *paymentUC {
	return &paymentUC{payments: payments, users: users, log: logger}
}

func (u *paymentUC) OpenOrder(ctx context.Context, userID int64, planName string, amount int64, now time.Time) (*model.PaymentOrder, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.OpenOrder")()

	o := model.NewPaymentOrder(userID, planName, amount, now)
	if err := u.payments.Save(ctx, o); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Same user within the same second: the existing pending order is
			// just as good.
			return u.payments.FindByID(ctx, o.OrderID)
		}
		return nil, err
	}
	metrics.IncPayment("opened")
	u.log.Info().Str("order_id", o.OrderID).Int64("tg_id", userID).Int64("amount", amount).Msg("payment order opened")
	return o, nil
}

func (u *paymentUC) ConfirmOrder(ctx context.Context, orderID string, premiumMinutes int, now time.Time) (*time.Time, error) {
	defer logging.TraceDuration(u.log, "PaymentUC.ConfirmOrder")()

	o, err := u.payments.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IncPayment("not_found")
			return nil, nil
		}
		return nil, err
	}

	premiumUntil := now.Add(time.Duration(premiumMinutes) * time.Minute)
	ok, err := u.payments.MarkPaid(ctx, orderID, now, premiumUntil)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Already paid: do not re-stamp paid_at or touch the entitlement.
		metrics.IncPayment("not_found")
		return nil, nil
	}

	if err := u.users.SetPremium(ctx, o.UserID, premiumUntil); err != nil {
		return nil, err
	}
	metrics.IncPayment("paid")
	u.log.Info().Str("order_id", orderID).Int64("tg_id", o.UserID).Time("premium_until", premiumUntil).Msg("payment confirmed")
	return &premiumUntil, nil
}
