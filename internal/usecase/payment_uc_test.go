//go:build !integration

package usecase_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
	"github.com/Sanjay-off/telegram-filebot/internal/usecase"
)

func TestPayment_OpenOrder(t *testing.T) {
	payments := newMemPaymentRepo()
	users := newMemUserRepo()
	uc := usecase.NewPaymentUseCase(payments, users, newTestLogger())

	o, err := uc.OpenOrder(context.Background(), 42, "Premium", 99, fixedNow)
	if err != nil {
		t.Fatalf("OpenOrder: %v", err)
	}
	wantID := "ORD-42-" + strconv.FormatInt(fixedNow.Unix(), 10)
	if o.OrderID != wantID {
		t.Fatalf("order id = %q, want %q", o.OrderID, wantID)
	}
	if o.Status != model.PaymentStatusPending {
		t.Fatalf("status = %q, want pending", o.Status)
	}
}

func TestPayment_OpenOrderSameSecondReturnsExisting(t *testing.T) {
	payments := newMemPaymentRepo()
	users := newMemUserRepo()
	uc := usecase.NewPaymentUseCase(payments, users, newTestLogger())
	ctx := context.Background()

	first, err := uc.OpenOrder(ctx, 42, "Premium", 99, fixedNow)
	if err != nil {
		t.Fatalf("first OpenOrder: %v", err)
	}
	second, err := uc.OpenOrder(ctx, 42, "Premium", 99, fixedNow)
	if err != nil {
		t.Fatalf("second OpenOrder: %v", err)
	}
	if second.OrderID != first.OrderID {
		t.Fatalf("second order id = %q, want existing %q", second.OrderID, first.OrderID)
	}
	if len(payments.orders) != 1 {
		t.Fatalf("stored orders = %d, want 1", len(payments.orders))
	}
}

func TestPayment_ConfirmOrder(t *testing.T) {
	payments := newMemPaymentRepo()
	users := newMemUserRepo()
	uc := usecase.NewPaymentUseCase(payments, users, newTestLogger())
	ctx := context.Background()

	o, _ := uc.OpenOrder(ctx, 42, "Premium", 99, fixedNow)

	until, err := uc.ConfirmOrder(ctx, o.OrderID, 1440, fixedNow)
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}
	want := fixedNow.Add(1440 * time.Minute)
	if until == nil || !until.Equal(want) {
		t.Fatalf("premium until = %v, want %v", until, want)
	}

	u, err := users.Find(ctx, 42)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !u.EffectivelyPremium(fixedNow) {
		t.Fatal("user not premium after confirmation")
	}

	stored, _ := payments.FindByID(ctx, o.OrderID)
	if stored.Status != model.PaymentStatusPaid {
		t.Fatalf("order status = %q, want paid", stored.Status)
	}
	if stored.PaidAt == nil || !stored.PaidAt.Equal(fixedNow) {
		t.Fatalf("paid at = %v, want %v", stored.PaidAt, fixedNow)
	}
}

func TestPayment_ConfirmUnknownOrder(t *testing.T) {
	uc := usecase.NewPaymentUseCase(newMemPaymentRepo(), newMemUserRepo(), newTestLogger())

	until, err := uc.ConfirmOrder(context.Background(), "ORD-1-0", 1440, fixedNow)
	if err != nil {
		t.Fatalf("ConfirmOrder: %v", err)
	}
	if until != nil {
		t.Fatalf("premium until = %v, want nil for unknown order", until)
	}
}

func TestPayment_DoubleConfirmDoesNotReExtend(t *testing.T) {
	payments := newMemPaymentRepo()
	users := newMemUserRepo()
	uc := usecase.NewPaymentUseCase(payments, users, newTestLogger())
	ctx := context.Background()

	o, _ := uc.OpenOrder(ctx, 42, "Premium", 99, fixedNow)
	first, err := uc.ConfirmOrder(ctx, o.OrderID, 1440, fixedNow)
	if err != nil || first == nil {
		t.Fatalf("first confirm: until %v, err %v", first, err)
	}

	later := fixedNow.Add(time.Hour)
	second, err := uc.ConfirmOrder(ctx, o.OrderID, 1440, later)
	if err != nil {
		t.Fatalf("second confirm: %v", err)
	}
	if second != nil {
		t.Fatalf("second confirm returned %v, want nil", second)
	}

	u, _ := users.Find(ctx, 42)
	if !u.PremiumUntil.Equal(*first) {
		t.Fatalf("premium until = %v, want unchanged %v", u.PremiumUntil, *first)
	}
}
