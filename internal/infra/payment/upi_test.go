//go:build !integration

package payment_test

import (
	"testing"
	"time"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
	"github.com/Sanjay-off/telegram-filebot/internal/infra/payment"
)

func TestUPIReference(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	order := model.NewPaymentOrder(42, "Premium", 99, now)

	got := payment.UPIReference("merchant@upi", order)
	want := "upi://pay?pa=merchant@upi&am=99&tn=ORD-42-1700000000&cu=INR"
	if got != want {
		t.Fatalf("reference = %q, want %q", got, want)
	}
}
