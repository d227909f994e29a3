package model

import (
	"fmt"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending" // order created, awaiting confirmation
	PaymentStatusPaid    PaymentStatus = "paid"    // confirmed; premium granted
)

// PaymentOrder records one premium-purchase attempt. The status transitions
// pending -> paid exactly once; PaidAt and PremiumUntil are stamped together
// with that transition.
type PaymentOrder struct {
	OrderID      string
	UserID       int64
	PlanName     string
	Amount       int64 // INR, integer to avoid float errors
	Status       PaymentStatus
	CreatedAt    time.Time
	PaidAt       *time.Time
	PremiumUntil *time.Time
}

// NewPaymentOrder creates a pending order. The order id is derived from the
// user and creation time so it is stable enough to show on a payment
// reference: ORD-<telegram id>-<unix seconds>.
func NewPaymentOrder(userID int64, planName string, amount int64, now time.Time) *PaymentOrder {
	return &PaymentOrder{
		OrderID:   fmt.Sprintf("ORD-%d-%d", userID, now.Unix()),
		UserID:    userID,
		PlanName:  planName,
		Amount:    amount,
		Status:    PaymentStatusPending,
		CreatedAt: now,
	}
}
