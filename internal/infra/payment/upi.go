// Package payment builds the UPI payment reference embedded in the QR shown
// to the user. The UPI id itself is never printed in chat text.
package payment

import (
	"fmt"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/model"
)

// UPIReference renders the deep-link URI a UPI app can pay:
// upi://pay?pa=<upi_id>&am=<amount>&tn=<order_id>&cu=INR
func UPIReference(upiID string, order *model.PaymentOrder) string {
	return fmt.Sprintf("upi://pay?pa=%s&am=%d&tn=%s&cu=INR", upiID, order.Amount, order.OrderID)
}
