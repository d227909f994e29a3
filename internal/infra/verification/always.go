// Package verification provides the two VerificationChecker variants: an
// always-approve stub for development and the external shortener-log check
// for production. The variant is selected by configuration, never by the
// gate itself.
package verification

import (
	"context"

	"github.com/Sanjay-off/telegram-filebot/internal/domain/ports/adapter"
)

var _ adapter.VerificationChecker = (*AlwaysApprove)(nil)

// AlwaysApprove accepts every challenge. Development and testing only.
type AlwaysApprove struct{}

func NewAlwaysApprove() *AlwaysApprove { return &AlwaysApprove{} }

func (AlwaysApprove) Check(ctx context.Context, userID int64, challenge string) (bool, error) {
	return true, nil
}
