package adapter

import "context"

// VerificationChecker decides whether the external anti-bypass step behind a
// challenge was actually completed. Implementations: AlwaysApprove for
// development, ExternalCheck against the shortener log API in production.
// The gate treats any error as a failed check.
type VerificationChecker interface {
	Check(ctx context.Context, userID int64, challenge string) (bool, error)
}
