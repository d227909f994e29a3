package model

type DecisionKind string

const (
	DecisionGrant               DecisionKind = "grant"
	DecisionRequireSubscription DecisionKind = "require_subscription"
	DecisionRequireVerification DecisionKind = "require_verification"
	DecisionQuotaExhausted      DecisionKind = "quota_exhausted"
)

// Decision is the access gate's verdict for one (user, file) request.
// Exactly one kind applies; the auxiliary fields are populated per kind:
//
//	RequireSubscription: MissingChannels + RetryToken (re-encodes the file code)
//	RequireVerification: ChallengeToken + VerifyLink
//	QuotaExhausted:      ChallengeToken + VerifyLink
//	Grant:               ConsumedQuota (false for effectively premium users)
type Decision struct {
	Kind            DecisionKind
	MissingChannels []int64
	RetryToken      string
	ChallengeToken  string
	VerifyLink      string
	ConsumedQuota   bool
}
