package adapter

import "context"

type MemberStatus string

const (
	MemberStatusMember  MemberStatus = "member"
	MemberStatusLeft    MemberStatus = "left"
	MemberStatusKicked  MemberStatus = "kicked"
	MemberStatusBanned  MemberStatus = "banned"
	MemberStatusUnknown MemberStatus = "unknown"
)

// MembershipChecker answers whether a user has joined a required channel.
// Lookup failures map to MemberStatusUnknown, which the gate treats the same
// as "not a member" (fail closed).
type MembershipChecker interface {
	MemberStatus(ctx context.Context, channelID, userID int64) (MemberStatus, error)
}
