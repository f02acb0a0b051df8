package domain

import "time"

// InviteStatus is the invite lifecycle state. The only transition is
// pending → accepted, performed at most once per invite.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
)

type Invite struct {
	ID         string
	Email      string // target address; matched case-insensitively on acceptance
	CodeHash   string // SHA-256 fingerprint of the opaque invite code, unique
	Status     InviteStatus
	Role       Role // role granted on acceptance
	CreatedBy  string
	ExpiresAt  *time.Time // nil means the invite never expires
	AcceptedBy string
	AcceptedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
