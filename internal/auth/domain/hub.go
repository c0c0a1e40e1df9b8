package domain

import "time"

type Hub struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HubRole is a member's role within one hub.
type HubRole string

const (
	HubRoleMember HubRole = "member"
	HubRoleLead   HubRole = "lead"
)

// MembershipStatus tracks moderation of a hub membership application.
type MembershipStatus string

const (
	MembershipPending  MembershipStatus = "pending"
	MembershipApproved MembershipStatus = "approved"
	MembershipRejected MembershipStatus = "rejected"
)

type HubMembership struct {
	ID        string
	UserID    string
	HubID     string
	Role      HubRole
	Status    MembershipStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
