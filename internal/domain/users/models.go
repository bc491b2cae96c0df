package users

import (
	"time"

	"civitec/internal/domain/access"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type User struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Email       string        `json:"email"`
	Role        access.Role   `json:"role"`
	Sector      access.Sector `json:"sector,omitempty"`
	Status      Status        `json:"status"`
	LastLoginAt *time.Time    `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteExpired  InviteStatus = "expired"
	InviteRevoked  InviteStatus = "revoked"
)

type Invite struct {
	ID         string        `json:"id"`
	Email      string        `json:"email"`
	Role       access.Role   `json:"role"`
	Sector     access.Sector `json:"sector,omitempty"`
	Token      string        `json:"-"`
	Status     InviteStatus  `json:"status"`
	InvitedBy  string        `json:"invitedBy"`
	ExpiresAt  time.Time     `json:"expiresAt"`
	AcceptedAt *time.Time    `json:"acceptedAt,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
}
