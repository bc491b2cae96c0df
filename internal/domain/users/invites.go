package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"civitec/internal/domain/access"
)

var (
	ErrInviteExpired  = errors.New("invite expired")
	ErrInviteConsumed = errors.New("invite already accepted or revoked")
	ErrSectorRequired = errors.New("sector roles require a sector")
	ErrSectorInvalid  = errors.New("unknown sector")
	ErrRoleInvalid    = errors.New("unknown role")
)

// Mailer delivers invite notifications. Implementations own message
// composition; the domain hands over the invite and its accept link.
type Mailer interface {
	SendInvite(ctx context.Context, inv Invite, acceptURL string) error
}

// NewInvite builds a pending invite. Sector-scoped roles must name a
// valid sector; master_admin and employee invites carry none.
func NewInvite(email string, role access.Role, sector access.Sector, invitedBy string, ttl time.Duration, now time.Time) (*Invite, error) {
	if !role.Valid() {
		return nil, ErrRoleInvalid
	}
	switch role {
	case access.RoleSectorAdmin, access.RoleSectorOperator:
		if sector == access.SectorNone {
			return nil, ErrSectorRequired
		}
		if !sector.Valid() {
			return nil, ErrSectorInvalid
		}
	default:
		sector = access.SectorNone
	}

	return &Invite{
		Email:     email,
		Role:      role,
		Sector:    sector,
		Token:     uuid.NewString(),
		Status:    InvitePending,
		InvitedBy: invitedBy,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Accept consumes an invite. Expiry is checked lazily here rather
// than by a background sweep.
func Accept(inv *Invite, now time.Time) error {
	if inv.Status != InvitePending {
		return ErrInviteConsumed
	}
	if now.After(inv.ExpiresAt) {
		inv.Status = InviteExpired
		return ErrInviteExpired
	}
	inv.Status = InviteAccepted
	inv.AcceptedAt = &now
	return nil
}

// InviteEmailBody renders the plain-text invite message.
func InviteEmailBody(municipality, acceptURL string, expiresAt time.Time) string {
	return fmt.Sprintf(
		"Você foi convidado para acessar o sistema da %s.\r\n\r\n"+
			"Para criar sua conta, acesse: %s\r\n\r\n"+
			"O convite expira em %s.\r\n",
		municipality, acceptURL, expiresAt.Format("02/01/2006 15:04"),
	)
}
