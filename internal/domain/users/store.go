package users

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = `
  id, name, email, role, COALESCE(sector, ''), status, last_login_at, created_at
`

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Sector, &u.Status,
			&u.LastLoginAt, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Sector, &u.Status, &u.LastLoginAt, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *User) error {
	var sector any
	if u.Sector != "" {
		sector = string(u.Sector)
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE users SET name = $2, role = $3, sector = $4, status = $5 WHERE id = $1
  `, u.ID, u.Name, string(u.Role), sector, u.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateFromInvite creates the account an accepted invite describes.
func (s *Store) CreateFromInvite(ctx context.Context, inv *Invite, name, passwordHash string) (*User, error) {
	var sector any
	if inv.Sector != "" {
		sector = string(inv.Sector)
	}
	u := User{
		Name:   name,
		Email:  strings.ToLower(strings.TrimSpace(inv.Email)),
		Role:   inv.Role,
		Sector: inv.Sector,
		Status: StatusActive,
	}
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (name, email, password_hash, role, sector, status)
    VALUES ($1, $2, $3, $4, $5, 'active')
    RETURNING id, created_at
  `, u.Name, u.Email, passwordHash, string(u.Role), sector).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const inviteColumns = `
  id, email, role, COALESCE(sector, ''), token, status, invited_by, expires_at, accepted_at, created_at
`

func (s *Store) ListInvites(ctx context.Context) ([]Invite, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+inviteColumns+" FROM invites ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invite
	for rows.Next() {
		var inv Invite
		if err := rows.Scan(&inv.ID, &inv.Email, &inv.Role, &inv.Sector, &inv.Token, &inv.Status,
			&inv.InvitedBy, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Store) GetInviteByToken(ctx context.Context, token string) (*Invite, error) {
	var inv Invite
	err := s.DB.QueryRow(ctx, "SELECT "+inviteColumns+" FROM invites WHERE token = $1", token).
		Scan(&inv.ID, &inv.Email, &inv.Role, &inv.Sector, &inv.Token, &inv.Status,
			&inv.InvitedBy, &inv.ExpiresAt, &inv.AcceptedAt, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) CreateInvite(ctx context.Context, inv *Invite) error {
	var sector any
	if inv.Sector != "" {
		sector = string(inv.Sector)
	}
	return s.DB.QueryRow(ctx, `
    INSERT INTO invites (email, role, sector, token, status, invited_by, expires_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id, created_at
  `, inv.Email, string(inv.Role), sector, inv.Token, inv.Status, inv.InvitedBy, inv.ExpiresAt).
		Scan(&inv.ID, &inv.CreatedAt)
}

func (s *Store) UpdateInviteStatus(ctx context.Context, inv *Invite) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE invites SET status = $2, accepted_at = $3 WHERE id = $1
  `, inv.ID, inv.Status, inv.AcceptedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) RevokeInvite(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE invites SET status = 'revoked' WHERE id = $1 AND status = 'pending'
  `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
