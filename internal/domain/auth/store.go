package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AccountRecord struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Sector       string
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// FindActiveByEmail loads the credential row for an active account.
// Missing rows surface as ErrInvalidCredentials so the login handler
// cannot distinguish "no such user" from "wrong password".
func (s *Store) FindActiveByEmail(ctx context.Context, email string) (AccountRecord, error) {
	var rec AccountRecord
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, email, password_hash, role, COALESCE(sector, '')
    FROM users
    WHERE email = $1 AND status = 'active'
  `, strings.ToLower(strings.TrimSpace(email))).
		Scan(&rec.ID, &rec.Name, &rec.Email, &rec.PasswordHash, &rec.Role, &rec.Sector)
	if errors.Is(err, pgx.ErrNoRows) {
		return AccountRecord{}, ErrInvalidCredentials
	}
	if err != nil {
		return AccountRecord{}, err
	}
	return rec, nil
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login_at = now() WHERE id = $1", userID)
	return err
}
