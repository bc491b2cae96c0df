package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"civitec/internal/domain/access"
	"civitec/internal/domain/auth"
	"civitec/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureMunicipality(ctx, pool, cfg.SeedMunicipality); err != nil {
		return err
	}

	if err := ensureSectors(ctx, pool); err != nil {
		return err
	}

	return ensureMasterAdmin(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
}

func ensureMunicipality(ctx context.Context, pool *pgxpool.Pool, name string) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO municipality (id, name) VALUES (1, $1)
    ON CONFLICT (id) DO NOTHING
  `, name)
	return err
}

func ensureSectors(ctx context.Context, pool *pgxpool.Pool) error {
	for _, sector := range access.AllSectors() {
		_, err := pool.Exec(ctx, "INSERT INTO sectors (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", string(sector))
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureMasterAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (name, email, password_hash, role, sector, status)
    VALUES ('Administrador', $1, $2, $3, NULL, 'active')
  `, email, hash, string(access.RoleMasterAdmin))
	return err
}
