package obras

import (
	"context"
	"errors"

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

const projectColumns = `
  id, name, COALESCE(description, ''), COALESCE(contractor, ''), budget,
  progress, status, latitude, longitude, start_date, deadline, created_at, updated_at
`

func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+projectColumns+" FROM works_projects ORDER BY start_date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Contractor, &p.Budget,
			&p.Progress, &p.Status, &p.Latitude, &p.Longitude, &p.StartDate, &p.Deadline,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	var p Project
	err := s.DB.QueryRow(ctx, "SELECT "+projectColumns+" FROM works_projects WHERE id = $1", id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Contractor, &p.Budget,
			&p.Progress, &p.Status, &p.Latitude, &p.Longitude, &p.StartDate, &p.Deadline,
			&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, p *Project) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO works_projects (name, description, contractor, budget, progress, status, latitude, longitude, start_date, deadline)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING id, created_at, updated_at
  `, p.Name, p.Description, p.Contractor, p.Budget, p.Progress, p.Status,
		p.Latitude, p.Longitude, p.StartDate, p.Deadline).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (s *Store) UpdateProject(ctx context.Context, p *Project) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE works_projects
    SET name = $2, description = $3, contractor = $4, budget = $5, progress = $6,
        status = $7, latitude = $8, longitude = $9, deadline = $10, updated_at = now()
    WHERE id = $1
  `, p.ID, p.Name, p.Description, p.Contractor, p.Budget, p.Progress,
		p.Status, p.Latitude, p.Longitude, p.Deadline)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
