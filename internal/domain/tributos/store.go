package tributos

import (
	"context"
	"errors"
	"time"

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

func (s *Store) ListTaxpayers(ctx context.Context) ([]Taxpayer, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, document, kind, COALESCE(address, ''), active, created_at
    FROM taxpayers
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Taxpayer
	for rows.Next() {
		var tp Taxpayer
		if err := rows.Scan(&tp.ID, &tp.Name, &tp.Document, &tp.Kind, &tp.Address, &tp.Active, &tp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}

func (s *Store) GetTaxpayer(ctx context.Context, id string) (*Taxpayer, error) {
	var tp Taxpayer
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, document, kind, COALESCE(address, ''), active, created_at
    FROM taxpayers WHERE id = $1
  `, id).Scan(&tp.ID, &tp.Name, &tp.Document, &tp.Kind, &tp.Address, &tp.Active, &tp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tp, nil
}

func (s *Store) CreateTaxpayer(ctx context.Context, tp *Taxpayer) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO taxpayers (name, document, kind, address, active)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, created_at
  `, tp.Name, tp.Document, tp.Kind, tp.Address, tp.Active).Scan(&tp.ID, &tp.CreatedAt)
}

func (s *Store) UpdateTaxpayer(ctx context.Context, tp *Taxpayer) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE taxpayers SET name = $2, document = $3, kind = $4, address = $5, active = $6
    WHERE id = $1
  `, tp.ID, tp.Name, tp.Document, tp.Kind, tp.Address, tp.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]Invoice, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT i.id, i.taxpayer_id, t.name, i.number, i.amount, i.due_date, i.paid_at, i.status, i.created_at
    FROM invoices i
    JOIN taxpayers t ON t.id = i.taxpayer_id
    ORDER BY i.due_date DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.TaxpayerID, &inv.Taxpayer, &inv.Number, &inv.Amount,
			&inv.DueDate, &inv.PaidAt, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Store) CreateInvoice(ctx context.Context, inv *Invoice) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO invoices (taxpayer_id, number, amount, due_date, status)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, created_at
  `, inv.TaxpayerID, inv.Number, inv.Amount, inv.DueDate, inv.Status).Scan(&inv.ID, &inv.CreatedAt)
}

func (s *Store) MarkInvoicePaid(ctx context.Context, id string, paidAt time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE invoices SET status = 'paid', paid_at = $2 WHERE id = $1 AND status <> 'paid'
  `, id, paidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListAssessments(ctx context.Context) ([]Assessment, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT a.id, a.taxpayer_id, t.name, a.kind, a.year, a.amount, COALESCE(a.notes, ''), a.created_at
    FROM assessments a
    JOIN taxpayers t ON t.id = a.taxpayer_id
    ORDER BY a.year DESC, t.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		var as Assessment
		if err := rows.Scan(&as.ID, &as.TaxpayerID, &as.Taxpayer, &as.Kind, &as.Year,
			&as.Amount, &as.Notes, &as.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, as)
	}
	return out, rows.Err()
}

func (s *Store) CreateAssessment(ctx context.Context, as *Assessment) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO assessments (taxpayer_id, kind, year, amount, notes)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, created_at
  `, as.TaxpayerID, as.Kind, as.Year, as.Amount, as.Notes).Scan(&as.ID, &as.CreatedAt)
}
