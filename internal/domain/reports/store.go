package reports

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.DB.QueryRow(ctx, `
    SELECT
      (SELECT COUNT(1) FROM employees WHERE status = 'active'),
      (SELECT COUNT(1) FROM vacation_requests WHERE status = 'pending'),
      (SELECT COUNT(1) FROM taxpayers WHERE active),
      (SELECT COUNT(1) FROM invoices WHERE status = 'pending' AND due_date >= now()),
      (SELECT COUNT(1) FROM invoices WHERE status = 'pending' AND due_date < now()),
      (SELECT COUNT(1) FROM procurement_processes WHERE status NOT IN ('awarded', 'cancelled')),
      (SELECT COUNT(1) FROM works_projects WHERE status = 'in_progress'),
      (SELECT COALESCE(SUM(amount), 0) FROM invoices),
      (SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE status = 'paid')
  `).Scan(
		&sum.Employees, &sum.PendingVacations, &sum.ActiveTaxpayers,
		&sum.OpenInvoices, &sum.OverdueInvoices, &sum.OpenProcesses,
		&sum.ActiveProjects, &sum.RevenueBilled, &sum.RevenueCollected,
	)
	return sum, err
}
