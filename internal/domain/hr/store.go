package hr

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

const employeeColumns = `
  id, COALESCE(user_id::text, ''), name, email,
  COALESCE(registry, ''), COALESCE(position, ''), COALESCE(department, ''),
  salary, hired_at, status, created_at, updated_at
`

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		if err := rows.Scan(&emp.ID, &emp.UserID, &emp.Name, &emp.Email, &emp.Registry,
			&emp.Position, &emp.Department, &emp.Salary, &emp.HiredAt, &emp.Status,
			&emp.CreatedAt, &emp.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = $1", id).
		Scan(&emp.ID, &emp.UserID, &emp.Name, &emp.Email, &emp.Registry,
			&emp.Position, &emp.Department, &emp.Salary, &emp.HiredAt, &emp.Status,
			&emp.CreatedAt, &emp.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp *Employee) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, registry, position, department, salary, hired_at, status)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING id, created_at, updated_at
  `, emp.Name, emp.Email, emp.Registry, emp.Position, emp.Department, emp.Salary, emp.HiredAt, emp.Status).
		Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
}

func (s *Store) UpdateEmployee(ctx context.Context, emp *Employee) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $2, email = $3, registry = $4, position = $5, department = $6,
        salary = $7, status = $8, updated_at = now()
    WHERE id = $1
  `, emp.ID, emp.Name, emp.Email, emp.Registry, emp.Position, emp.Department, emp.Salary, emp.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const vacationColumns = `
  v.id, v.employee_id, e.name, v.start_date, v.end_date, v.days, v.status,
  COALESCE(v.decided_by::text, ''), v.decided_at, v.created_at
`

func (s *Store) ListVacations(ctx context.Context) ([]VacationRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+vacationColumns+`
    FROM vacation_requests v
    JOIN employees e ON e.id = v.employee_id
    ORDER BY v.created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVacations(rows)
}

func (s *Store) ListVacationsByEmployee(ctx context.Context, employeeID string) ([]VacationRequest, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+vacationColumns+`
    FROM vacation_requests v
    JOIN employees e ON e.id = v.employee_id
    WHERE v.employee_id = $1
    ORDER BY v.created_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVacations(rows)
}

func scanVacations(rows pgx.Rows) ([]VacationRequest, error) {
	var out []VacationRequest
	for rows.Next() {
		var req VacationRequest
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.Employee, &req.StartDate, &req.EndDate,
			&req.Days, &req.Status, &req.DecidedBy, &req.DecidedAt, &req.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

func (s *Store) GetVacation(ctx context.Context, id string) (*VacationRequest, error) {
	var req VacationRequest
	err := s.DB.QueryRow(ctx, `
    SELECT `+vacationColumns+`
    FROM vacation_requests v
    JOIN employees e ON e.id = v.employee_id
    WHERE v.id = $1
  `, id).Scan(&req.ID, &req.EmployeeID, &req.Employee, &req.StartDate, &req.EndDate,
		&req.Days, &req.Status, &req.DecidedBy, &req.DecidedAt, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Store) CreateVacation(ctx context.Context, req *VacationRequest) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO vacation_requests (employee_id, start_date, end_date, days, status)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, created_at
  `, req.EmployeeID, req.StartDate, req.EndDate, req.Days, req.Status).
		Scan(&req.ID, &req.CreatedAt)
}

func (s *Store) UpdateVacationDecision(ctx context.Context, req *VacationRequest) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE vacation_requests
    SET status = $2, decided_by = $3, decided_at = $4
    WHERE id = $1
  `, req.ID, req.Status, req.DecidedBy, req.DecidedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UsedVacationDays sums approved days in the given year.
func (s *Store) UsedVacationDays(ctx context.Context, employeeID string, year int) (int, error) {
	var used int
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(days), 0)
    FROM vacation_requests
    WHERE employee_id = $1 AND status = 'approved' AND EXTRACT(YEAR FROM start_date) = $2
  `, employeeID, year).Scan(&used)
	return used, err
}

func (s *Store) ListPayslips(ctx context.Context) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.employee_id, e.name, p.reference, p.gross, p.deductions, p.net, p.issued_at
    FROM payslips p
    JOIN employees e ON e.id = p.employee_id
    ORDER BY p.issued_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Payslip
	for rows.Next() {
		var slip Payslip
		if err := rows.Scan(&slip.ID, &slip.EmployeeID, &slip.Employee, &slip.Reference,
			&slip.Gross, &slip.Deductions, &slip.Net, &slip.IssuedAt); err != nil {
			return nil, err
		}
		out = append(out, slip)
	}
	return out, rows.Err()
}

func (s *Store) CreatePayslip(ctx context.Context, slip *Payslip) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO payslips (employee_id, reference, gross, deductions, net)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING id, issued_at
  `, slip.EmployeeID, slip.Reference, slip.Gross, slip.Deductions, slip.Net).
		Scan(&slip.ID, &slip.IssuedAt)
}
