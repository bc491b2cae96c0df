package licitacao

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

const processColumns = `
  id, number, object, COALESCE(modality, ''), budget, status, opening_date, created_at, updated_at
`

func (s *Store) ListProcesses(ctx context.Context) ([]Process, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+processColumns+" FROM procurement_processes ORDER BY opening_date DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Process
	for rows.Next() {
		var proc Process
		if err := rows.Scan(&proc.ID, &proc.Number, &proc.Object, &proc.Modality, &proc.Budget,
			&proc.Status, &proc.OpeningDate, &proc.CreatedAt, &proc.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, proc)
	}
	return out, rows.Err()
}

func (s *Store) GetProcess(ctx context.Context, id string) (*Process, error) {
	var proc Process
	err := s.DB.QueryRow(ctx, "SELECT "+processColumns+" FROM procurement_processes WHERE id = $1", id).
		Scan(&proc.ID, &proc.Number, &proc.Object, &proc.Modality, &proc.Budget,
			&proc.Status, &proc.OpeningDate, &proc.CreatedAt, &proc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &proc, nil
}

func (s *Store) CreateProcess(ctx context.Context, proc *Process) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO procurement_processes (number, object, modality, budget, status, opening_date)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, created_at, updated_at
  `, proc.Number, proc.Object, proc.Modality, proc.Budget, proc.Status, proc.OpeningDate).
		Scan(&proc.ID, &proc.CreatedAt, &proc.UpdatedAt)
}

func (s *Store) UpdateProcessStatus(ctx context.Context, id string, status ProcessStatus) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE procurement_processes SET status = $2, updated_at = now() WHERE id = $1
  `, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListProposals(ctx context.Context, processID string) ([]Proposal, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, process_id, supplier, document, amount, winner, created_at
    FROM proposals
    WHERE process_id = $1
    ORDER BY created_at
  `, processID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Proposal
	for rows.Next() {
		var prop Proposal
		if err := rows.Scan(&prop.ID, &prop.ProcessID, &prop.Supplier, &prop.Document,
			&prop.Amount, &prop.Winner, &prop.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, prop)
	}
	return out, rows.Err()
}

func (s *Store) CreateProposal(ctx context.Context, prop *Proposal) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO proposals (process_id, supplier, document, amount)
    VALUES ($1, $2, $3, $4)
    RETURNING id, created_at
  `, prop.ProcessID, prop.Supplier, prop.Document, prop.Amount).Scan(&prop.ID, &prop.CreatedAt)
}

// MarkWinner flags one proposal as the winner and clears any previous
// flag within the same process.
func (s *Store) MarkWinner(ctx context.Context, processID, proposalID string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "UPDATE proposals SET winner = false WHERE process_id = $1", processID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, "UPDATE proposals SET winner = true WHERE id = $1 AND process_id = $2", proposalID, processID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}

func (s *Store) ListContracts(ctx context.Context) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, process_id, proposal_id, supplier, amount, start_date, end_date, created_at
    FROM contracts
    ORDER BY start_date DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var c Contract
		if err := rows.Scan(&c.ID, &c.ProcessID, &c.ProposalID, &c.Supplier, &c.Amount,
			&c.StartDate, &c.EndDate, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateContract(ctx context.Context, c *Contract) error {
	return s.DB.QueryRow(ctx, `
    INSERT INTO contracts (process_id, proposal_id, supplier, amount, start_date, end_date)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, created_at
  `, c.ProcessID, c.ProposalID, c.Supplier, c.Amount, c.StartDate, c.EndDate).Scan(&c.ID, &c.CreatedAt)
}
