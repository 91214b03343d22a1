package repository

import (
	"context"
	"database/sql"
)

// RunRepo handles reconciliation run records.
type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{db: db} }

func (r *RunRepo) Insert(ctx context.Context, run ReconciliationRun) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO reconciliation_runs(id, started_at, passes, transfer_pairs, return_pairs, log)
	VALUES (?, ?, ?, ?, ?, ?);
	`, run.ID, run.StartedAt.UTC(), run.Passes, run.TransferPairs, run.ReturnPairs, run.Log)
	return err
}

// List returns runs, most recent first.
func (r *RunRepo) List(ctx context.Context) ([]ReconciliationRun, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, started_at, passes, transfer_pairs, return_pairs, log
	FROM reconciliation_runs ORDER BY started_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ReconciliationRun
	for rows.Next() {
		var run ReconciliationRun
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.Passes, &run.TransferPairs, &run.ReturnPairs, &run.Log); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *RunRepo) Get(ctx context.Context, id string) (*ReconciliationRun, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, started_at, passes, transfer_pairs, return_pairs, log
	FROM reconciliation_runs WHERE id = ?`, id)
	var run ReconciliationRun
	if err := row.Scan(&run.ID, &run.StartedAt, &run.Passes, &run.TransferPairs, &run.ReturnPairs, &run.Log); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}
