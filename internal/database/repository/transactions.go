package repository

import (
	"context"
	"database/sql"
	"time"
)

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(id, account_id, idx, date, amount_cents, description, is_transfer, source_hash, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, t.ID, t.AccountID, t.Idx, t.Date.UTC(), t.AmountCents, t.Description, t.IsTransfer, t.SourceHash)
	return err
}

// ListByAccount returns the account's transactions in ascending index order,
// the canonical order for reconciliation.
func (r *TransactionRepo) ListByAccount(ctx context.Context, accountID string) ([]Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, account_id, idx, date, amount_cents, description, is_transfer, source_hash, created_at, updated_at
	FROM transactions WHERE account_id = ? ORDER BY idx`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// TransactionFilters narrows List results.
type TransactionFilters struct {
	IsTransfer *bool
	From       *time.Time
	To         *time.Time
}

// List returns all transactions, account order then index order.
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	q := `
	SELECT t.id, t.account_id, t.idx, t.date, t.amount_cents, t.description, t.is_transfer, t.source_hash, t.created_at, t.updated_at
	FROM transactions t
	JOIN accounts a ON a.id = t.account_id
	WHERE 1=1`
	var args []any
	if f.IsTransfer != nil {
		q += ` AND t.is_transfer = ?`
		args = append(args, *f.IsTransfer)
	}
	if f.From != nil {
		q += ` AND t.date >= ?`
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		q += ` AND t.date < ?`
		args = append(args, f.To.UTC())
	}
	q += ` ORDER BY a.position, t.idx`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// NextIndex returns the next free per-account index.
func (r *TransactionRepo) NextIndex(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
	SELECT COALESCE(MAX(idx)+1, 0) FROM transactions WHERE account_id = ?`, accountID).Scan(&n)
	return n, err
}

// SetTransfer updates a single transfer flag.
func (r *TransactionRepo) SetTransfer(ctx context.Context, id string, isTransfer bool) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE transactions SET is_transfer = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, isTransfer, id)
	return err
}

// ResetTransfers clears every transfer flag so reconciliation can re-run
// from scratch.
func (r *TransactionRepo) ResetTransfers(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE transactions SET is_transfer = 0, updated_at = CURRENT_TIMESTAMP WHERE is_transfer = 1`)
	return err
}

func scanTransactions(rows *sql.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Idx, &t.Date, &t.AmountCents, &t.Description, &t.IsTransfer, &t.SourceHash, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
