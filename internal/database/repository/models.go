package repository

import "time"

// Account represents an account row. Position records registration order,
// which reconciliation treats as the canonical account iteration order.
type Account struct {
	ID          string
	Name        string
	Institution string
	Kind        string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Transaction represents a transaction row. Idx is the stable per-account
// index; IsTransfer is owned by the reconcile engine.
type Transaction struct {
	ID          string
	AccountID   string
	Idx         int
	Date        time.Time
	AmountCents int64
	Description string
	IsTransfer  bool
	SourceHash  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tag represents a tag row.
type Tag struct {
	ID   string
	Name string
}

// ReconciliationRun records one engine run for audit: the pass count, how
// many pairs were flagged, and the full activity log as emitted.
type ReconciliationRun struct {
	ID            string
	StartedAt     time.Time
	Passes        int
	TransferPairs int
	ReturnPairs   int
	Log           string
}
