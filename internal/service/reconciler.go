package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/ledgersift/internal/database"
	"github.com/jask/ledgersift/internal/database/repository"
	"github.com/jask/ledgersift/internal/ledger"
	"github.com/jask/ledgersift/internal/reconcile"
)

// Reconciler loads the book from the store, runs the engine, and writes the
// resulting transfer flags and a run record back.
type Reconciler struct {
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
	Runs         *repository.RunRepo

	SimilarityThreshold float64
	DateWindowDays      int
}

// RunSummary reports one reconciliation.
type RunSummary struct {
	RunID         string
	Passes        int
	TransferPairs int
	ReturnPairs   int
	Flagged       int
	Log           []string
}

// Run reconciles everything in the store. Existing flags are cleared first:
// the engine is deterministic, so a re-run over unchanged data reproduces the
// same flags and log.
func (r *Reconciler) Run(ctx context.Context) (RunSummary, error) {
	if err := r.Transactions.ResetTransfers(ctx); err != nil {
		return RunSummary{}, fmt.Errorf("reset transfers: %w", err)
	}

	book, rowIDs, err := r.loadBook(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	engine := reconcile.New(book, reconcile.Options{
		SimilarityThreshold: r.SimilarityThreshold,
		WindowDays:          r.DateWindowDays,
	})
	result := engine.Run()

	summary := RunSummary{
		RunID:         uuid.NewString(),
		Passes:        result.Passes,
		TransferPairs: result.TransferPairs,
		ReturnPairs:   result.ReturnPairs,
		Log:           result.Log,
	}

	for _, a := range book.Accounts() {
		for _, t := range a.Transactions {
			if !t.Transfer {
				continue
			}
			id := rowIDs[a.Name][t.Index]
			if err := r.Transactions.SetTransfer(ctx, id, true); err != nil {
				return summary, fmt.Errorf("flag transaction %s: %w", id, err)
			}
			summary.Flagged++
		}
	}

	run := repository.ReconciliationRun{
		ID:            summary.RunID,
		StartedAt:     database.Now(),
		Passes:        result.Passes,
		TransferPairs: result.TransferPairs,
		ReturnPairs:   result.ReturnPairs,
		Log:           strings.Join(result.Log, "\n"),
	}
	if err := r.Runs.Insert(ctx, run); err != nil {
		return summary, fmt.Errorf("record run: %w", err)
	}
	return summary, nil
}

// loadBook builds the in-memory book in canonical order: accounts by
// registration position, transactions by ascending index. It also returns the
// row IDs keyed by account name and index so flags can be written back.
func (r *Reconciler) loadBook(ctx context.Context) (*ledger.Book, map[string]map[int]string, error) {
	accounts, err := r.Accounts.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list accounts: %w", err)
	}

	book, _ := ledger.NewBook()
	rowIDs := map[string]map[int]string{}
	for _, a := range accounts {
		kind := ledger.KindGeneral
		if a.Kind == string(ledger.KindCreditCard) {
			kind = ledger.KindCreditCard
		}
		acct := ledger.NewAccount(a.Name, kind)
		if err := book.AddAccount(acct); err != nil {
			return nil, nil, err
		}

		txs, err := r.Transactions.ListByAccount(ctx, a.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("list transactions for %s: %w", a.Name, err)
		}
		ids := make(map[int]string, len(txs))
		for _, row := range txs {
			t := acct.Append(ledger.Transaction{
				Date:        row.Date,
				AmountCents: row.AmountCents,
				Description: row.Description,
			})
			ids[t.Index] = row.ID
		}
		rowIDs[a.Name] = ids
	}
	return book, rowIDs, nil
}
