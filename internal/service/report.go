package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jask/ledgersift/internal/database/repository"
	"github.com/jask/ledgersift/internal/ledger"
)

// Reporter summarizes spending with reconciled pairs excluded and exports
// transactions to CSV.
type Reporter struct {
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
}

// Totals holds cents sums over non-transfer transactions.
type Totals struct {
	SpentCents      int64
	IncomeCents     int64
	Transactions    int
	ReconciledPairs int // flagged transactions / 2, transfers and returns both
}

// Totals computes spend and income across all accounts, excluding every
// transaction the engine flagged.
func (s *Reporter) Totals(ctx context.Context) (Totals, error) {
	txs, err := s.Transactions.List(ctx, repository.TransactionFilters{})
	if err != nil {
		return Totals{}, fmt.Errorf("list transactions: %w", err)
	}
	var t Totals
	flagged := 0
	for _, tx := range txs {
		if tx.IsTransfer {
			flagged++
			continue
		}
		t.Transactions++
		if tx.AmountCents < 0 {
			t.SpentCents += -tx.AmountCents
		} else {
			t.IncomeCents += tx.AmountCents
		}
	}
	t.ReconciledPairs = flagged / 2
	return t, nil
}

// WriteCSV exports non-transfer transactions under dir: one file with
// everything plus one file per month (MMYY.csv), mirroring the original
// report layout.
func (s *Reporter) WriteCSV(ctx context.Context, dir string) error {
	noTransfers := false
	txs, err := s.Transactions.List(ctx, repository.TransactionFilters{IsTransfer: &noTransfers})
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	accounts, err := s.Accounts.List(ctx)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir report dir: %w", err)
	}
	if err := writeTransactionsCSV(filepath.Join(dir, "transactions.csv"), txs, names); err != nil {
		return err
	}

	byMonth := map[string][]repository.Transaction{}
	for _, tx := range txs {
		key := tx.Date.Format("0106")
		byMonth[key] = append(byMonth[key], tx)
	}
	for month, group := range byMonth {
		if err := writeTransactionsCSV(filepath.Join(dir, month+".csv"), group, names); err != nil {
			return err
		}
	}
	return nil
}

func writeTransactionsCSV(path string, txs []repository.Transaction, accountNames map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "account", "amount", "description"}); err != nil {
		return err
	}
	for _, tx := range txs {
		rec := []string{
			tx.Date.Format(time.DateOnly),
			accountNames[tx.AccountID],
			ledger.FormatCents(tx.AmountCents),
			tx.Description,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
