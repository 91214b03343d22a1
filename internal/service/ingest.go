package service

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/ledgersift/internal/config"
	"github.com/jask/ledgersift/internal/database/repository"
	"github.com/jask/ledgersift/internal/ledger"
)

// IngestService loads institution CSV exports into the store. Files are
// matched to configured accounts by name (sources/<account>.csv), normalized
// per the account's format spec, and deduplicated on a source hash so
// re-importing the same export is safe.
type IngestService struct {
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
	Formats      map[string]FormatSpec
}

// IngestResult reports one import.
type IngestResult struct {
	Imported int
	Skipped  int
	Errors   []error
}

// column selects a CSV field either by header name or by position.
type column struct {
	Name  string
	Index int
}

func byName(name string) column { return column{Name: name, Index: -1} }
func byIndex(i int) column      { return column{Index: i} }

// FormatSpec describes one institution's CSV shape. When Type is set, the
// amount's sign comes from that column: "Credit" arrives, anything else
// leaves.
type FormatSpec struct {
	HasHeader   bool
	Date        column
	Amount      column
	Description column
	Type        *column
	DateLayouts []string
}

// DefaultFormats covers the institution exports the original importers
// handled: header-name based, headerless positional, and credit/debit-typed.
func DefaultFormats() map[string]FormatSpec {
	usLayouts := []string{"01/02/2006", "1/2/2006", "2006-01-02"}
	typeCol := byName("Transaction Type")
	return map[string]FormatSpec{
		// Date, Amount, Description headers (SoFi-style bank export).
		"generic": {
			HasHeader:   true,
			Date:        byName("Date"),
			Amount:      byName("Amount"),
			Description: byName("Description"),
			DateLayouts: usLayouts,
		},
		// Transaction Date / Description / Amount headers (Chase card export).
		"chase": {
			HasHeader:   true,
			Date:        byName("Transaction Date"),
			Amount:      byName("Amount"),
			Description: byName("Description"),
			DateLayouts: usLayouts,
		},
		// Headerless: date, amount, _, _, description (Wells Fargo card export).
		"wellsfargo": {
			Date:        byIndex(0),
			Amount:      byIndex(1),
			Description: byIndex(4),
			DateLayouts: usLayouts,
		},
		// Amount column is unsigned; Transaction Type carries the direction
		// (Apple savings export).
		"apple": {
			HasHeader:   true,
			Date:        byName("Transaction Date"),
			Amount:      byName("Amount"),
			Description: byName("Description"),
			Type:        &typeCol,
			DateLayouts: usLayouts,
		},
	}
}

// ImportAll discovers <account>.csv files under sourcesPath for every
// configured account and imports them. Accounts keep their configured order
// as registration order.
func (s *IngestService) ImportAll(ctx context.Context, sourcesPath string, accounts []config.AccountConfig) (IngestResult, error) {
	csvs := map[string]string{}
	err := filepath.WalkDir(sourcesPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		csvs[strings.ToLower(name)] = path
		return nil
	})
	if err != nil {
		return IngestResult{}, fmt.Errorf("discover sources: %w", err)
	}

	total := IngestResult{}
	for pos, ac := range accounts {
		path, ok := csvs[strings.ToLower(ac.Name)]
		if !ok {
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			return total, fmt.Errorf("open %s: %w", path, err)
		}
		res, err := s.ImportAccount(ctx, f, ac, pos)
		f.Close()
		if err != nil {
			return total, err
		}
		total.Imported += res.Imported
		total.Skipped += res.Skipped
		total.Errors = append(total.Errors, res.Errors...)
	}
	return total, nil
}

// ImportAccount reads one account's CSV export. Malformed rows are collected
// as errors rather than aborting the file; rows whose amount cannot be
// represented exactly in cents (or is zero) are rejected here so the engine
// never sees them.
func (s *IngestService) ImportAccount(ctx context.Context, r io.Reader, ac config.AccountConfig, position int) (IngestResult, error) {
	res := IngestResult{}
	spec, ok := s.Formats[ac.Format]
	if !ok {
		return res, fmt.Errorf("account %s: unknown format %q", ac.Name, ac.Format)
	}

	acct, err := s.ensureAccount(ctx, ac, position)
	if err != nil {
		return res, err
	}
	nextIdx, err := s.Transactions.NextIndex(ctx, acct.ID)
	if err != nil {
		return res, err
	}

	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	header := map[string]int{}
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if line == 1 && spec.HasHeader {
			for i, h := range rec {
				header[strings.TrimSpace(h)] = i
			}
			continue
		}

		date, cents, desc, err := spec.parseRow(rec, header)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		inserted, err := s.insert(ctx, acct.ID, nextIdx, date, cents, desc)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d insert: %w", line, err))
			continue
		}
		if inserted {
			res.Imported++
			nextIdx++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}

// parseRow extracts and normalizes one record: calendar date at UTC midnight,
// exact cents, raw description.
func (spec FormatSpec) parseRow(rec []string, header map[string]int) (time.Time, int64, string, error) {
	dateStr, err := spec.Date.get(rec, header)
	if err != nil {
		return time.Time{}, 0, "", err
	}
	amountStr, err := spec.Amount.get(rec, header)
	if err != nil {
		return time.Time{}, 0, "", err
	}
	desc, err := spec.Description.get(rec, header)
	if err != nil {
		return time.Time{}, 0, "", err
	}
	date, err := parseDate(dateStr, spec.DateLayouts)
	if err != nil {
		return time.Time{}, 0, "", err
	}
	cents, err := ledger.ParseCents(strings.TrimSpace(amountStr))
	if err != nil {
		return time.Time{}, 0, "", err
	}
	if spec.Type != nil {
		typ, err := spec.Type.get(rec, header)
		if err != nil {
			return time.Time{}, 0, "", err
		}
		if !strings.EqualFold(strings.TrimSpace(typ), "Credit") {
			cents = -cents
		}
	}
	return date, cents, desc, nil
}

func (s *IngestService) insert(ctx context.Context, accountID string, idx int, date time.Time, cents int64, desc string) (bool, error) {
	hash := hashSource(accountID, date.Format(time.DateOnly), cents, desc)
	t := repository.Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Idx:         idx,
		Date:        date,
		AmountCents: cents,
		Description: desc,
		SourceHash:  &hash,
	}
	if err := s.Transactions.Insert(ctx, t); err != nil {
		// skip duplicates on unique constraint
		if strings.Contains(err.Error(), "UNIQUE") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *IngestService) ensureAccount(ctx context.Context, ac config.AccountConfig, position int) (*repository.Account, error) {
	existing, err := s.Accounts.ByName(ctx, ac.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	kind := string(ledger.KindGeneral)
	if ac.Type == "credit" {
		kind = string(ledger.KindCreditCard)
	}
	a := repository.Account{
		ID:       uuid.NewString(),
		Name:     ac.Name,
		Kind:     kind,
		Position: position,
	}
	if err := s.Accounts.Upsert(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c column) get(rec []string, header map[string]int) (string, error) {
	i := c.Index
	if c.Name != "" {
		var ok bool
		i, ok = header[c.Name]
		if !ok {
			return "", fmt.Errorf("missing column %q", c.Name)
		}
	}
	if i < 0 || i >= len(rec) {
		return "", fmt.Errorf("missing column %d", i)
	}
	return rec[i], nil
}

func parseDate(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if d, err := time.Parse(layout, s); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func hashSource(accountID, date string, cents int64, desc string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%s", accountID, date, cents, desc)))
	return hex.EncodeToString(h[:])
}
