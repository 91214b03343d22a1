package testdata

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jask/ledgersift/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Accounts     *repository.AccountRepo
	Transactions *repository.TransactionRepo
}

// Seed creates a deterministic sample dataset: a checking account, a savings
// account and a credit card, with ordinary spending plus transfer and return
// pairs for the reconcile engine to find.
func Seed(ctx context.Context, repos Repos) error {
	day := func(d int) time.Time {
		return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
	}

	checking := repository.Account{ID: uuid.NewString(), Name: "Sample Checking", Institution: "Sample Bank", Kind: "general", Position: 0}
	savings := repository.Account{ID: uuid.NewString(), Name: "Sample Savings", Institution: "Sample Bank", Kind: "general", Position: 1}
	card := repository.Account{ID: uuid.NewString(), Name: "Sample Card", Institution: "Sample Cards", Kind: "credit", Position: 2}
	for _, a := range []repository.Account{checking, savings, card} {
		if err := repos.Accounts.Upsert(ctx, a); err != nil {
			return err
		}
	}

	type row struct {
		account string
		date    time.Time
		cents   int64
		desc    string
	}
	rows := []row{
		{checking.ID, day(1), 450000, "SALARY ACME PTY LTD"},
		{checking.ID, day(2), -12050, "WOOLWORTHS METRO"},
		// transfer pair: checking -> savings, twice so a pattern accrues
		{checking.ID, day(3), -50000, "Transfer to Savings"},
		{savings.ID, day(3), 50000, "Transfer from Checking"},
		{checking.ID, day(17), -50000, "Transfer to Savings"},
		{savings.ID, day(17), 50000, "Transfer from Checking"},
		// card payment: checking -> card (card side positive)
		{checking.ID, day(10), -30000, "PAYMENT TO SAMPLE CARD"},
		{card.ID, day(11), 30000, "PAYMENT RECEIVED THANK YOU"},
		// return pair inside the card account
		{card.ID, day(5), -8999, "KOGAN.COM ORDER 1234"},
		{card.ID, day(9), 8999, "KOGAN.COM return ORDER 1234"},
		// unmatched spending
		{card.ID, day(6), -2350, "UBER EATS* SUSHI"},
		{savings.ID, day(20), 1517, "INTEREST PAYMENT"},
	}

	idx := map[string]int{}
	for _, r := range rows {
		tx := repository.Transaction{
			ID:          uuid.NewString(),
			AccountID:   r.account,
			Idx:         idx[r.account],
			Date:        r.date,
			AmountCents: r.cents,
			Description: r.desc,
		}
		if err := repos.Transactions.Insert(ctx, tx); err != nil {
			return err
		}
		idx[r.account]++
	}
	return nil
}
