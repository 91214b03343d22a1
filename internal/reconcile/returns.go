package reconcile

import (
	"strings"

	"github.com/jask/ledgersift/internal/ledger"
)

// identifyReturns flags purchase/return pairs inside each account in one
// sweep. A return candidate is money arriving (or money leaving a credit
// card) whose description mentions "return"; its counter is the first earlier
// or same-day transaction in the same account with the exact opposite amount.
// First match wins; pairs consumed earlier in the sweep are excluded from
// later searches because flags are observed live.
func (e *Engine) identifyReturns() int {
	found := 0
	e.book.Each(func(account *ledger.Account, txn *ledger.Transaction) {
		if txn.Transfer || !isReturnCandidate(account, txn) {
			return
		}

		original := findCounterReturn(account, txn)
		if original == nil {
			return
		}

		txn.Transfer = true
		original.Transfer = true
		found++
		e.logf("transaction of %s from %s (%s) is return",
			ledger.FormatCents(txn.AmountCents), account.Name, txn.Description)
		e.logf("transaction of %s from %s (%s) is returned",
			ledger.FormatCents(original.AmountCents), account.Name, original.Description)
	})
	return found
}

func isReturnCandidate(account *ledger.Account, txn *ledger.Transaction) bool {
	if !strings.Contains(strings.ToLower(txn.Description), "return") {
		return false
	}
	return txn.AmountCents > 0 || (txn.AmountCents < 0 && account.IsCreditCard())
}

// findCounterReturn scans the account in storage order for the purchase a
// return reverses: unflagged, exact opposite amount, dated no later than the
// return.
func findCounterReturn(account *ledger.Account, ret *ledger.Transaction) *ledger.Transaction {
	for _, t := range account.Transactions {
		if t.Transfer {
			continue
		}
		if t.AmountCents != -ret.AmountCents {
			continue
		}
		if t.Date.After(ret.Date) {
			continue
		}
		return t
	}
	return nil
}
