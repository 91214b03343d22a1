package reconcile

import (
	"time"

	"github.com/jask/ledgersift/internal/ledger"
)

// candidate is a transaction that mechanically qualifies as the counter side
// of a transfer, before any confidence check.
type candidate struct {
	account *ledger.Account
	txn     *ledger.Transaction
}

// counterCandidates enumerates every transaction in the book that could be the
// other side of a transfer for txn: a different account, not yet flagged, the
// exact opposite amount in cents, within the date window, and satisfying the
// credit-card sign rules. Pure read; results follow canonical book order.
func (e *Engine) counterCandidates(account *ledger.Account, txn *ledger.Transaction) []candidate {
	var out []candidate
	e.book.Each(func(a *ledger.Account, t *ledger.Transaction) {
		if t.Transfer || a == account {
			return
		}
		if t.AmountCents != -txn.AmountCents {
			return
		}
		if daysBetween(t.Date, txn.Date) > e.windowDays {
			return
		}
		// A card only sends a transfer by reducing its balance, so a card
		// side must carry a positive amount, and two cards never pair.
		if account.IsCreditCard() && a.IsCreditCard() {
			return
		}
		if account.IsCreditCard() && txn.AmountCents <= 0 {
			return
		}
		if a.IsCreditCard() && t.AmountCents <= 0 {
			return
		}
		out = append(out, candidate{account: a, txn: t})
	})
	return out
}

// daysBetween returns the absolute whole-day distance between two calendar
// dates.
func daysBetween(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
