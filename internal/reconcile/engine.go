// Package reconcile discovers and flags transaction pairs that are not real
// spending: internal transfers between the owner's accounts, and same-account
// purchase/return pairs. Flagged transactions keep their data; only the
// transfer flag is mutated, and only ever from false to true.
//
// Transfers are found without any cross-account identifier. The engine runs
// repeated passes, each in two phases: phase 1 learns which description pairs
// link which accounts by voting on unambiguous matches, phase 2 confirms pairs
// whose descriptions fuzzy-match a learned pattern. Passes repeat until one
// confirms nothing. The learned table and the flagged set both only grow and
// are bounded by the input, so the loop always terminates.
package reconcile

import (
	"fmt"

	"github.com/jask/ledgersift/internal/ledger"
)

// Options tune the engine. Zero values fall back to the defaults used by the
// original matching semantics.
type Options struct {
	SimilarityThreshold float64 // description equality cutoff, default 0.90
	WindowDays          int     // max calendar-day distance for a counter, default 7
}

// Engine reconciles one book. It owns every transfer flag in the book for the
// duration of Run; no other component may write them.
type Engine struct {
	book       *ledger.Book
	confidence *confidenceTable
	windowDays int
	threshold  float64

	log    []string
	passes int
}

// New builds an engine over the book.
func New(book *ledger.Book, opts Options) *Engine {
	if opts.SimilarityThreshold == 0 {
		opts.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if opts.WindowDays == 0 {
		opts.WindowDays = 7
	}
	return &Engine{
		book:       book,
		confidence: newConfidenceTable(opts.SimilarityThreshold),
		windowDays: opts.WindowDays,
		threshold:  opts.SimilarityThreshold,
	}
}

// Result summarizes a reconciliation run.
type Result struct {
	ReturnPairs   int
	TransferPairs int
	Passes        int
	Log           []string
}

// Run flags returns first, then transfers, and reports what was found.
// Running twice on the same book with flags reset in between produces the
// same flags and the same log.
func (e *Engine) Run() Result {
	returns := e.identifyReturns()
	transfers := e.identifyTransfers()
	return Result{
		ReturnPairs:   returns,
		TransferPairs: transfers,
		Passes:        e.passes,
		Log:           e.log,
	}
}

// identifyTransfers runs two-phase passes to a fixed point and returns the
// number of pairs confirmed.
func (e *Engine) identifyTransfers() int {
	total := 0
	for {
		e.learnPatterns()
		confirmed := e.confirmTransfers()
		if confirmed == 0 {
			return total
		}
		total += confirmed
		e.passes++
		e.logf("%d transfers identified in pass %d", confirmed, e.passes)
	}
}

// learnPatterns is phase 1: every unflagged transaction with exactly one
// counter candidate contributes a vote linking the two accounts by the pair's
// descriptions. Ambiguous transactions (zero or several candidates) teach
// nothing this pass.
func (e *Engine) learnPatterns() {
	e.book.Each(func(account *ledger.Account, txn *ledger.Transaction) {
		if txn.Transfer {
			return
		}
		candidates := e.counterCandidates(account, txn)
		if len(candidates) != 1 {
			return
		}
		counter := candidates[0]
		sendAcct, sendTxn, recvAcct, recvTxn := orient(account, txn, counter.account, counter.txn)
		e.confidence.recordVote(sendAcct, sendTxn, recvAcct, recvTxn)
	})
}

// confirmTransfers is phase 2: a pair is confirmed when the learned table
// holds a pattern for its (sender, receiver) accounts whose descriptions
// fuzzy-match both sides. Candidates are recomputed live, so confirmations
// earlier in the sweep shrink later candidate sets.
func (e *Engine) confirmTransfers() int {
	confirmed := 0
	e.book.Each(func(account *ledger.Account, txn *ledger.Transaction) {
		if txn.Transfer {
			return
		}
		for _, counter := range e.counterCandidates(account, txn) {
			if txn.Transfer || counter.txn.Transfer {
				continue
			}

			sendAcct, sendTxn, recvAcct, recvTxn := orient(account, txn, counter.account, counter.txn)
			best := e.confidence.best(sendAcct, recvAcct)
			if best == nil || best.confidence <= 0 {
				continue
			}
			if !descriptionsMatch(best.sending, sendTxn.Description, e.threshold) ||
				!descriptionsMatch(best.receiving, recvTxn.Description, e.threshold) {
				continue
			}

			txn.Transfer = true
			counter.txn.Transfer = true
			confirmed++
			e.logf("transaction of %s from %s to %s (%s) is transfer",
				ledger.FormatCents(sendTxn.AmountCents), sendAcct.Name, recvAcct.Name, sendTxn.Description)
			e.logf("transaction of %s from %s to %s (%s) is transfer",
				ledger.FormatCents(recvTxn.AmountCents), recvAcct.Name, sendAcct.Name, recvTxn.Description)
		}
	})
	return confirmed
}

// orient splits a matched pair into sender and receiver: the negative amount
// is the money leaving its account.
func orient(account *ledger.Account, txn *ledger.Transaction, counterAccount *ledger.Account, counterTxn *ledger.Transaction) (sendAcct *ledger.Account, sendTxn *ledger.Transaction, recvAcct *ledger.Account, recvTxn *ledger.Transaction) {
	if txn.AmountCents < 0 {
		return account, txn, counterAccount, counterTxn
	}
	return counterAccount, counterTxn, account, txn
}

func (e *Engine) logf(format string, args ...any) {
	e.log = append(e.log, fmt.Sprintf(format, args...))
}
