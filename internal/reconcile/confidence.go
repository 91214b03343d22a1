package reconcile

import (
	"fmt"

	"github.com/jask/ledgersift/internal/ledger"
)

// descriptionPair is one learned transfer pattern between two accounts: the
// sending and receiving descriptions as first observed, a vote count, and the
// key of the source transaction that last voted for it. The key stops a single
// transaction from corroborating the same pattern twice across passes.
type descriptionPair struct {
	sending    string
	receiving  string
	confidence int
	seenKey    string
}

type accountLink struct {
	sending   string
	receiving string
}

// confidenceTable maps (sending account, receiving account) to the description
// pairs observed between them. Entries accrete for the whole run: they are
// never removed and counts never decrease.
type confidenceTable struct {
	links     map[accountLink][]*descriptionPair
	threshold float64
}

func newConfidenceTable(threshold float64) *confidenceTable {
	return &confidenceTable{
		links:     map[accountLink][]*descriptionPair{},
		threshold: threshold,
	}
}

func voteKey(account *ledger.Account, t *ledger.Transaction) string {
	return fmt.Sprintf("%s.%d", account.Name, t.Index)
}

// recordVote registers an unambiguous observation of a transfer from sending
// to receiving. A fuzzy-equal existing pair gains a vote if a distinct source
// transaction contributed it; otherwise a fresh pair starts at confidence 1.
func (ct *confidenceTable) recordVote(sending *ledger.Account, sendingTxn *ledger.Transaction, receiving *ledger.Account, receivingTxn *ledger.Transaction) {
	link := accountLink{sending: sending.Name, receiving: receiving.Name}
	key := voteKey(sending, sendingTxn)

	for _, dp := range ct.links[link] {
		if !descriptionsMatch(dp.sending, sendingTxn.Description, ct.threshold) ||
			!descriptionsMatch(dp.receiving, receivingTxn.Description, ct.threshold) {
			continue
		}
		if dp.seenKey != key {
			dp.confidence++
			dp.seenKey = key
		}
		return
	}

	ct.links[link] = append(ct.links[link], &descriptionPair{
		sending:    sendingTxn.Description,
		receiving:  receivingTxn.Description,
		confidence: 1,
		seenKey:    key,
	})
}

// best returns the highest-confidence pair for the link, or nil if none is
// recorded. Ties resolve to the pair that entered the list first.
func (ct *confidenceTable) best(sending, receiving *ledger.Account) *descriptionPair {
	var max *descriptionPair
	for _, dp := range ct.links[accountLink{sending: sending.Name, receiving: receiving.Name}] {
		if max == nil || dp.confidence > max.confidence {
			max = dp
		}
	}
	return max
}
