package ledger

import (
	"sort"
	"time"
)

// Transaction is a single normalized bank or card transaction. AmountCents is
// negative for money leaving the account and positive for money arriving.
// Transfer starts false and is mutated only by the reconcile engine.
type Transaction struct {
	Index       int
	Date        time.Time
	AmountCents int64
	Description string
	Transfer    bool

	tags map[string]struct{}
}

// AddTag adds a tag to the transaction's tag set.
func (t *Transaction) AddTag(tag string) {
	if t.tags == nil {
		t.tags = map[string]struct{}{}
	}
	t.tags[tag] = struct{}{}
}

// RemoveTag removes a tag if present.
func (t *Transaction) RemoveTag(tag string) {
	delete(t.tags, tag)
}

// HasTag reports whether the transaction carries the tag.
func (t *Transaction) HasTag(tag string) bool {
	_, ok := t.tags[tag]
	return ok
}

// Tags returns the tag set in sorted order.
func (t *Transaction) Tags() []string {
	out := make([]string, 0, len(t.tags))
	for tag := range t.tags {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
