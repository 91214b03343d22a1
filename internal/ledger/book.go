package ledger

import (
	"fmt"
	"strings"
)

// Book holds all accounts for one reconciliation run. Accounts stay in
// registration order, and Each visits transactions in that order then by
// ascending index. That order is part of the observable behavior: the engine
// mutates transfer flags mid-sweep, so reordering input changes output.
type Book struct {
	accounts []*Account
	byName   map[string]*Account
}

// NewBook builds a book from accounts in registration order. Account names
// must be unique case-insensitively.
func NewBook(accounts ...*Account) (*Book, error) {
	b := &Book{byName: make(map[string]*Account, len(accounts))}
	for _, a := range accounts {
		if err := b.AddAccount(a); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// AddAccount registers an account at the end of the iteration order.
func (b *Book) AddAccount(a *Account) error {
	key := strings.ToLower(a.Name)
	if _, ok := b.byName[key]; ok {
		return fmt.Errorf("duplicate account name %q", a.Name)
	}
	b.byName[key] = a
	b.accounts = append(b.accounts, a)
	return nil
}

// Accounts returns accounts in registration order.
func (b *Book) Accounts() []*Account { return b.accounts }

// Account looks up an account by case-insensitive name, or nil.
func (b *Book) Account(name string) *Account {
	return b.byName[strings.ToLower(name)]
}

// Each visits every (account, transaction) pair in canonical order.
// Visiting observes live state: flags set by earlier visits are seen by
// later ones.
func (b *Book) Each(fn func(a *Account, t *Transaction)) {
	for _, a := range b.accounts {
		for _, t := range a.Transactions {
			fn(a, t)
		}
	}
}

// Filter returns all transactions satisfying every predicate, in canonical
// order.
func (b *Book) Filter(preds ...func(t *Transaction) bool) []*Transaction {
	var out []*Transaction
	b.Each(func(_ *Account, t *Transaction) {
		for _, p := range preds {
			if !p(t) {
				return
			}
		}
		out = append(out, t)
	})
	return out
}

// ResetTransfers clears every transfer flag, for re-running reconciliation
// from scratch.
func (b *Book) ResetTransfers() {
	b.Each(func(_ *Account, t *Transaction) { t.Transfer = false })
}
