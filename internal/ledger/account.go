package ledger

// Kind classifies an account. Credit cards carry extra sign constraints during
// transfer matching: a card can only send a transfer via a positive amount, and
// card-to-card transfers are never matched.
type Kind string

const (
	KindGeneral    Kind = "general"
	KindCreditCard Kind = "credit"
)

// Account owns an ordered collection of transactions. Names are unique
// case-insensitively within a Book. Transactions are kept in ascending index
// order; indexes are assigned at append time and are stable for the life of
// the account.
type Account struct {
	Name         string
	Kind         Kind
	Transactions []*Transaction
}

// NewAccount returns an empty account.
func NewAccount(name string, kind Kind) *Account {
	return &Account{Name: name, Kind: kind}
}

// IsCreditCard reports whether the account is a credit card.
func (a *Account) IsCreditCard() bool { return a.Kind == KindCreditCard }

// Append adds a transaction at the next index and returns it.
func (a *Account) Append(t Transaction) *Transaction {
	t.Index = len(a.Transactions)
	tx := &t
	a.Transactions = append(a.Transactions, tx)
	return tx
}

// ByIndex returns the transaction with the given index, or nil.
func (a *Account) ByIndex(index int) *Transaction {
	if index < 0 || index >= len(a.Transactions) {
		return nil
	}
	return a.Transactions[index]
}
