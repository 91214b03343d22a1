package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/ledgersift/internal/ledger"
)

func day(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

func add(a *ledger.Account, d int, cents int64, desc string) *ledger.Transaction {
	return a.Append(ledger.Transaction{Date: day(d), AmountCents: cents, Description: desc})
}

func book(t *testing.T, accounts ...*ledger.Account) *ledger.Book {
	t.Helper()
	b, err := ledger.NewBook(accounts...)
	require.NoError(t, err)
	return b
}

func flagged(b *ledger.Book) map[string]bool {
	out := map[string]bool{}
	b.Each(func(a *ledger.Account, tx *ledger.Transaction) {
		if tx.Transfer {
			out[voteKey(a, tx)] = true
		}
	})
	return out
}

func TestSimpleTransferPair(t *testing.T) {
	t.Parallel()

	a := ledger.NewAccount("A", ledger.KindGeneral)
	b := ledger.NewAccount("B", ledger.KindGeneral)
	out := add(a, 1, -5000, "Transfer to B")
	in := add(b, 1, 5000, "Transfer from A")

	result := New(book(t, a, b), Options{}).Run()

	require.True(t, out.Transfer)
	require.True(t, in.Transfer)
	require.Equal(t, 1, result.TransferPairs)
	require.Equal(t, 1, result.Passes)
	require.Equal(t, []string{
		"transaction of -$50.00 from A to B (Transfer to B) is transfer",
		"transaction of $50.00 from B to A (Transfer from A) is transfer",
		"1 transfers identified in pass 1",
	}, result.Log)
	require.Equal(t, int64(0), out.AmountCents+in.AmountCents)
}

func TestFullyAmbiguousPairsStayUntagged(t *testing.T) {
	t.Parallel()

	// Two opposite-amount pairs on the same day with nothing to
	// disambiguate them: every candidate search finds two counters, so no
	// votes accrue and nothing can be confirmed.
	a := ledger.NewAccount("A", ledger.KindGeneral)
	b := ledger.NewAccount("B", ledger.KindGeneral)
	c := ledger.NewAccount("C", ledger.KindGeneral)
	d := ledger.NewAccount("D", ledger.KindGeneral)
	add(a, 1, -5000, "first out")
	add(b, 1, 5000, "first in")
	add(c, 1, -5000, "second out")
	add(d, 1, 5000, "second in")

	result := New(book(t, a, b, c, d), Options{}).Run()

	require.Zero(t, result.TransferPairs)
	require.Zero(t, result.Passes)
	require.Empty(t, result.Log)
}

func TestMultiPassResolution(t *testing.T) {
	t.Parallel()

	// Pass 1: the (D -> C) pattern is learned from the isolated day-20
	// pair and both day-1 and day-20 D/C pairs are confirmed. Pass 2: with
	// the decoy flagged, A's transaction finally has a sole counter, a
	// vote accrues, and the A/B pair is confirmed.
	a := ledger.NewAccount("A", ledger.KindGeneral)
	b := ledger.NewAccount("B", ledger.KindGeneral)
	c := ledger.NewAccount("C", ledger.KindGeneral)
	d := ledger.NewAccount("D", ledger.KindGeneral)
	payOut := add(a, 1, -5000, "pay out")
	payIn := add(b, 1, 5000, "pay in")
	add(c, 1, 5000, "other in")
	add(d, 1, -5000, "other out")
	add(c, 20, 5000, "other in")
	add(d, 20, -5000, "other out")

	result := New(book(t, a, b, c, d), Options{}).Run()

	require.Equal(t, 3, result.TransferPairs)
	require.Equal(t, 2, result.Passes)
	require.True(t, payOut.Transfer)
	require.True(t, payIn.Transfer)
	require.Contains(t, result.Log, "2 transfers identified in pass 1")
	require.Contains(t, result.Log, "1 transfers identified in pass 2")
}

func TestUnmatchedTransactionStaysUntagged(t *testing.T) {
	t.Parallel()

	a := ledger.NewAccount("A", ledger.KindGeneral)
	b := ledger.NewAccount("B", ledger.KindGeneral)
	lone := add(a, 1, -7777, "one of a kind")
	add(b, 1, 5000, "unrelated")

	result := New(book(t, a, b), Options{}).Run()

	require.False(t, lone.Transfer)
	require.Zero(t, result.TransferPairs)
	require.Zero(t, result.Passes)
}

func TestDateWindow(t *testing.T) {
	t.Parallel()

	a := ledger.NewAccount("A", ledger.KindGeneral)
	b := ledger.NewAccount("B", ledger.KindGeneral)
	add(a, 1, -5000, "move out")
	late := add(b, 9, 5000, "move in") // 8 days: outside the window

	result := New(book(t, a, b), Options{}).Run()
	require.Zero(t, result.TransferPairs)
	require.False(t, late.Transfer)

	// 7 days apart is still inside the window.
	a2 := ledger.NewAccount("A", ledger.KindGeneral)
	b2 := ledger.NewAccount("B", ledger.KindGeneral)
	add(a2, 1, -5000, "move out")
	add(b2, 8, 5000, "move in")

	result = New(book(t, a2, b2), Options{}).Run()
	require.Equal(t, 1, result.TransferPairs)
}

func TestExactAmountRequired(t *testing.T) {
	t.Parallel()

	a := ledger.NewAccount("A", ledger.KindGeneral)
	b := ledger.NewAccount("B", ledger.KindGeneral)
	add(a, 1, -5000, "move out")
	add(b, 1, 5001, "move in")

	result := New(book(t, a, b), Options{}).Run()
	require.Zero(t, result.TransferPairs)
}

func TestCreditCardRules(t *testing.T) {
	t.Parallel()

	t.Run("card to card never matches", func(t *testing.T) {
		t.Parallel()
		a := ledger.NewAccount("Card A", ledger.KindCreditCard)
		b := ledger.NewAccount("Card B", ledger.KindCreditCard)
		add(a, 1, -5000, "balance shuffle")
		add(b, 1, 5000, "balance shuffle")

		result := New(book(t, a, b), Options{}).Run()
		require.Zero(t, result.TransferPairs)
	})

	t.Run("card side must be positive", func(t *testing.T) {
		t.Parallel()
		checking := ledger.NewAccount("Checking", ledger.KindGeneral)
		card := ledger.NewAccount("Card", ledger.KindCreditCard)
		add(checking, 1, 5000, "cash advance in")
		add(card, 1, -5000, "cash advance out")

		result := New(book(t, checking, card), Options{}).Run()
		require.Zero(t, result.TransferPairs)
	})

	t.Run("card payment matches", func(t *testing.T) {
		t.Parallel()
		checking := ledger.NewAccount("Checking", ledger.KindGeneral)
		card := ledger.NewAccount("Card", ledger.KindCreditCard)
		pay := add(checking, 1, -30000, "PAYMENT TO CARD")
		recv := add(card, 2, 30000, "PAYMENT RECEIVED THANK YOU")

		result := New(book(t, checking, card), Options{}).Run()
		require.Equal(t, 1, result.TransferPairs)
		require.True(t, pay.Transfer)
		require.True(t, recv.Transfer)
	})
}

func TestNoSelfAccountTransfers(t *testing.T) {
	t.Parallel()

	a := ledger.NewAccount("A", ledger.KindGeneral)
	add(a, 1, -5000, "out")
	add(a, 1, 5000, "in")

	result := New(book(t, a), Options{}).Run()
	require.Zero(t, result.TransferPairs)
}

func TestIdempotentAcrossRuns(t *testing.T) {
	t.Parallel()

	a := ledger.NewAccount("Checking", ledger.KindGeneral)
	b := ledger.NewAccount("Savings", ledger.KindGeneral)
	card := ledger.NewAccount("Card", ledger.KindCreditCard)
	add(a, 1, -5000, "Transfer to Savings")
	add(b, 1, 5000, "Transfer from Checking")
	add(a, 15, -5000, "Transfer to Savings")
	add(b, 15, 5000, "Transfer from Checking")
	add(a, 3, -30000, "PAYMENT TO CARD")
	add(card, 4, 30000, "PAYMENT RECEIVED")
	add(card, 5, -8999, "SHOP ORDER")
	add(card, 9, 8999, "SHOP return ORDER")
	add(a, 2, -12050, "GROCERIES")
	bk := book(t, a, b, card)

	first := New(bk, Options{}).Run()
	firstFlags := flagged(bk)
	require.NotEmpty(t, firstFlags)

	bk.ResetTransfers()
	second := New(bk, Options{}).Run()

	require.Equal(t, first.Log, second.Log)
	require.Equal(t, firstFlags, flagged(bk))
	require.Equal(t, first.TransferPairs, second.TransferPairs)
	require.Equal(t, first.ReturnPairs, second.ReturnPairs)
}

func TestZeroSumAcrossAllFlagged(t *testing.T) {
	t.Parallel()

	a := ledger.NewAccount("Checking", ledger.KindGeneral)
	b := ledger.NewAccount("Savings", ledger.KindGeneral)
	add(a, 1, -5000, "Transfer to Savings")
	add(b, 1, 5000, "Transfer from Checking")
	add(a, 10, -5000, "Transfer to Savings")
	add(b, 10, 5000, "Transfer from Checking")
	add(a, 2, 45000, "SALARY")
	bk := book(t, a, b)

	New(bk, Options{}).Run()

	var sum int64
	count := 0
	bk.Each(func(_ *ledger.Account, tx *ledger.Transaction) {
		if tx.Transfer {
			sum += tx.AmountCents
			count++
		}
	})
	require.Equal(t, 4, count)
	require.Equal(t, int64(0), sum)
}
