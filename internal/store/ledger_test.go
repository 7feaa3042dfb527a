package store

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/service-marketplace/internal/model"
)

func TestUpdateWalletBalanceAccumulates(t *testing.T) {
	s := newEmptyStore(t)
	u := mustCreateUser(t, s, "a@example.com", model.RoleUser)
	before, _ := s.GetWallet(u.ID)

	_, ok := s.UpdateWalletBalance(u.ID, decimal.NewFromInt(100))
	require.True(t, ok)
	w, ok := s.UpdateWalletBalance(u.ID, decimal.NewFromInt(-30))
	require.True(t, ok)

	assert.True(t, w.Balance.Equal(before.Balance.Add(decimal.NewFromInt(70))), "got %s", w.Balance)
	assert.True(t, w.UpdatedAt.After(before.UpdatedAt))
	assert.Empty(t, s.GetTransactionsByUser(u.ID), "balance updates do not record transactions")
}

func TestUpdateWalletBalanceUnknownUser(t *testing.T) {
	s := newEmptyStore(t)

	_, ok := s.UpdateWalletBalance("user-ghost", decimal.NewFromInt(10))
	assert.False(t, ok)

	_, ok = s.GetWallet("user-ghost")
	assert.False(t, ok, "no wallet is created as a side effect")
}

func TestTransactionsNewestFirst(t *testing.T) {
	s := newEmptyStore(t)
	t1 := s.CreateTransaction(model.NewTransaction{UserID: "u", Description: "first"})
	s.CreateTransaction(model.NewTransaction{UserID: "other", Description: "other"})
	t2 := s.CreateTransaction(model.NewTransaction{UserID: "u", Description: "second"})
	t3 := s.CreateTransaction(model.NewTransaction{UserID: "u", Description: "third"})

	got := s.GetTransactionsByUser("u")

	require.Len(t, got, 3)
	assert.Equal(t, []string{t3.ID, t2.ID, t1.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].CreatedAt.After(got[i].CreatedAt))
	}
}

func TestTransactionsTiedTimestampsAreDeterministic(t *testing.T) {
	frozen := newStepClock(0)
	s := newEmptyStore(t, WithClock(frozen.Now))
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, s.CreateTransaction(model.NewTransaction{UserID: "u"}).ID)
	}

	for run := 0; run < 3; run++ {
		got := s.GetTransactionsByUser("u")
		require.Len(t, got, 5)
		for i := range got {
			assert.Equal(t, ids[len(ids)-1-i], got[i].ID)
		}
	}
}

func TestUpdateTransactionStatus(t *testing.T) {
	s := newEmptyStore(t)
	tx := s.CreateTransaction(model.NewTransaction{UserID: "u", Status: model.TxPending})

	done := model.TxCompleted
	got, ok := s.UpdateTransaction(tx.ID, model.TransactionPatch{Status: &done})
	require.True(t, ok)
	assert.Equal(t, model.TxCompleted, got.Status)
	assert.Equal(t, tx.CreatedAt, got.CreatedAt)

	_, ok = s.UpdateTransaction("txn-missing", model.TransactionPatch{Status: &done})
	assert.False(t, ok)
}

func TestApplyLedgerEntry(t *testing.T) {
	s := newEmptyStore(t)
	u := mustCreateUser(t, s, "a@example.com", model.RoleUser)
	bookingID := "booking-1"

	w, tx, ok := s.ApplyLedgerEntry(model.LedgerEntry{
		UserID:      u.ID,
		Amount:      decimal.RequireFromString("-45.50"),
		Description: "Payment for cleaning",
		Type:        model.TxPayment,
		BookingID:   &bookingID,
	})

	require.True(t, ok)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("-45.50")))
	assert.Equal(t, model.TxCompleted, tx.Status)
	assert.Equal(t, model.TxPayment, tx.Type)
	require.NotNil(t, tx.BookingID)
	assert.Equal(t, bookingID, *tx.BookingID)
	assert.Equal(t, tx.CreatedAt, w.UpdatedAt)

	stored, ok := s.GetTransactionByID(tx.ID)
	require.True(t, ok)
	assert.Equal(t, tx, stored)
}

func TestApplyLedgerEntryUnknownUserWritesNothing(t *testing.T) {
	s := newEmptyStore(t)

	_, _, ok := s.ApplyLedgerEntry(model.LedgerEntry{UserID: "user-ghost", Amount: decimal.NewFromInt(5)})

	assert.False(t, ok)
	assert.Empty(t, s.GetTransactionsByUser("user-ghost"))
	_, ok = s.GetWallet("user-ghost")
	assert.False(t, ok)
}

func TestApplyLedgerEntryConcurrentBalanceMatchesHistory(t *testing.T) {
	s := newEmptyStore(t, WithClock(func() time.Time { return time.Now().UTC() }))
	u := mustCreateUser(t, s, "a@example.com", model.RoleUser)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			amount := decimal.NewFromInt(int64(i%7 - 3))
			s.ApplyLedgerEntry(model.LedgerEntry{UserID: u.ID, Amount: amount, Type: model.TxAddFunds})
		}(i)
	}
	wg.Wait()

	sum := decimal.Zero
	history := s.GetTransactionsByUser(u.ID)
	for _, tx := range history {
		sum = sum.Add(tx.Amount)
	}
	w, _ := s.GetWallet(u.ID)
	assert.Len(t, history, 50)
	assert.True(t, w.Balance.Equal(sum), "balance %s, history sum %s", w.Balance, sum)
}
