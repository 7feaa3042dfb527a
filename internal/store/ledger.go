package store

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/queue"
)

// CreateTransaction records a wallet transaction without touching the
// wallet balance. Use ApplyLedgerEntry to do both together.
func (s *Store) CreateTransaction(in model.NewTransaction) model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.insertTransactionLocked(in)
	s.emit(t.CreatedAt, queue.TransactionCreated{
		TransactionID: t.ID,
		UserID:        t.UserID,
		Type:          t.Type,
		Amount:        t.Amount,
		Status:        t.Status,
	})
	return t
}

func (s *Store) insertTransactionLocked(in model.NewTransaction) model.Transaction {
	t := model.Transaction{
		ID:          newID("txn"),
		UserID:      in.UserID,
		Type:        in.Type,
		Amount:      in.Amount,
		Description: in.Description,
		Status:      in.Status,
		CreatedAt:   s.now(),
		RecipientID: cloneString(in.RecipientID),
		BookingID:   cloneString(in.BookingID),
	}
	s.transactions.put(t.ID, t)
	return t
}

func (s *Store) GetTransactionByID(id string) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions.get(id)
}

// GetTransactionsByUser returns the user's transactions, most recent
// first. Transactions created at the same instant are returned latest
// inserted first.
func (s *Store) GetTransactionsByUser(userID string) []model.Transaction {
	s.mu.RLock()
	rows := s.transactions.filter(func(t model.Transaction) bool { return t.UserID == userID })
	s.mu.RUnlock()
	return newestFirst(rows, func(t model.Transaction) time.Time { return t.CreatedAt })
}

// UpdateTransaction merges the non-nil fields of p into the transaction.
// Transactions carry no UpdatedAt, so nothing else changes.
func (s *Store) UpdateTransaction(id string, p model.TransactionPatch) (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions.get(id)
	if !ok {
		return model.Transaction{}, false
	}
	old := t.Status
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	s.transactions.put(id, t)
	s.emit(s.now(), queue.TransactionUpdated{
		TransactionID: id,
		UserID:        t.UserID,
		OldStatus:     old,
		NewStatus:     t.Status,
	})
	return t, true
}

func (s *Store) GetWallet(userID string) (model.Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.wallets.get(userID)
}

// UpdateWalletBalance adds delta to the user's balance. It does not
// record a transaction, and it never creates a wallet: an unknown user
// yields false.
func (s *Store) UpdateWalletBalance(userID string, delta decimal.Decimal) (model.Wallet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets.get(userID)
	if !ok {
		return model.Wallet{}, false
	}
	old := w.Balance
	w.Balance = old.Add(delta)
	w.UpdatedAt = s.now()
	s.wallets.put(userID, w)
	s.emit(w.UpdatedAt, queue.WalletAdjusted{
		UserID:     userID,
		Delta:      delta,
		OldBalance: old,
		NewBalance: w.Balance,
	})
	return w, true
}

// ApplyLedgerEntry adjusts the wallet balance and records the matching
// completed transaction under a single lock, so no reader can observe
// one without the other. Nothing is written when the user has no wallet.
func (s *Store) ApplyLedgerEntry(e model.LedgerEntry) (model.Wallet, model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets.get(e.UserID)
	if !ok {
		return model.Wallet{}, model.Transaction{}, false
	}
	old := w.Balance
	t := s.insertTransactionLocked(model.NewTransaction{
		UserID:      e.UserID,
		Type:        e.Type,
		Amount:      e.Amount,
		Description: e.Description,
		Status:      model.TxCompleted,
		RecipientID: e.RecipientID,
		BookingID:   e.BookingID,
	})
	w.Balance = old.Add(e.Amount)
	w.UpdatedAt = t.CreatedAt
	s.wallets.put(e.UserID, w)

	s.log.Debug("ledger entry applied",
		zap.String("user_id", e.UserID),
		zap.String("transaction_id", t.ID),
		zap.Stringer("amount", e.Amount),
		zap.Stringer("balance", w.Balance))
	s.emit(t.CreatedAt, queue.LedgerApplied{
		UserID:        e.UserID,
		TransactionID: t.ID,
		Amount:        e.Amount,
		OldBalance:    old,
		NewBalance:    w.Balance,
	})
	return w, t, true
}
