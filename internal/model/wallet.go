package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is assigned to every wallet created with a user.
const DefaultCurrency = "USD"

type TransactionType string

const (
	TxAddFunds  TransactionType = "add_funds"
	TxSendMoney TransactionType = "send_money"
	TxPayment   TransactionType = "payment"
	TxRefund    TransactionType = "refund"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

// Transaction is one line of a user's wallet history. Amount is signed:
// positive values credit the wallet, negative values debit it.
type Transaction struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	RecipientID *string           `json:"recipient_id,omitempty"`
	BookingID   *string           `json:"booking_id,omitempty"`
}

// NewTransaction carries the caller-supplied fields of a transaction.
type NewTransaction struct {
	UserID      string            `json:"user_id"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `json:"amount"`
	Description string            `json:"description"`
	Status      TransactionStatus `json:"status"`
	RecipientID *string           `json:"recipient_id,omitempty"`
	BookingID   *string           `json:"booking_id,omitempty"`
}

// TransactionPatch is a partial update. Nil fields are left untouched.
type TransactionPatch struct {
	Description *string            `json:"description,omitempty"`
	Status      *TransactionStatus `json:"status,omitempty"`
}

// Wallet holds the running balance of a user. It is keyed by UserID and
// created together with the user.
type Wallet struct {
	UserID    string          `json:"user_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LedgerEntry pairs a balance change with the transaction that causes
// it. Applying an entry updates the wallet and records a completed
// transaction in one step.
type LedgerEntry struct {
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	RecipientID *string         `json:"recipient_id,omitempty"`
	BookingID   *string         `json:"booking_id,omitempty"`
}

type PaymentMethodType string

const (
	PaymentCard   PaymentMethodType = "card"
	PaymentBank   PaymentMethodType = "bank"
	PaymentPaypal PaymentMethodType = "paypal"
)

// PaymentMethod is a saved funding source of a user. Only the last four
// digits are kept.
type PaymentMethod struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Type      PaymentMethodType `json:"type"`
	Last4     string            `json:"last4"`
	Brand     string            `json:"brand"`
	IsDefault bool              `json:"is_default"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewPaymentMethod carries the caller-supplied fields of a payment method.
type NewPaymentMethod struct {
	UserID    string            `json:"user_id"`
	Type      PaymentMethodType `json:"type"`
	Last4     string            `json:"last4"`
	Brand     string            `json:"brand"`
	IsDefault bool              `json:"is_default"`
}
