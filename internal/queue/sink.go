package queue

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Sink records a consumed event somewhere durable.
type Sink interface {
	Record(ctx context.Context, ev Event) error
}

// FileSink appends one line per event to a log file, creating the file
// and its directory on first use.
type FileSink struct {
	Path string

	mu sync.Mutex
}

func NewFileSink(path string) *FileSink { return &FileSink{Path: path} }

func (s *FileSink) Record(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(Describe(ev) + "\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// Describe renders an event as a single human-friendly line.
func Describe(ev Event) string {
	at := ev.OccurredAt.UTC().Format(time.RFC3339)
	switch p := ev.Payload.(type) {
	case UserCreated:
		return fmt.Sprintf("[%s] User created | user_id=%s | email=%q | role=%s", at, p.UserID, p.Email, p.Role)
	case ServiceCreated:
		return fmt.Sprintf("[%s] Service created | service_id=%s | provider_id=%s | name=%q | price=%s", at, p.ServiceID, p.ProviderID, p.Name, p.Price)
	case ServiceUpdated:
		return fmt.Sprintf("[%s] Service updated | service_id=%s | price=%s->%s | active=%t->%t", at, p.ServiceID, p.OldPrice, p.NewPrice, p.OldIsActive, p.NewIsActive)
	case BookingCreated:
		return fmt.Sprintf("[%s] Booking created | booking_id=%s | user_id=%s | provider_id=%s | service_id=%s | date=%s | price=%s", at, p.BookingID, p.UserID, p.ProviderID, p.ServiceID, p.Date, p.Price)
	case BookingUpdated:
		return fmt.Sprintf("[%s] Booking updated | booking_id=%s | status=%s->%s", at, p.BookingID, p.OldStatus, p.NewStatus)
	case TransactionCreated:
		return fmt.Sprintf("[%s] Transaction created | transaction_id=%s | user_id=%s | type=%s | amount=%s | status=%s", at, p.TransactionID, p.UserID, p.Type, p.Amount, p.Status)
	case LedgerApplied:
		return fmt.Sprintf("[%s] Ledger applied | transaction_id=%s | user_id=%s | amount=%s | balance=%s->%s", at, p.TransactionID, p.UserID, p.Amount, p.OldBalance, p.NewBalance)
	case NotificationCreated:
		return fmt.Sprintf("[%s] Notification created | notification_id=%s | user_id=%s | type=%s | title=%q", at, p.NotificationID, p.UserID, p.Type, p.Title)
	case UserUpdated:
		return fmt.Sprintf("[%s] User updated | user_id=%s | changed=%s", at, p.UserID, strings.Join(p.Changed, ","))
	case TransactionUpdated:
		return fmt.Sprintf("[%s] Transaction updated | transaction_id=%s | user_id=%s | status=%s->%s", at, p.TransactionID, p.UserID, p.OldStatus, p.NewStatus)
	case WalletAdjusted:
		return fmt.Sprintf("[%s] Wallet adjusted | user_id=%s | delta=%s | balance=%s->%s", at, p.UserID, p.Delta, p.OldBalance, p.NewBalance)
	case PaymentMethodCreated:
		return fmt.Sprintf("[%s] Payment method created | payment_method_id=%s | user_id=%s | type=%s | last4=%s | default=%t", at, p.PaymentMethodID, p.UserID, p.Type, p.Last4, p.IsDefault)
	case PaymentMethodDefaultSet:
		return fmt.Sprintf("[%s] Default payment method set | payment_method_id=%s | user_id=%s | previous_id=%s", at, p.PaymentMethodID, p.UserID, p.PreviousID)
	case NotificationRead:
		return fmt.Sprintf("[%s] Notification read | notification_id=%s | user_id=%s", at, p.NotificationID, p.UserID)
	}
	return fmt.Sprintf("[%s] Unknown event", at)
}
