// Package store holds the marketplace entity store: users, services,
// bookings, wallet transactions, wallets, payment methods and
// notifications kept in insertion-ordered in-memory tables.
//
// Lookups signal absence with a false second return value rather than
// an error. The store accepts any field values: it does not enforce
// unique emails, non-negative prices or the existence of referenced
// records. Every exported method takes the store lock for its whole
// duration, so each call is atomic with respect to the others.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/queue"
)

// Clock returns the current time. Tests replace it to control timestamps.
type Clock func() time.Time

// Emitter receives domain events after each mutation. The store calls
// Emit while it still holds its lock, so events arrive in mutation
// order. Implementations must not block or call back into the store.
type Emitter interface {
	Emit(ev queue.Event)
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used to stamp records.
func WithClock(c Clock) Option { return func(s *Store) { s.now = c } }

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

// WithEmitter forwards domain events to e.
func WithEmitter(e Emitter) Option { return func(s *Store) { s.emitter = e } }

// WithBcryptCost sets the cost used to hash user passwords.
func WithBcryptCost(cost int) Option { return func(s *Store) { s.bcryptCost = cost } }

// WithoutSeed skips loading the demo fixture on construction.
func WithoutSeed() Option { return func(s *Store) { s.seed = false } }

// Store is the in-memory entity store. The zero value is not usable;
// construct one with New.
type Store struct {
	mu sync.RWMutex

	users          *table[model.User]
	services       *table[model.Service]
	bookings       *table[model.Booking]
	transactions   *table[model.Transaction]
	wallets        *table[model.Wallet]
	paymentMethods *table[model.PaymentMethod]
	notifications  *table[model.Notification]

	now        Clock
	log        *zap.Logger
	emitter    Emitter
	bcryptCost int
	seed       bool
}

// New builds a store and, unless WithoutSeed is given, loads the demo
// fixture into it.
func New(opts ...Option) (*Store, error) {
	s := &Store{
		users:          newTable(cloneUser),
		services:       newTable[model.Service](nil),
		bookings:       newTable(cloneBooking),
		transactions:   newTable(cloneTransaction),
		wallets:        newTable[model.Wallet](nil),
		paymentMethods: newTable[model.PaymentMethod](nil),
		notifications:  newTable[model.Notification](nil),
		now:            func() time.Time { return time.Now().UTC() },
		log:            zap.NewNop(),
		bcryptCost:     bcrypt.DefaultCost,
		seed:           true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed {
		if err := s.Seed(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) emit(at time.Time, p queue.Payload) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(queue.Event{OccurredAt: at, Payload: p})
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneUser(u model.User) model.User {
	u.Avatar = cloneString(u.Avatar)
	u.Phone = cloneString(u.Phone)
	return u
}

func cloneBooking(b model.Booking) model.Booking {
	b.Notes = cloneString(b.Notes)
	return b
}

func cloneTransaction(tx model.Transaction) model.Transaction {
	tx.RecipientID = cloneString(tx.RecipientID)
	tx.BookingID = cloneString(tx.BookingID)
	return tx
}

// table is a map that remembers insertion order. Rows are never
// removed, so the key slice only grows. Rows pass through clone, when
// set, on the way in and out, so callers never share pointer fields
// with the table.
type table[T any] struct {
	keys  []string
	rows  map[string]T
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	return &table[T]{rows: make(map[string]T), clone: clone}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	if ok && t.clone != nil {
		v = t.clone(v)
	}
	return v, ok
}

// each calls fn for every row in insertion order until fn returns false.
// Rows are passed uncloned and must not escape the store.
func (t *table[T]) each(fn func(id string, v T) bool) {
	for _, k := range t.keys {
		if !fn(k, t.rows[k]) {
			return
		}
	}
}

func (t *table[T]) put(id string, v T) {
	if _, ok := t.rows[id]; !ok {
		t.keys = append(t.keys, id)
	}
	if t.clone != nil {
		v = t.clone(v)
	}
	t.rows[id] = v
}

func (t *table[T]) len() int { return len(t.keys) }

// filter returns the rows accepted by keep, in insertion order.
func (t *table[T]) filter(keep func(T) bool) []T {
	out := []T{}
	for _, k := range t.keys {
		if v := t.rows[k]; keep(v) {
			if t.clone != nil {
				v = t.clone(v)
			}
			out = append(out, v)
		}
	}
	return out
}

// newestFirst orders rows by creation time, most recent first. Rows
// with equal timestamps keep reverse insertion order.
func newestFirst[T any](rows []T, createdAt func(T) time.Time) []T {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return createdAt(rows[i]).After(createdAt(rows[j]))
	})
	return rows
}
