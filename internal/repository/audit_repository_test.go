package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/service-marketplace/internal/database"
	"github.com/iliyamo/service-marketplace/internal/model"
	"github.com/iliyamo/service-marketplace/internal/queue"
)

// Requires a reachable MySQL server, e.g.
// AUDIT_TEST_DSN="root@tcp(localhost:3306)/marketplace_test?parseTime=true&loc=UTC"
func TestAuditRepoRoundTrip(t *testing.T) {
	dsn := os.Getenv("AUDIT_TEST_DSN")
	if dsn == "" {
		t.Skip("AUDIT_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := database.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewAuditRepo(db)
	require.NoError(t, repo.EnsureSchema(ctx))

	bookingID := "booking-" + uuid.NewString()
	at := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Record(ctx, queue.Event{OccurredAt: at, Payload: queue.BookingCreated{BookingID: bookingID, UserID: "user-1"}}))
	require.NoError(t, repo.Record(ctx, queue.Event{OccurredAt: at.Add(time.Second), Payload: queue.BookingUpdated{
		BookingID: bookingID,
		OldStatus: model.BookingUpcoming,
		NewStatus: model.BookingCompleted,
	}}))

	logs, err := repo.ListByEntity(ctx, bookingID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, queue.KindBookingCreated, logs[0].Kind)
	assert.Equal(t, queue.KindBookingUpdated, logs[1].Kind)
	assert.Contains(t, string(logs[1].Payload), `"new_status":"completed"`)
	assert.True(t, logs[0].OccurredAt.Equal(at))
}

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"app:pw@tcp(db:3306)/market?charset=utf8mb4&parseTime=true&loc=UTC",
		database.DSN("app", "pw", "db", "3306", "market"))
	assert.Equal(t,
		"app@tcp(db:3306)/market?charset=utf8mb4&parseTime=true&loc=UTC",
		database.DSN("app", "", "db", "3306", "market"))
}

func TestAuditRepoWithoutDB(t *testing.T) {
	repo := NewAuditRepo(nil)
	ctx := context.Background()

	assert.True(t, errors.Is(repo.EnsureSchema(ctx), ErrAuditDisabled))
	assert.True(t, errors.Is(repo.Record(ctx, queue.Event{Payload: queue.UserCreated{UserID: "user-1"}}), ErrAuditDisabled))
	_, err := repo.ListByEntity(ctx, "user-1")
	assert.True(t, errors.Is(err, ErrAuditDisabled))
}
