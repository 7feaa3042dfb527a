// Package repository persists the marketplace activity trail. The entity
// store itself lives in memory; only consumed domain events are written
// here, as an append-only audit log.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iliyamo/service-marketplace/internal/queue"
)

const createAuditLogs = `CREATE TABLE IF NOT EXISTS audit_logs (
	id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	kind        VARCHAR(64)  NOT NULL,
	entity_id   VARCHAR(64)  NOT NULL,
	payload     JSON         NOT NULL,
	occurred_at DATETIME(6)  NOT NULL,
	recorded_at DATETIME(6)  NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
	INDEX idx_audit_entity (entity_id),
	INDEX idx_audit_kind_time (kind, occurred_at)
)`

// AuditLog is one row of the audit_logs table.
type AuditLog struct {
	ID         uint64
	Kind       queue.Kind
	EntityID   string
	Payload    json.RawMessage
	OccurredAt time.Time
}

// AuditRepo writes events to audit_logs. It satisfies queue.Sink.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// EnsureSchema creates the audit_logs table when it is missing.
func (r *AuditRepo) EnsureSchema(ctx context.Context) error {
	if r.DB == nil {
		return ErrAuditDisabled
	}
	if _, err := r.DB.ExecContext(ctx, createAuditLogs); err != nil {
		return fmt.Errorf("create audit_logs: %w", err)
	}
	return nil
}

// Record inserts one event.
func (r *AuditRepo) Record(ctx context.Context, ev queue.Event) error {
	if r.DB == nil {
		return ErrAuditDisabled
	}
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO audit_logs (kind, entity_id, payload, occurred_at) VALUES (?,?,?,?)",
		string(ev.Kind()), ev.EntityID(), payload, ev.OccurredAt.UTC())
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByEntity returns the audit trail of one record, oldest first.
func (r *AuditRepo) ListByEntity(ctx context.Context, entityID string) ([]AuditLog, error) {
	if r.DB == nil {
		return nil, ErrAuditDisabled
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, kind, entity_id, payload, occurred_at FROM audit_logs WHERE entity_id=? ORDER BY occurred_at ASC, id ASC",
		entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AuditLog{}
	for rows.Next() {
		var l AuditLog
		var kind string
		if err := rows.Scan(&l.ID, &kind, &l.EntityID, &l.Payload, &l.OccurredAt); err != nil {
			return nil, err
		}
		l.Kind = queue.Kind(kind)
		out = append(out, l)
	}
	return out, rows.Err()
}
