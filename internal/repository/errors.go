package repository

import "errors"

// ErrAuditDisabled is returned by an AuditRepo without a database.
// Callers treat it as "sink not configured" rather than a failure.
var ErrAuditDisabled = errors.New("audit database not configured")
