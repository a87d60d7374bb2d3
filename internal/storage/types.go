package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures the audit store.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// AuditEntry records one mutating operation against the table.
// Keep it compact and schema-stable.
type AuditEntry struct {
	At     time.Time `json:"at"`
	Op     string    `json:"op"`   // set_param, run_job, delete_server, ...
	Kind   string    `json:"kind"` // param | job | server
	Target string    `json:"target"`
	OK     bool      `json:"ok"`
	Error  string    `json:"err,omitempty"`
}
