package storage

// Package storage provides the mutation audit trail.
//
// Every mutating operation against the operations table (parameter, job or
// server) appends one entry here. The trail is best effort: a failed append
// is logged, never surfaced as an operation failure.
