// Package store persists the operations table: free-form parameters
// (optionally encrypted), cron-scheduled jobs and server connection
// profiles, all in one hand-editable INI file.
//
// Sections: [CONFIG] holds parameters, [JOB:<ID>] one job each,
// [SERVER:<ID>] one server each. IDs are case-insensitive and normalized
// to uppercase. Keys the store does not model survive rewrites.
package store
