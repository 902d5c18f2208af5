// Package journal persists a history of reconfigure runs in SQLite.
//
// Each run records its template, terminal state, the phase it failed from,
// and one outcome row per installed or skipped route. The journal backs the
// `recroute history` command and the last-run summary in `recroute status`.
// It is written after a run completes and never consulted by the routing core.
package journal
