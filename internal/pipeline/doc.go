// Package pipeline runs one reconciliation round end to end.
//
// A run takes the state-directory lock, loads the roster and booking tables,
// proposes matches, joins them with reviewer decisions, writes the review
// request and identity artifacts, records itself in the ledger, and returns a
// Report of what the user has to do next. Blocking conditions come back as
// ErrBlocked alongside a complete Result.
package pipeline
