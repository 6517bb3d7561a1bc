// Package ledger records reconciliation runs in SQLite.
//
// Each run stores its outcome counts, the bucket every traveler name landed
// in, and a digest of every decision file read, so a later run can be
// compared with the decisions that produced it. Schema changes bump the
// version in schema.go; users delete the database to adopt a new schema.
package ledger
