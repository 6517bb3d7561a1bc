// Package reconcile joins match proposals against reviewer decisions.
//
// Every non-trivial proposal lands in exactly one bucket: confirmed (Y),
// pending (no decision yet), flagged missing (NR) or ignored (NN). Trivial
// proposals are confirmed without review. The resulting Outcome carries the
// blocking conditions as data; callers decide how to halt.
package reconcile
