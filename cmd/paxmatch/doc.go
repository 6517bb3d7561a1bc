// Package main hosts the paxmatch CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the logger, and
// hands off to the internal packages: reconcile runs a full round, propose and
// resolve inspect matches without writing review files, and history reads the
// run ledger. Reports go to stdout and logs to stderr.
package main
