// Package failure defines the error markers shared by paxmatch components.
//
// Components wrap errors with one of the exported sentinels so the CLI can
// tell a human data-entry mistake (ErrDataIntegrity) from a broken setup
// (ErrConfiguration) or a plain I/O problem without string matching.
package failure
