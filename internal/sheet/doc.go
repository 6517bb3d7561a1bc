// Package sheet reads and writes the tabular interchange files paxmatch works
// with: CSV files and xlsx workbooks.
//
// Tables are addressed by path, optionally followed by "#Sheet" to pick a
// worksheet other than the first. Columns are located by header name,
// ignoring case and surrounding whitespace, so hand-edited files keep working
// when columns move.
package sheet
