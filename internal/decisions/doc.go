// Package decisions loads the human verdicts recorded in filled review files.
//
// A decision file is a CSV or xlsx table with the review request layout:
// the traveler name, the proposed roster match and a Y/NR/NN verdict column.
// Every file in the decisions folder is read in name order; rows without a
// verdict are not yet reviewed and are ignored. Decisions are read-only input
// and are never rewritten by paxmatch.
package decisions
