package pipeline

import (
	"time"

	"paxmatch/internal/failure"
	"paxmatch/internal/fileutil"
	"paxmatch/internal/ledger"
	"paxmatch/internal/reconcile"
)

// newLedgerRun converts a finished run into its ledger record.
func newLedgerRun(result *Result, started, finished time.Time, runErr error) *ledger.Run {
	run := &ledger.Run{
		ID:         result.RunID,
		StartedAt:  started,
		FinishedAt: finished,
		DryRun:     result.DryRun,
		ReviewPath: result.Request.OutputPath,
	}
	switch {
	case runErr != nil:
		run.Status = ledger.StatusFailed
		run.ErrorKind = failure.Kind(runErr)
		run.ErrorMessage = runErr.Error()
	case result.Outcome.Blocked():
		run.Status = ledger.StatusBlocked
	default:
		run.Status = ledger.StatusComplete
	}

	counts := result.Outcome.Counts()
	run.Counts = ledger.Counts{
		Roster:     result.Roster.Len(),
		Candidates: result.Proposals.Len() + len(result.Proposals.Unmatched),
		Trivial:    len(result.Proposals.Trivial),
		NonTrivial: len(result.Proposals.NonTrivial),
		Confirmed:  counts.Confirmed,
		Pending:    counts.Pending,
		Flagged:    counts.FlaggedMissing,
		Ignored:    counts.Ignored,
		Unmatched:  counts.Unmatched,
		Unused:     counts.Unused,
	}
	run.Names = ledgerNames(result.Outcome)

	for _, path := range result.Decisions.Files() {
		sum, size, err := fileutil.Digest(path)
		if err != nil {
			continue
		}
		run.DecisionFiles = append(run.DecisionFiles, ledger.DecisionFile{Path: path, SHA256: sum, Size: size})
	}
	return run
}

func ledgerNames(out reconcile.Outcome) []ledger.Name {
	names := make([]ledger.Name, 0, len(out.Confirmed)+len(out.Pending)+len(out.FlaggedMissing)+len(out.Ignored)+len(out.Unmatched))
	for _, c := range out.Confirmed {
		bucket := ledger.BucketConfirmed
		if c.Basis == reconcile.BasisTrivial {
			bucket = ledger.BucketTrivial
		}
		names = append(names, ledger.Name{
			Candidate: c.Proposal.Candidate.Name,
			Reference: c.Proposal.Reference.Name,
			Score:     c.Proposal.Score,
			Bucket:    bucket,
		})
	}
	for _, p := range out.Pending {
		names = append(names, ledger.Name{Candidate: p.Candidate.Name, Reference: p.Reference.Name, Score: p.Score, Bucket: ledger.BucketPending})
	}
	for _, r := range out.FlaggedMissing {
		names = append(names, ledger.Name{Candidate: r.Proposal.Candidate.Name, Reference: r.Proposal.Reference.Name, Score: r.Proposal.Score, Bucket: ledger.BucketFlaggedMissing})
	}
	for _, r := range out.Ignored {
		names = append(names, ledger.Name{Candidate: r.Proposal.Candidate.Name, Reference: r.Proposal.Reference.Name, Score: r.Proposal.Score, Bucket: ledger.BucketIgnored})
	}
	for _, c := range out.Unmatched {
		names = append(names, ledger.Name{Candidate: c.Name, Bucket: ledger.BucketUnmatched})
	}
	return names
}
