package ledger

import (
	"strings"
	"time"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusComplete Status = "complete"
	StatusBlocked  Status = "blocked"
	StatusFailed   Status = "failed"
)

// Bucket is where one traveler name landed in a run.
type Bucket string

const (
	BucketTrivial        Bucket = "trivial"
	BucketConfirmed      Bucket = "confirmed"
	BucketPending        Bucket = "pending"
	BucketFlaggedMissing Bucket = "flagged_missing"
	BucketIgnored        Bucket = "ignored"
	BucketUnmatched      Bucket = "unmatched"
)

// Counts summarises one run.
type Counts struct {
	Roster     int `json:"roster"`
	Candidates int `json:"candidates"`
	Trivial    int `json:"trivial"`
	NonTrivial int `json:"non_trivial"`
	Confirmed  int `json:"confirmed"`
	Pending    int `json:"pending"`
	Flagged    int `json:"flagged_missing"`
	Ignored    int `json:"ignored"`
	Unmatched  int `json:"unmatched"`
	Unused     int `json:"unused_decisions"`
}

// Name is one traveler name and its bucket.
type Name struct {
	Candidate string  `json:"candidate"`
	Reference string  `json:"reference,omitempty"`
	Score     float64 `json:"score,omitempty"`
	Bucket    Bucket  `json:"bucket"`
}

// DecisionFile is a decision file read by a run.
type DecisionFile struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size_bytes"`
}

// Run is one ledger record. Names and DecisionFiles are only populated by GetRun.
type Run struct {
	ID            string         `json:"id"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at,omitzero"`
	Status        Status         `json:"status"`
	DryRun        bool           `json:"dry_run"`
	Counts        Counts         `json:"counts"`
	ReviewPath    string         `json:"review_path,omitempty"`
	ErrorKind     string         `json:"error_kind,omitempty"`
	ErrorMessage  string         `json:"error_message,omitempty"`
	Names         []Name         `json:"names,omitempty"`
	DecisionFiles []DecisionFile `json:"decision_files,omitempty"`
}

// ShortID returns the first block of the run id.
func (r Run) ShortID() string {
	if idx := strings.IndexByte(r.ID, '-'); idx > 0 {
		return r.ID[:idx]
	}
	return r.ID
}

// Duration returns how long the run took, or zero if it never finished.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// NamesIn returns the names recorded in bucket.
func (r Run) NamesIn(bucket Bucket) []Name {
	var out []Name
	for _, n := range r.Names {
		if n.Bucket == bucket {
			out = append(out, n)
		}
	}
	return out
}
