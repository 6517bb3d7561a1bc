package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"paxmatch/internal/bookings"
	"paxmatch/internal/config"
	"paxmatch/internal/decisions"
	"paxmatch/internal/failure"
	"paxmatch/internal/ledger"
	"paxmatch/internal/logging"
	"paxmatch/internal/pseudonym"
	"paxmatch/internal/reconcile"
	"paxmatch/internal/review"
	"paxmatch/internal/roster"
	"paxmatch/internal/similarity"
)

var (
	// ErrBlocked is returned with a complete Result when pending or
	// flagged-missing names need human action before identities are final.
	ErrBlocked = errors.New("reconciliation blocked")
	// ErrRunInProgress is returned when another run holds the state lock.
	ErrRunInProgress = errors.New("another paxmatch run is in progress")
)

// Options controls one run.
type Options struct {
	// DryRun computes everything but writes no review request or artifacts.
	DryRun bool
	// SkipLedger leaves the run out of the history.
	SkipLedger bool
}

// Result is everything one run produced.
type Result struct {
	RunID      string                 `json:"run_id"`
	DryRun     bool                   `json:"dry_run"`
	Roster     *roster.Roster         `json:"-"`
	Proposals  similarity.Proposals   `json:"proposals"`
	Decisions  *decisions.Set         `json:"-"`
	Outcome    reconcile.Outcome      `json:"outcome"`
	Identities *reconcile.IdentityMap `json:"-"`
	Request    review.Request         `json:"review_request,omitzero"`
	Artifacts  Artifacts              `json:"artifacts,omitzero"`
	Report     Report                 `json:"report"`
}

// Artifacts lists files written by a run.
type Artifacts struct {
	IdentitiesPath string `json:"identities_path,omitempty"`
	PseudonymsPath string `json:"pseudonyms_path,omitempty"`
}

// Runner wires the reconciliation components for one configuration.
type Runner struct {
	cfg    *config.Config
	store  *ledger.Store
	logger *slog.Logger

	// Now and NewID are replaceable for tests.
	Now   func() time.Time
	NewID func() string
}

// NewRunner returns a runner. store may be nil, in which case runs are not recorded.
func NewRunner(cfg *config.Config, store *ledger.Store, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

// Run executes one reconciliation round.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := r.cfg.RequireInputs(); err != nil {
		return nil, failure.Wrap(failure.ErrConfiguration, "pipeline", "inputs", "", err)
	}
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, failure.Wrap(failure.ErrIO, "pipeline", "prepare", "create directories", err)
	}

	lock := flock.New(r.cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, failure.Wrap(failure.ErrIO, "pipeline", "lock", r.cfg.LockPath(), err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrRunInProgress, r.cfg.LockPath())
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	result := &Result{RunID: r.NewID(), DryRun: opts.DryRun}
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.WithContext(ctx, r.logger)
	started := r.Now()
	logger.Info("reconciliation started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Bool("dry_run", opts.DryRun),
	)

	runErr := r.run(ctx, result, opts)

	if !opts.SkipLedger && r.store != nil {
		record := newLedgerRun(result, started, r.Now(), runErr)
		if err := r.store.RecordRun(ctx, record); err != nil {
			logging.WarnWithContext(logger, "failed to record run", "ledger_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the state directory"),
				logging.String(logging.FieldImpact, "run is missing from history"),
			)
		}
	}
	if runErr != nil {
		logging.ErrorWithContext(logger, "reconciliation failed", "run_failed",
			logging.Error(runErr),
			logging.String("error_kind", failure.Kind(runErr)),
		)
		return nil, runErr
	}

	logger.Info("reconciliation finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("confirmed", len(result.Outcome.Confirmed)),
		logging.Int("pending", len(result.Outcome.Pending)),
		logging.Int("flagged_missing", len(result.Outcome.FlaggedMissing)),
		logging.Duration("elapsed", r.Now().Sub(started)),
	)
	if result.Outcome.Blocked() {
		return result, ErrBlocked
	}
	return result, nil
}

// Stage names attached to the context and log records of each step.
const (
	stageRoster    = "roster"
	stageBookings  = "bookings"
	stagePropose   = "propose"
	stageDecisions = "decisions"
	stageReconcile = "reconcile"
	stageReview    = "review"
	stageArtifacts = "artifacts"
)

// stageLogger tags the runner's logger with the run id in ctx and one
// pipeline step.
func (r *Runner) stageLogger(ctx context.Context, name string) *slog.Logger {
	return logging.WithContext(logging.WithStage(ctx, name), r.logger)
}

func (r *Runner) run(ctx context.Context, result *Result, opts Options) error {
	ros, cands, err := r.loadInputs(ctx)
	if err != nil {
		return err
	}
	result.Roster = ros
	result.Proposals = r.propose(ctx, ros, cands)

	logger := r.stageLogger(ctx, stageDecisions)
	if len(result.Proposals.NonTrivial) > 0 {
		set, err := decisions.LoadDir(r.cfg.Paths.DecisionsDir, logger)
		if err != nil {
			return err
		}
		result.Decisions = set
	} else {
		logger.Info("decision files not needed",
			logging.Args(logging.DecisionAttrs("decisions_load", "skipped", "every proposal is trivial")...)...)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger = r.stageLogger(ctx, stageReconcile)
	result.Outcome = reconcile.Reconcile(reconcile.InputFrom(result.Proposals, result.Decisions))
	result.Identities = reconcile.NewIdentityMap(result.Outcome, ros)
	r.logOutcome(logger, result.Outcome)

	if result.Outcome.ReviewRequired() && !opts.DryRun {
		logger = r.stageLogger(ctx, stageReview)
		writer := review.NewWriter(r.cfg, logger)
		writer.Now = r.Now
		req, err := writer.Write(result.Outcome.Pending)
		if err != nil {
			return err
		}
		result.Request = req
	}

	if !opts.DryRun {
		logger = r.stageLogger(ctx, stageArtifacts)
		if err := r.writeArtifacts(result, logger); err != nil {
			return err
		}
	}

	result.Report = BuildReport(result)
	return ctx.Err()
}

func (r *Runner) loadInputs(ctx context.Context) (*roster.Roster, []similarity.Candidate, error) {
	logger := r.stageLogger(ctx, stageRoster)
	ros, err := roster.Load(r.cfg.Roster.Files, roster.Columns{
		FullName:   r.cfg.Roster.FullNameColumn,
		LastName:   r.cfg.Roster.LastNameColumn,
		FirstName:  r.cfg.Roster.FirstNameColumn,
		EmployeeID: r.cfg.Roster.EmployeeIDColumn,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	logger = r.stageLogger(ctx, stageBookings)
	occurrences, err := bookings.Load(r.cfg.Bookings.File, bookings.Columns{
		Name:       r.cfg.Bookings.NameColumn,
		Date:       r.cfg.Bookings.DateColumn,
		Department: r.cfg.Bookings.DepartmentColumn,
		DateLayout: r.cfg.Bookings.DateLayout,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return ros, bookings.Aggregate(occurrences), nil
}

func (r *Runner) propose(ctx context.Context, ros *roster.Roster, cands []similarity.Candidate) similarity.Proposals {
	logger := r.stageLogger(ctx, stagePropose)
	return similarity.NewEngine(r.engineOptions(), logger).Propose(ros.Entries(), cands)
}

func (r *Runner) engineOptions() similarity.Options {
	return similarity.Options{
		NGramSize:     r.cfg.Matching.NGramSize,
		MinSimilarity: r.cfg.Matching.MinSimilarity,
		Weighting:     r.cfg.Matching.Weighting,
	}
}

func (r *Runner) writeArtifacts(result *Result, logger *slog.Logger) error {
	var pseudonyms *pseudonym.Pseudonymizer
	if r.cfg.Output.Pseudonymize {
		pseudonyms = pseudonym.New(r.cfg.Output.PseudonymPrefix, pseudonym.NewSequence(1))
	}
	if r.cfg.Output.WriteIdentities {
		path := r.cfg.IdentitiesPath()
		doc := NewIdentitiesFile(result, pseudonyms, r.Now())
		if err := WriteIdentities(path, doc); err != nil {
			return err
		}
		result.Artifacts.IdentitiesPath = path
		logger.Info("identities written",
			logging.String(logging.FieldEventType, "identities_written"),
			logging.String("identities_path", path),
			logging.Int("identities", len(doc.Identities)),
		)
	}
	if pseudonyms != nil {
		path := r.cfg.PseudonymsPath()
		if err := pseudonyms.WriteMapping(path); err != nil {
			return failure.Wrap(failure.ErrIO, "pipeline", "write pseudonyms", path, err)
		}
		result.Artifacts.PseudonymsPath = path
		logger.Info("pseudonym mapping written",
			logging.String("pseudonyms_path", path),
			logging.Int("pseudonyms", pseudonyms.Len()),
		)
	}
	return nil
}

func (r *Runner) logOutcome(logger *slog.Logger, out reconcile.Outcome) {
	counts := out.Counts()
	logger.Info("reconciliation buckets",
		logging.String(logging.FieldEventType, "reconcile_summary"),
		logging.Int("trivial", counts.Trivial),
		logging.Int("reviewed", counts.Reviewed),
		logging.Int("pending", counts.Pending),
		logging.Int("flagged_missing", counts.FlaggedMissing),
		logging.Int("ignored", counts.Ignored),
		logging.Int("unmatched", counts.Unmatched),
	)
	if len(out.FlaggedMissing) > 0 {
		logging.WarnWithContext(logger, "travelers missing from roster", "roster_gap",
			logging.Strings("names", out.MissingNames()),
			logging.String(logging.FieldErrorHint, "add these employees to the roster and run again"),
			logging.String(logging.FieldImpact, "identities stay unresolved until the roster is extended"),
		)
	}
	if len(out.Unused) > 0 {
		logging.WarnWithContext(logger, "decisions match no current proposal", "stale_decisions",
			logging.Int("decisions", len(out.Unused)),
			logging.String(logging.FieldErrorHint, "the roster or bookings changed since these rows were reviewed"),
			logging.String(logging.FieldImpact, "the affected travelers are asked again"),
		)
	}
}

// Propose loads the inputs and returns match proposals without consulting
// decisions or writing anything. It does not take the run lock.
func (r *Runner) Propose(ctx context.Context) (*roster.Roster, similarity.Proposals, error) {
	if err := r.cfg.RequireInputs(); err != nil {
		return nil, similarity.Proposals{}, failure.Wrap(failure.ErrConfiguration, "pipeline", "inputs", "", err)
	}
	ros, cands, err := r.loadInputs(ctx)
	if err != nil {
		return nil, similarity.Proposals{}, err
	}
	return ros, r.propose(ctx, ros, cands), nil
}
