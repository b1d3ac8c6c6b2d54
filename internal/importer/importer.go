package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/corpus-merge/internal/casename"
	"github.com/jonathan/corpus-merge/internal/courts"
	"github.com/jonathan/corpus-merge/internal/reconcile"
	"github.com/jonathan/corpus-merge/internal/similarity"
	"github.com/jonathan/corpus-merge/internal/types"
)

// Store is the persistence the importer writes through. GetCluster returns
// nil, nil for an unknown id. ApplyPlan must apply every change of a plan
// atomically. EnqueueReview reports false when a review with the same
// fingerprint is already queued.
type Store interface {
	FindCandidates(ctx context.Context, q types.CandidateQuery) ([]*types.Cluster, error)
	GetCluster(ctx context.Context, id int64) (*types.Cluster, error)
	CreateCluster(ctx context.Context, c *types.Cluster) (int64, error)
	ApplyPlan(ctx context.Context, plan *reconcile.Plan) error
	EnqueueReview(ctx context.Context, r *types.PendingReview) (bool, error)
	EnqueueIndex(ctx context.Context, clusterID int64) error
}

// VisitFunc receives each document a source yields. A non-nil readErr means
// the document at key could not be read; the batch carries on regardless.
type VisitFunc func(key string, doc *types.SourceDocument, readErr error) error

// Source enumerates source documents in order
type Source interface {
	Walk(ctx context.Context, fn VisitFunc) error
}

// Options controls a batch
type Options struct {
	Workers        int
	MatchThreshold int
	MakeSearchable bool           // enqueue touched clusters for indexing
	Bankruptcy     bool           // import only bankruptcy-court documents; off skips them
	CourtID        string         // only import documents resolving to this court
	OnOutcome      func(*Outcome) // called once per document, never concurrently
}

// Importer runs source documents through the merge pipeline
type Importer struct {
	store    Store
	resolver *courts.Resolver
	winnower *casename.Winnower
	opts     Options
	log      zerolog.Logger
	locks    *keyedLocks
	now      func() time.Time

	outcomeMu sync.Mutex // serializes OnOutcome calls
}

// New creates an importer. The resolver and winnower are shared read-only.
func New(store Store, resolver *courts.Resolver, winnower *casename.Winnower, opts Options, log zerolog.Logger) *Importer {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MatchThreshold <= 0 {
		opts.MatchThreshold = similarity.DefaultThreshold
	}
	return &Importer{
		store:    store,
		resolver: resolver,
		winnower: winnower,
		opts:     opts,
		log:      log,
		locks:    newKeyedLocks(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run imports every document of src with up to Options.Workers documents in
// flight. Per-document failures are counted in the report and never stop the
// batch; Run only fails when the source itself fails or ctx is cancelled.
func (im *Importer) Run(ctx context.Context, src Source) (*Report, error) {
	report := newReport(im.now())
	logger := im.log.With().Str("run_id", report.RunID.String()).Logger()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.opts.Workers)

	walkErr := src.Walk(gctx, func(key string, doc *types.SourceDocument, readErr error) error {
		if err := gctx.Err(); err != nil {
			return err
		}
		if readErr != nil {
			out := &Outcome{Key: key, Err: readErr, CompletedAt: im.now()}
			out.advance(StateFailed)
			im.finish(logger, report, out)
			return nil
		}
		g.Go(func() error {
			out, _ := im.process(gctx, logger, doc)
			im.finish(logger, report, out)
			return nil
		})
		return nil
	})
	_ = g.Wait()
	report.FinishedAt = im.now()

	logger.Info().
		Int("processed", report.Processed).
		Int("created", report.Created).
		Int("updated", report.Updated).
		Int("unchanged", report.Unchanged).
		Int("ambiguous", report.Ambiguous).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Int("reviews", report.Reviews).
		Msg("batch finished")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	if walkErr != nil {
		return report, fmt.Errorf("failed to enumerate source documents: %w", walkErr)
	}
	return report, nil
}

func (im *Importer) finish(logger zerolog.Logger, report *Report, out *Outcome) {
	report.record(out)
	if im.opts.OnOutcome != nil {
		im.outcomeMu.Lock()
		im.opts.OnOutcome(out)
		im.outcomeMu.Unlock()
	}
	ev := logger.Info()
	if out.State == StateFailed || out.State == StateAmbiguous {
		ev = logger.Warn().Err(out.Err)
	}
	ev.Str("doc", out.Key).
		Str("state", string(out.State)).
		Int64("cluster_id", out.ClusterID).
		Str("court", out.Court.CourtID).
		Msg("document processed")
}

// ProcessDocument runs one document through the pipeline. The returned
// error is non-nil only when the document failed; skipped and ambiguous
// documents are reported through the outcome.
func (im *Importer) ProcessDocument(ctx context.Context, doc *types.SourceDocument) (*Outcome, error) {
	return im.process(ctx, im.log, doc)
}

func (im *Importer) process(ctx context.Context, logger zerolog.Logger, doc *types.SourceDocument) (*Outcome, error) {
	out := &Outcome{Key: doc.Key}
	out.advance(StateFetched)

	err := im.run(ctx, logger, doc, out)
	if err != nil {
		out.Err = err
		out.advance(StateFailed)
	}
	out.CompletedAt = im.now()
	return out, err
}

func (im *Importer) run(ctx context.Context, logger zerolog.Logger, doc *types.SourceDocument, out *Outcome) error {
	norm, err := normalize(doc)
	if err != nil {
		return err
	}
	out.advance(StateNormalized)

	out.Court = im.resolver.Resolve(doc.CourtName, doc.Key)
	if out.Court.Resolved() {
		out.advance(StateCourtResolved)
	} else {
		out.advance(StateCourtUnresolved)
		logger.Debug().Str("doc", doc.Key).Str("court_name", doc.CourtName).Msg("court unresolved")
	}
	if im.opts.Bankruptcy != out.Court.Bankruptcy() {
		if im.opts.Bankruptcy {
			return im.skip(out, "not a bankruptcy court")
		}
		return im.skip(out, "bankruptcy court")
	}
	if im.opts.CourtID != "" && out.Court.CourtID != im.opts.CourtID {
		return im.skip(out, "court filter")
	}

	ext := BuildCluster(doc, norm.body, norm.date, norm.granularity, out.Court)

	from, to := types.YearWindow(norm.date)
	candidates, err := im.store.FindCandidates(ctx, types.CandidateQuery{
		CourtID:      out.Court.CourtID,
		Citations:    ext.Citations,
		DocketNumber: ext.DocketNumber,
		DateFrom:     from,
		DateTo:       to,
	})
	if err != nil {
		return &ImportError{Key: doc.Key, Message: "failed to find candidate clusters", Cause: err}
	}

	matches := im.findMatches(doc, newExternal(ext), candidates)
	switch len(matches) {
	case 0:
		return im.create(ctx, ext, out)
	case 1:
		out.advance(StateMatched)
		return im.merge(ctx, matches[0], ext, out)
	default:
		return im.ambiguous(ctx, doc, matches, out)
	}
}

func (im *Importer) skip(out *Outcome, reason string) error {
	out.SkipReason = reason
	out.advance(StateSkipped)
	return nil
}

func (im *Importer) create(ctx context.Context, ext *types.Cluster, out *Outcome) error {
	id, err := im.store.CreateCluster(ctx, ext)
	if err != nil {
		return &ImportError{Key: out.Key, Message: "failed to create cluster", Cause: err}
	}
	out.ClusterID = id
	out.Created = true
	out.advance(StateCreated)

	if ext.NeedsCourtAssignment {
		if err := im.enqueueReview(ctx, out, &types.PendingReview{
			ClusterID: id,
			Kind:      types.ReviewCourtUnresolved,
		}); err != nil {
			return err
		}
	}
	if err := im.index(ctx, id); err != nil {
		return &ImportError{Key: out.Key, Message: "failed to enqueue cluster for indexing", Cause: err}
	}
	out.advance(StatePersisted)
	return nil
}

// merge reconciles against the current stored cluster. The cluster is
// re-read under its lock so concurrent documents never merge against a
// stale copy.
func (im *Importer) merge(ctx context.Context, m candidateMatch, ext *types.Cluster, out *Outcome) error {
	clusterID := m.cluster.ID
	unlock := im.locks.Lock(clusterID)
	defer unlock()

	out.ClusterID = clusterID
	internal, err := im.store.GetCluster(ctx, clusterID)
	if err != nil {
		return &ImportError{Key: out.Key, Message: "failed to load cluster", Cause: err}
	}
	if internal == nil {
		return &ImportError{Key: out.Key, Message: fmt.Sprintf("cluster %d disappeared", clusterID)}
	}

	plan := reconcile.Reconcile(internal, ext, reconcile.Options{
		MatchThreshold: im.opts.MatchThreshold,
		OpinionPairs:   reusablePairs(m, internal),
	})
	out.Plan = plan
	out.advance(StateReconciled)

	if plan.Empty() {
		out.advance(StateUnchanged)
		return nil
	}
	if plan.HasChanges() {
		if err := im.store.ApplyPlan(ctx, plan); err != nil {
			return &ImportError{Key: out.Key, Message: "failed to apply merge plan", Cause: err}
		}
		if err := im.index(ctx, clusterID); err != nil {
			return &ImportError{Key: out.Key, Message: "failed to enqueue cluster for indexing", Cause: err}
		}
	}
	if len(plan.Diffs) > 0 {
		if err := im.enqueueReview(ctx, out, &types.PendingReview{
			ClusterID: clusterID,
			Kind:      types.ReviewFieldConflict,
			Diffs:     plan.Diffs,
		}); err != nil {
			return err
		}
	}
	if plan.HasChanges() {
		out.advance(StatePersisted)
	} else {
		out.advance(StateUnchanged)
	}
	return nil
}

func (im *Importer) ambiguous(ctx context.Context, doc *types.SourceDocument, matches []candidateMatch, out *Outcome) error {
	ids := make([]int64, len(matches))
	for i, m := range matches {
		ids[i] = m.cluster.ID
	}
	if err := im.enqueueReview(ctx, out, &types.PendingReview{
		Kind:       types.ReviewAmbiguousMatch,
		Candidates: ids,
	}); err != nil {
		return err
	}
	out.Err = &AmbiguousMatchError{Key: doc.Key, Candidates: ids}
	out.advance(StateAmbiguous)
	return nil
}

func (im *Importer) enqueueReview(ctx context.Context, out *Outcome, r *types.PendingReview) error {
	r.ID = uuid.New()
	r.SourceKey = out.Key
	r.CreatedAt = im.now()
	r.Fingerprint = r.ComputeFingerprint()
	queued, err := im.store.EnqueueReview(ctx, r)
	if err != nil {
		return &ImportError{Key: out.Key, Message: "failed to queue review", Cause: err}
	}
	if queued {
		out.Reviews++
	}
	return nil
}

func (im *Importer) index(ctx context.Context, clusterID int64) error {
	if !im.opts.MakeSearchable {
		return nil
	}
	return im.store.EnqueueIndex(ctx, clusterID)
}

// IsAmbiguous reports whether err is an AmbiguousMatchError
func IsAmbiguous(err error) bool {
	var amb *AmbiguousMatchError
	return errors.As(err, &amb)
}
