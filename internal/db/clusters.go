package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/corpus-merge/internal/importer"
	"github.com/jonathan/corpus-merge/internal/reconcile"
	"github.com/jonathan/corpus-merge/internal/types"
)

var _ importer.Store = (*DB)(nil)

// -----------------------------------------------------------------------------
// Cluster Methods
// -----------------------------------------------------------------------------

const clusterColumns = `id, court_id, needs_court_assignment, case_name, case_name_short,
	case_name_full, docket_number, date_filed, date_granularity, judges, attorneys,
	syllabus, summary, disposition, headnotes, history, other_dates, citations,
	source_key, created_at, updated_at`

func scanCluster(row pgx.Row) (*types.Cluster, error) {
	var c types.Cluster
	var granularity string
	err := row.Scan(&c.ID, &c.CourtID, &c.NeedsCourtAssignment, &c.CaseName, &c.CaseNameShort,
		&c.CaseNameFull, &c.DocketNumber, &c.DateFiled, &granularity, &c.Judges, &c.Attorneys,
		&c.Syllabus, &c.Summary, &c.Disposition, &c.Headnotes, &c.History, &c.OtherDates, &c.Citations,
		&c.SourceKey, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.DateGranularity = types.DateGranularity(granularity)
	return &c, nil
}

// FindCandidates returns the clusters a source document could belong to: the
// same court within the date window, the same docket number, or any shared
// citation. Opinions are loaded with each cluster.
func (db *DB) FindCandidates(ctx context.Context, q types.CandidateQuery) ([]*types.Cluster, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+clusterColumns+`
		 FROM clusters
		 WHERE ($1 <> '' AND court_id = $1 AND date_filed BETWEEN $2 AND $3)
		    OR ($4 <> '' AND lower(docket_number) = lower($4))
		    OR citations && $5::text[]
		 ORDER BY id`,
		q.CourtID, q.DateFrom, q.DateTo, q.DocketNumber, nonNilStrings(q.Citations),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}
	defer rows.Close()

	var clusters []*types.Cluster
	for rows.Next() {
		c, err := scanCluster(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cluster: %w", err)
		}
		clusters = append(clusters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidates: %w", err)
	}
	if err := loadOpinions(ctx, db.pool, clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

// GetCluster retrieves a cluster and its opinions by ID
func (db *DB) GetCluster(ctx context.Context, id int64) (*types.Cluster, error) {
	return getCluster(ctx, db.pool, id, false)
}

func getCluster(ctx context.Context, q querier, id int64, forUpdate bool) (*types.Cluster, error) {
	query := `SELECT ` + clusterColumns + ` FROM clusters WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanCluster(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cluster: %w", err)
	}
	if err := loadOpinions(ctx, q, []*types.Cluster{c}); err != nil {
		return nil, err
	}
	return c, nil
}

func loadOpinions(ctx context.Context, q querier, clusters []*types.Cluster) error {
	if len(clusters) == 0 {
		return nil
	}
	byID := make(map[int64]*types.Cluster, len(clusters))
	ids := make([]int64, 0, len(clusters))
	for _, c := range clusters {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	rows, err := q.Query(ctx,
		`SELECT id, cluster_id, type, author_str, per_curiam, plain_text, html, xml_harvard
		 FROM opinions WHERE cluster_id = ANY($1)
		 ORDER BY cluster_id, ordering, id`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("failed to load opinions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var op types.Opinion
		var opType string
		if err := rows.Scan(&op.ID, &op.ClusterID, &opType, &op.AuthorStr, &op.PerCuriam,
			&op.PlainText, &op.HTML, &op.XML); err != nil {
			return fmt.Errorf("failed to scan opinion: %w", err)
		}
		op.Type = types.OpinionType(opType)
		if c := byID[op.ClusterID]; c != nil {
			c.Opinions = append(c.Opinions, op)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating opinions: %w", err)
	}
	return nil
}

// CreateCluster inserts a new cluster with its opinions and returns its ID
func (db *DB) CreateCluster(ctx context.Context, c *types.Cluster) (int64, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO clusters (court_id, needs_court_assignment, case_name, case_name_short,
		     case_name_full, docket_number, date_filed, date_granularity, judges, attorneys,
		     syllabus, summary, disposition, headnotes, history, other_dates, citations, source_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING id`,
		c.CourtID, c.NeedsCourtAssignment, c.CaseName, c.CaseNameShort,
		c.CaseNameFull, c.DocketNumber, c.DateFiled, string(c.DateGranularity), c.Judges, c.Attorneys,
		c.Syllabus, c.Summary, c.Disposition, c.Headnotes, c.History, c.OtherDates,
		nonNilStrings(c.Citations), c.SourceKey,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create cluster: %w", err)
	}

	for i := range c.Opinions {
		if err := insertOpinion(ctx, tx, id, i, &c.Opinions[i]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func insertOpinion(ctx context.Context, tx pgx.Tx, clusterID int64, ordering int, op *types.Opinion) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO opinions (cluster_id, ordering, type, author_str, per_curiam, plain_text, html, xml_harvard)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		clusterID, ordering, string(op.Type), op.AuthorStr, op.PerCuriam, op.PlainText, op.HTML, op.XML,
	)
	if err != nil {
		return fmt.Errorf("failed to insert opinion: %w", err)
	}
	return nil
}

// ApplyPlan writes a plan's automatic changes in one transaction. The cluster
// row is locked and re-read so the plan lands on the current values.
func (db *DB) ApplyPlan(ctx context.Context, plan *reconcile.Plan) error {
	if !plan.HasChanges() {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := getCluster(ctx, tx, plan.ClusterID, true)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("cluster %d not found", plan.ClusterID)
	}
	updated := reconcile.Apply(current, plan)

	_, err = tx.Exec(ctx,
		`UPDATE clusters SET
		     court_id = $2, needs_court_assignment = $3, case_name = $4, case_name_short = $5,
		     case_name_full = $6, docket_number = $7, date_filed = $8, date_granularity = $9,
		     judges = $10, attorneys = $11, syllabus = $12, summary = $13, disposition = $14,
		     headnotes = $15, history = $16, other_dates = $17, citations = $18,
		     updated_at = NOW()
		 WHERE id = $1`,
		updated.ID, updated.CourtID, updated.NeedsCourtAssignment, updated.CaseName, updated.CaseNameShort,
		updated.CaseNameFull, updated.DocketNumber, updated.DateFiled, string(updated.DateGranularity),
		updated.Judges, updated.Attorneys, updated.Syllabus, updated.Summary, updated.Disposition,
		updated.Headnotes, updated.History, updated.OtherDates, nonNilStrings(updated.Citations),
	)
	if err != nil {
		return fmt.Errorf("failed to update cluster: %w", err)
	}

	for _, u := range plan.Opinions {
		if u.Index < 0 || u.Index >= len(updated.Opinions) {
			continue
		}
		op := updated.Opinions[u.Index]
		_, err = tx.Exec(ctx,
			`UPDATE opinions SET type = $2, author_str = $3, per_curiam = $4, xml_harvard = $5
			 WHERE id = $1`,
			op.ID, string(op.Type), op.AuthorStr, op.PerCuriam, op.XML,
		)
		if err != nil {
			return fmt.Errorf("failed to update opinion: %w", err)
		}
	}

	existing := len(current.Opinions)
	for i := existing; i < len(updated.Opinions); i++ {
		if err := insertOpinion(ctx, tx, updated.ID, i, &updated.Opinions[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
