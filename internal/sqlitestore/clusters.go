package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/corpus-merge/internal/reconcile"
	"github.com/jonathan/corpus-merge/internal/types"
)

type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const clusterColumns = `id, court_id, needs_court_assignment, case_name, case_name_short,
	case_name_full, docket_number, date_filed, date_granularity, judges, attorneys,
	syllabus, summary, disposition, headnotes, history, other_dates, citations,
	source_key, created_at, updated_at`

func scanCluster(row scanner) (*types.Cluster, error) {
	var c types.Cluster
	var filed, granularity, citations, created, updated string
	err := row.Scan(&c.ID, &c.CourtID, &c.NeedsCourtAssignment, &c.CaseName, &c.CaseNameShort,
		&c.CaseNameFull, &c.DocketNumber, &filed, &granularity, &c.Judges, &c.Attorneys,
		&c.Syllabus, &c.Summary, &c.Disposition, &c.Headnotes, &c.History, &c.OtherDates, &citations,
		&c.SourceKey, &created, &updated)
	if err != nil {
		return nil, err
	}
	if c.DateFiled, err = time.Parse(dateLayout, filed); err != nil {
		return nil, fmt.Errorf("failed to parse date_filed %q: %w", filed, err)
	}
	c.DateGranularity = types.DateGranularity(granularity)
	if err := json.Unmarshal([]byte(citations), &c.Citations); err != nil {
		return nil, fmt.Errorf("failed to decode citations: %w", err)
	}
	c.CreatedAt, _ = time.Parse(time.DateTime, created)
	c.UpdatedAt, _ = time.Parse(time.DateTime, updated)
	return &c, nil
}

func encodeJSON(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}

// FindCandidates returns the clusters in the same court within the date
// window, with the same docket number, or sharing a citation.
func (s *Store) FindCandidates(ctx context.Context, q types.CandidateQuery) ([]*types.Cluster, error) {
	citations, err := encodeJSON(q.Citations, "[]")
	if err != nil {
		return nil, fmt.Errorf("failed to encode citations: %w", err)
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+clusterColumns+`
		 FROM clusters
		 WHERE (?1 <> '' AND court_id = ?1 AND date_filed BETWEEN ?2 AND ?3)
		    OR (?4 <> '' AND docket_number = ?4 COLLATE NOCASE)
		    OR EXISTS (SELECT 1 FROM json_each(clusters.citations) AS c
		               WHERE c.value IN (SELECT value FROM json_each(?5)))
		 ORDER BY id`,
		q.CourtID, q.DateFrom.Format(dateLayout), q.DateTo.Format(dateLayout), q.DocketNumber, citations,
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
	if err := loadOpinions(ctx, s.conn, clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

// GetCluster retrieves a cluster and its opinions, or nil when it does not exist.
func (s *Store) GetCluster(ctx context.Context, id int64) (*types.Cluster, error) {
	return getCluster(ctx, s.conn, id)
}

func getCluster(ctx context.Context, q querier, id int64) (*types.Cluster, error) {
	c, err := scanCluster(q.QueryRowContext(ctx, `SELECT `+clusterColumns+` FROM clusters WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	idList, err := encodeJSON(ids, "[]")
	if err != nil {
		return fmt.Errorf("failed to encode cluster ids: %w", err)
	}

	rows, err := q.QueryContext(ctx,
		`SELECT id, cluster_id, type, author_str, per_curiam, plain_text, html, xml_harvard
		 FROM opinions WHERE cluster_id IN (SELECT value FROM json_each(?))
		 ORDER BY cluster_id, ordering, id`,
		idList,
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
	return rows.Err()
}

// CreateCluster inserts a cluster with its opinions and returns its ID
func (s *Store) CreateCluster(ctx context.Context, c *types.Cluster) (int64, error) {
	citations, err := encodeJSON(c.Citations, "[]")
	if err != nil {
		return 0, fmt.Errorf("failed to encode citations: %w", err)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO clusters (court_id, needs_court_assignment, case_name, case_name_short,
		     case_name_full, docket_number, date_filed, date_granularity, judges, attorneys,
		     syllabus, summary, disposition, headnotes, history, other_dates, citations, source_key)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CourtID, c.NeedsCourtAssignment, c.CaseName, c.CaseNameShort,
		c.CaseNameFull, c.DocketNumber, c.DateFiled.Format(dateLayout), string(c.DateGranularity),
		c.Judges, c.Attorneys, c.Syllabus, c.Summary, c.Disposition, c.Headnotes, c.History,
		c.OtherDates, citations, c.SourceKey,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create cluster: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read cluster id: %w", err)
	}

	for i := range c.Opinions {
		if err := insertOpinion(ctx, tx, id, i, &c.Opinions[i]); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

func insertOpinion(ctx context.Context, tx *sql.Tx, clusterID int64, ordering int, op *types.Opinion) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO opinions (cluster_id, ordering, type, author_str, per_curiam, plain_text, html, xml_harvard)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		clusterID, ordering, string(op.Type), op.AuthorStr, op.PerCuriam, op.PlainText, op.HTML, op.XML,
	)
	if err != nil {
		return fmt.Errorf("failed to insert opinion: %w", err)
	}
	return nil
}

// ApplyPlan writes a plan's automatic changes in one transaction.
func (s *Store) ApplyPlan(ctx context.Context, plan *reconcile.Plan) error {
	if !plan.HasChanges() {
		return nil
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := getCluster(ctx, tx, plan.ClusterID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("cluster %d not found", plan.ClusterID)
	}
	updated := reconcile.Apply(current, plan)
	citations, err := encodeJSON(updated.Citations, "[]")
	if err != nil {
		return fmt.Errorf("failed to encode citations: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE clusters SET
		     court_id = ?, needs_court_assignment = ?, case_name = ?, case_name_short = ?,
		     case_name_full = ?, docket_number = ?, date_filed = ?, date_granularity = ?,
		     judges = ?, attorneys = ?, syllabus = ?, summary = ?, disposition = ?,
		     headnotes = ?, history = ?, other_dates = ?, citations = ?,
		     updated_at = datetime('now')
		 WHERE id = ?`,
		updated.CourtID, updated.NeedsCourtAssignment, updated.CaseName, updated.CaseNameShort,
		updated.CaseNameFull, updated.DocketNumber, updated.DateFiled.Format(dateLayout),
		string(updated.DateGranularity), updated.Judges, updated.Attorneys, updated.Syllabus,
		updated.Summary, updated.Disposition, updated.Headnotes, updated.History, updated.OtherDates,
		citations, updated.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cluster: %w", err)
	}

	for _, u := range plan.Opinions {
		if u.Index < 0 || u.Index >= len(updated.Opinions) {
			continue
		}
		op := updated.Opinions[u.Index]
		_, err = tx.ExecContext(ctx,
			`UPDATE opinions SET type = ?, author_str = ?, per_curiam = ?, xml_harvard = ? WHERE id = ?`,
			string(op.Type), op.AuthorStr, op.PerCuriam, op.XML, op.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update opinion: %w", err)
		}
	}

	for i := len(current.Opinions); i < len(updated.Opinions); i++ {
		if err := insertOpinion(ctx, tx, updated.ID, i, &updated.Opinions[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
