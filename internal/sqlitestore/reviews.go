package sqlitestore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/corpus-merge/internal/types"
)

// EnqueueReview queues a review, reporting false when one with the same
// fingerprint is already queued.
func (s *Store) EnqueueReview(ctx context.Context, r *types.PendingReview) (bool, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Fingerprint == "" {
		r.Fingerprint = r.ComputeFingerprint()
	}
	diffs, err := encodeJSON(r.Diffs, "[]")
	if err != nil {
		return false, fmt.Errorf("failed to encode diffs: %w", err)
	}
	candidates, err := encodeJSON(r.Candidates, "[]")
	if err != nil {
		return false, fmt.Errorf("failed to encode candidates: %w", err)
	}
	var clusterID any
	if r.ClusterID != 0 {
		clusterID = r.ClusterID
	}

	res, err := s.conn.ExecContext(ctx,
		`INSERT INTO pending_reviews (id, cluster_id, kind, source_key, diffs, candidates, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (fingerprint) DO NOTHING`,
		r.ID.String(), clusterID, r.Kind, r.SourceKey, diffs, candidates, r.Fingerprint,
	)
	if err != nil {
		return false, fmt.Errorf("failed to enqueue review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// ListPendingReviews returns queued reviews, oldest first. An empty kind
// lists every kind.
func (s *Store) ListPendingReviews(ctx context.Context, kind string, limit int) ([]types.PendingReview, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, COALESCE(cluster_id, 0), kind, source_key, diffs, candidates, fingerprint, created_at
		 FROM pending_reviews
		 WHERE ?1 = '' OR kind = ?1
		 ORDER BY created_at, rowid
		 LIMIT ?2`,
		kind, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []types.PendingReview
	for rows.Next() {
		var r types.PendingReview
		var id, diffs, candidates, created string
		if err := rows.Scan(&id, &r.ClusterID, &r.Kind, &r.SourceKey, &diffs, &candidates,
			&r.Fingerprint, &created); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse review id: %w", err)
		}
		if err := json.Unmarshal([]byte(diffs), &r.Diffs); err != nil {
			return nil, fmt.Errorf("failed to decode diffs: %w", err)
		}
		if err := json.Unmarshal([]byte(candidates), &r.Candidates); err != nil {
			return nil, fmt.Errorf("failed to decode candidates: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.DateTime, created)
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

// ResolveReview removes a review once it has been decided
func (s *Store) ResolveReview(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.conn.ExecContext(ctx, `DELETE FROM pending_reviews WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("failed to resolve review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// EnqueueIndex marks a cluster for (re)indexing
func (s *Store) EnqueueIndex(ctx context.Context, clusterID int64) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO search_index_queue (cluster_id) VALUES (?)
		 ON CONFLICT (cluster_id) DO UPDATE SET enqueued_at = datetime('now')`,
		clusterID,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue cluster for indexing: %w", err)
	}
	return nil
}

// DequeueIndex removes and returns up to limit queued cluster IDs, oldest first.
func (s *Store) DequeueIndex(ctx context.Context, limit int) ([]int64, error) {
	rows, err := s.conn.QueryContext(ctx,
		`DELETE FROM search_index_queue
		 WHERE cluster_id IN (
		     SELECT cluster_id FROM search_index_queue ORDER BY enqueued_at, cluster_id LIMIT ?)
		 RETURNING cluster_id`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue index entries: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan index entry: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
