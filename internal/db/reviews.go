package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/corpus-merge/internal/types"
)

// -----------------------------------------------------------------------------
// Review Queue Methods
// -----------------------------------------------------------------------------

// EnqueueReview queues a review for the review UI. It returns false when a
// review with the same fingerprint is already queued.
func (db *DB) EnqueueReview(ctx context.Context, r *types.PendingReview) (bool, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Fingerprint == "" {
		r.Fingerprint = r.ComputeFingerprint()
	}
	diffs, err := json.Marshal(r.Diffs)
	if err != nil {
		return false, fmt.Errorf("failed to marshal diffs: %w", err)
	}
	if r.Diffs == nil {
		diffs = []byte("[]")
	}

	var clusterID *int64
	if r.ClusterID != 0 {
		clusterID = &r.ClusterID
	}

	tag, err := db.pool.Exec(ctx,
		`INSERT INTO pending_reviews (id, cluster_id, kind, source_key, diffs, candidates, fingerprint)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (fingerprint) DO NOTHING`,
		r.ID, clusterID, r.Kind, r.SourceKey, diffs, nonNilIDs(r.Candidates), r.Fingerprint,
	)
	if err != nil {
		return false, fmt.Errorf("failed to enqueue review: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListPendingReviews returns queued reviews, oldest first. An empty kind
// lists every kind.
func (db *DB) ListPendingReviews(ctx context.Context, kind string, limit int) ([]types.PendingReview, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, COALESCE(cluster_id, 0), kind, source_key, diffs, candidates, fingerprint, created_at
		 FROM pending_reviews
		 WHERE $1 = '' OR kind = $1
		 ORDER BY created_at, id
		 LIMIT $2`,
		kind, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []types.PendingReview
	for rows.Next() {
		var r types.PendingReview
		var diffs []byte
		if err := rows.Scan(&r.ID, &r.ClusterID, &r.Kind, &r.SourceKey, &diffs, &r.Candidates,
			&r.Fingerprint, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		if err := json.Unmarshal(diffs, &r.Diffs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal diffs: %w", err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

// ResolveReview removes a review once it has been decided
func (db *DB) ResolveReview(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM pending_reviews WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to resolve review: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// -----------------------------------------------------------------------------
// Search Index Queue Methods
// -----------------------------------------------------------------------------

// EnqueueIndex marks a cluster for (re)indexing. Queuing an already queued
// cluster refreshes its timestamp.
func (db *DB) EnqueueIndex(ctx context.Context, clusterID int64) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO search_index_queue (cluster_id) VALUES ($1)
		 ON CONFLICT (cluster_id) DO UPDATE SET enqueued_at = NOW()`,
		clusterID,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue cluster for indexing: %w", err)
	}
	return nil
}

// DequeueIndex removes and returns up to limit queued cluster IDs, oldest
// first.
func (db *DB) DequeueIndex(ctx context.Context, limit int) ([]int64, error) {
	rows, err := db.pool.Query(ctx,
		`DELETE FROM search_index_queue
		 WHERE cluster_id IN (
		     SELECT cluster_id FROM search_index_queue
		     ORDER BY enqueued_at LIMIT $1
		     FOR UPDATE SKIP LOCKED)
		 RETURNING cluster_id`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue index entries: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan index entries: %w", err)
	}
	return ids, nil
}
