package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Review kinds
const (
	ReviewFieldConflict   = "field_conflict"
	ReviewAmbiguousMatch  = "ambiguous_match"
	ReviewCourtUnresolved = "court_unresolved"
)

// FieldDiff is the pair (internal value, external value) for a single field
// when the two disagree in a way that needs a decision.
type FieldDiff struct {
	Field    string `json:"field"`
	Internal string `json:"internal"`
	External string `json:"external"`
}

// PendingReview is a queued item for the external review UI.
type PendingReview struct {
	ID         uuid.UUID   `json:"id"`
	ClusterID  int64       `json:"cluster_id,omitempty"`
	Kind       string      `json:"kind"`
	SourceKey  string      `json:"source_key,omitempty"`
	Diffs      []FieldDiff `json:"diffs,omitempty"`
	Candidates []int64     `json:"candidates,omitempty"`
	// Fingerprint identifies the review's content; re-importing a document
	// that raises the same review does not queue it twice.
	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`
}

// ComputeFingerprint returns a stable hash of the review's kind, cluster,
// source, diffs and candidates.
func (r *PendingReview) ComputeFingerprint() string {
	payload, _ := json.Marshal(struct {
		Kind       string      `json:"k"`
		ClusterID  int64       `json:"c"`
		SourceKey  string      `json:"s"`
		Diffs      []FieldDiff `json:"d"`
		Candidates []int64     `json:"n"`
	}{r.Kind, r.ClusterID, r.SourceKey, r.Diffs, r.Candidates})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
