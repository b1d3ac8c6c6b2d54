package importer

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jonathan/corpus-merge/internal/reconcile"
	"github.com/jonathan/corpus-merge/internal/types"
)

// fakeStore is an in-memory Store for tests
type fakeStore struct {
	mu        sync.Mutex
	nextID    int64
	nextOpID  int64
	clusters  map[int64]*types.Cluster
	reviews   map[string]*types.PendingReview
	indexed   []int64
	creates   int
	applies   int
	failFind  error
	failApply error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clusters: make(map[int64]*types.Cluster),
		reviews:  make(map[string]*types.PendingReview),
	}
}

func cloneCluster(c *types.Cluster) *types.Cluster {
	out := *c
	out.Citations = append([]string(nil), c.Citations...)
	out.Opinions = append([]types.Opinion(nil), c.Opinions...)
	return &out
}

func (s *fakeStore) seed(c *types.Cluster) int64 {
	id, _ := s.CreateCluster(context.Background(), c)
	s.mu.Lock()
	s.creates--
	s.mu.Unlock()
	return id
}

func (s *fakeStore) FindCandidates(_ context.Context, q types.CandidateQuery) ([]*types.Cluster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFind != nil {
		return nil, s.failFind
	}
	var out []*types.Cluster
	for id := int64(1); id <= s.nextID; id++ {
		c, ok := s.clusters[id]
		if !ok {
			continue
		}
		if candidate(c, q) {
			out = append(out, cloneCluster(c))
		}
	}
	return out, nil
}

func candidate(c *types.Cluster, q types.CandidateQuery) bool {
	if q.CourtID != "" && c.CourtID == q.CourtID &&
		!c.DateFiled.Before(q.DateFrom) && !c.DateFiled.After(q.DateTo) {
		return true
	}
	if q.DocketNumber != "" && strings.EqualFold(c.DocketNumber, q.DocketNumber) {
		return true
	}
	for _, a := range c.Citations {
		for _, b := range q.Citations {
			if a == b {
				return true
			}
		}
	}
	return false
}

func (s *fakeStore) GetCluster(_ context.Context, id int64) (*types.Cluster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clusters[id]
	if !ok {
		return nil, nil
	}
	return cloneCluster(c), nil
}

func (s *fakeStore) CreateCluster(_ context.Context, c *types.Cluster) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.creates++
	stored := cloneCluster(c)
	stored.ID = s.nextID
	for i := range stored.Opinions {
		s.nextOpID++
		stored.Opinions[i].ID = s.nextOpID
		stored.Opinions[i].ClusterID = stored.ID
	}
	s.clusters[stored.ID] = stored
	return stored.ID, nil
}

func (s *fakeStore) ApplyPlan(_ context.Context, plan *reconcile.Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failApply != nil {
		return s.failApply
	}
	c, ok := s.clusters[plan.ClusterID]
	if !ok {
		return errors.New("no such cluster")
	}
	updated := reconcile.Apply(c, plan)
	for i := range updated.Opinions {
		if updated.Opinions[i].ID == 0 {
			s.nextOpID++
			updated.Opinions[i].ID = s.nextOpID
		}
	}
	s.clusters[plan.ClusterID] = updated
	s.applies++
	return nil
}

func (s *fakeStore) EnqueueReview(_ context.Context, r *types.PendingReview) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[r.Fingerprint]; ok {
		return false, nil
	}
	s.reviews[r.Fingerprint] = r
	return true, nil
}

func (s *fakeStore) EnqueueIndex(_ context.Context, clusterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexed = append(s.indexed, clusterID)
	return nil
}

func (s *fakeStore) reviewsOfKind(kind string) []*types.PendingReview {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.PendingReview
	for _, r := range s.reviews {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// sliceSource yields fixed documents; keys listed in failed are reported as
// unreadable.
type sliceSource struct {
	docs   []*types.SourceDocument
	failed []string
}

func (s sliceSource) Walk(ctx context.Context, fn VisitFunc) error {
	for _, key := range s.failed {
		if err := fn(key, nil, errors.New("unexpected end of JSON input")); err != nil {
			return err
		}
	}
	for _, d := range s.docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(d.Key, d, nil); err != nil {
			return err
		}
	}
	return nil
}
