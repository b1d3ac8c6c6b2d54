package importer

import (
	"strings"

	"github.com/jonathan/corpus-merge/internal/markup"
	"github.com/jonathan/corpus-merge/internal/reconcile"
	"github.com/jonathan/corpus-merge/internal/similarity"
	"github.com/jonathan/corpus-merge/internal/types"
)

// matchSignals are the pieces of evidence collected for one candidate
type matchSignals struct {
	names  []string
	docket bool
	pairs  []similarity.Pair // opinion pairs reaching the threshold
}

// matches reports whether the signals are strong enough to merge: a shared
// case-name token plus either an equal docket number or a close opinion
// text. Anything weaker is treated as a different case.
func (s matchSignals) matches(threshold int) bool {
	return len(s.names) > 0 && (s.docket || similarity.Best(s.pairs) >= threshold)
}

// candidateMatch is a candidate the document matched, with the opinion
// scores that were computed against it.
type candidateMatch struct {
	cluster *types.Cluster
	pairs   []similarity.Pair
}

// external is the cluster built from a document together with its cleaned
// opinion texts, so the texts are cleaned once however many candidates
// they are scored against.
type external struct {
	cluster *types.Cluster
	texts   []string
}

func newExternal(c *types.Cluster) *external {
	return &external{cluster: c, texts: reconcile.OpinionTexts(c.Opinions)}
}

func (im *Importer) signals(doc *types.SourceDocument, ext *external, candidate *types.Cluster) matchSignals {
	var s matchSignals
	s.names = im.winnower.Overlap(candidateName(candidate), doc.FullCaseName())
	if len(s.names) == 0 {
		return s
	}
	s.docket = sameDocket(candidate.DocketNumber, ext.cluster.DocketNumber)
	s.pairs = reconcile.ScoreOpinions(reconcile.OpinionTexts(candidate.Opinions), ext.texts, im.opts.MatchThreshold)
	return s
}

func candidateName(c *types.Cluster) string {
	name := c.CaseName
	if name == "" {
		name = c.CaseNameFull
	}
	if name == "" {
		name = c.CaseNameShort
	}
	return name
}

func sameDocket(a, b string) bool {
	a, b = markup.CleanDocketNumber(a), markup.CleanDocketNumber(b)
	return a != "" && strings.EqualFold(a, b)
}

// findMatches returns every candidate the document matches
func (im *Importer) findMatches(doc *types.SourceDocument, ext *external, candidates []*types.Cluster) []candidateMatch {
	var out []candidateMatch
	for _, c := range candidates {
		s := im.signals(doc, ext, c)
		if s.matches(im.opts.MatchThreshold) {
			out = append(out, candidateMatch{cluster: c, pairs: s.pairs})
		}
	}
	return out
}

// reusablePairs returns the scores computed at match time when the cluster
// re-read under its lock still has the same opinions, and nil otherwise so
// reconciliation scores afresh.
func reusablePairs(m candidateMatch, current *types.Cluster) []similarity.Pair {
	before := m.cluster.Opinions
	if len(before) != len(current.Opinions) {
		return nil
	}
	for i := range before {
		if before[i].ID != current.Opinions[i].ID || before[i].Markup() != current.Opinions[i].Markup() {
			return nil
		}
	}
	return m.pairs
}
