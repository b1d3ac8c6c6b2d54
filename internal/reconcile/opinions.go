package reconcile

import (
	"github.com/jonathan/corpus-merge/internal/markup"
	"github.com/jonathan/corpus-merge/internal/similarity"
	"github.com/jonathan/corpus-merge/internal/types"
)

// OpinionTexts cleans the markup of each opinion for text comparison
func OpinionTexts(ops []types.Opinion) []string {
	out := make([]string, len(ops))
	for i := range ops {
		out[i] = similarity.CleanBodyContent(ops[i].Markup())
	}
	return out
}

// ScoreOpinions scores cleaned external opinion texts against cleaned
// internal ones, keeping pairs that reach threshold, best first. The result
// is never nil so it can be passed back as Options.OpinionPairs.
func ScoreOpinions(internal, external []string, threshold int) []similarity.Pair {
	pairs := similarity.ScorePairs(internal, external, threshold)
	if pairs == nil {
		pairs = []similarity.Pair{}
	}
	return pairs
}

// reconcileOpinions pairs external opinions with internal ones by text
// similarity, best scores first, each opinion used at most once. External
// opinions left without a partner are appended as new opinions.
func reconcileOpinions(p *Plan, internal, external []types.Opinion, opts Options) {
	pairs := opts.OpinionPairs
	if pairs == nil {
		pairs = ScoreOpinions(OpinionTexts(internal), OpinionTexts(external), opts.MatchThreshold)
	}

	usedIn := make(map[int]bool)
	matched := make(map[int]bool)
	for _, pr := range pairs {
		if pr.Internal >= len(internal) || pr.External >= len(external) {
			continue
		}
		if usedIn[pr.Internal] || matched[pr.External] {
			continue
		}
		usedIn[pr.Internal] = true
		matched[pr.External] = true
		mergeOpinion(p, pr, &internal[pr.Internal], &external[pr.External])
	}

	for e, op := range external {
		if !matched[e] {
			op.ID = 0
			op.ClusterID = 0
			p.NewOpinions = append(p.NewOpinions, op)
		}
	}
}

func mergeOpinion(p *Plan, pr similarity.Pair, in, ex *types.Opinion) {
	u := OpinionUpdate{OpinionID: in.ID, Index: pr.Internal, Score: pr.Score}

	if in.XML == "" && ex.XML != "" {
		u.XML = ex.XML
	}

	switch {
	case ex.Type == "" || ex.Type == in.Type || ex.Type == types.OpinionCombined:
	case in.Type == "" || in.Type == types.OpinionCombined:
		u.Type = ex.Type
	default:
		p.diff(opinionField(in.ID, "type"), string(in.Type), string(ex.Type))
	}

	switch {
	case isBlank(ex.AuthorStr):
	case isBlank(in.AuthorStr):
		u.AuthorStr = ex.AuthorStr
		u.PerCuriam = ex.PerCuriam && !in.PerCuriam
	case !sameAuthor(in.AuthorStr, ex.AuthorStr):
		p.diff(opinionField(in.ID, "author_str"), in.AuthorStr, ex.AuthorStr)
	}

	if u.changes() {
		p.Opinions = append(p.Opinions, u)
	}
}

func sameAuthor(a, b string) bool {
	ka := surnameKeys(markup.ExtractAuthor(a).Surnames)
	kb := surnameKeys(markup.ExtractAuthor(b).Surnames)
	if len(ka) == 0 || len(kb) == 0 {
		return comparable(a) == comparable(b)
	}
	for k := range kb {
		if _, ok := ka[k]; ok {
			return true
		}
	}
	return false
}
