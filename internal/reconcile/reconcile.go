package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/corpus-merge/internal/markup"
	"github.com/jonathan/corpus-merge/internal/similarity"
	"github.com/jonathan/corpus-merge/internal/types"
)

// Options tune reconciliation
type Options struct {
	// MatchThreshold is the minimum text similarity (0-100) for an external
	// opinion to be treated as the same as an internal one.
	MatchThreshold int

	// OpinionPairs, when non-nil, are scores already computed by
	// ScoreOpinions for exactly these internal and external opinions.
	OpinionPairs []similarity.Pair
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{MatchThreshold: similarity.DefaultThreshold}
}

// freeTextFields are filled when blank and otherwise reported as a diff
var freeTextFields = []string{
	FieldCaseNameFull,
	FieldAttorneys,
	FieldSyllabus,
	FieldSummary,
	FieldDisposition,
	FieldHeadnotes,
	FieldHistory,
	FieldOtherDates,
}

// fillOnlyFields are adopted when the internal value is blank and otherwise
// left alone: the sources spell these differently by convention.
var fillOnlyFields = []string{
	FieldCaseName,
	FieldCaseNameShort,
}

// Reconcile compares an internal cluster with the cluster built from an
// external document and returns the merge plan. Neither input is modified.
//
// A populated free-text value is never replaced automatically: a differing
// external value becomes a diff. Judges are the exception, where an external
// superset of surnames is merged.
func Reconcile(internal, external *types.Cluster, opts Options) *Plan {
	if opts.MatchThreshold <= 0 {
		opts.MatchThreshold = similarity.DefaultThreshold
	}
	p := &Plan{ClusterID: internal.ID}

	for _, f := range fillOnlyFields {
		if isBlank(Field(internal, f)) && !isBlank(Field(external, f)) {
			p.update(f, Field(internal, f), Field(external, f))
		}
	}
	for _, f := range freeTextFields {
		reconcileText(p, f, Field(internal, f), Field(external, f))
	}
	reconcileDocket(p, internal.DocketNumber, external.DocketNumber)
	reconcileCourt(p, internal.CourtID, external.CourtID)
	reconcileJudges(p, internal.Judges, external.Judges)
	reconcileDate(p, internal, external)
	reconcileCitations(p, internal.Citations, external.Citations)
	reconcileOpinions(p, internal.Opinions, external.Opinions, opts)

	return p
}

func (p *Plan) update(field, old, value string) {
	p.Updates = append(p.Updates, FieldUpdate{Field: field, Old: old, New: value})
}

func (p *Plan) diff(field, internal, external string) {
	p.Diffs = append(p.Diffs, types.FieldDiff{Field: field, Internal: internal, External: external})
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// comparable reduces a text field to lower-case words, ignoring markup, so
// that whitespace and case differences never count as a change.
func comparable(s string) string {
	if strings.Contains(s, "<") {
		s = markup.StripTags(s)
	}
	return strings.ToLower(markup.CollapseWhitespace(s))
}

func reconcileText(p *Plan, field, internal, external string) {
	if isBlank(external) {
		return
	}
	if isBlank(internal) {
		p.update(field, internal, external)
		return
	}
	if comparable(internal) != comparable(external) {
		p.diff(field, internal, external)
	}
}

func reconcileDocket(p *Plan, internal, external string) {
	ex := markup.CleanDocketNumber(external)
	if ex == "" {
		return
	}
	if isBlank(internal) {
		p.update(FieldDocketNumber, internal, ex)
		return
	}
	if !strings.EqualFold(markup.CleanDocketNumber(internal), ex) {
		p.diff(FieldDocketNumber, internal, ex)
	}
}

// reconcileCourt fills a missing court. An assigned court is never replaced
// automatically.
func reconcileCourt(p *Plan, internal, external string) {
	if external == "" || internal == external {
		return
	}
	if internal == "" {
		p.update(FieldCourt, internal, external)
		return
	}
	p.diff(FieldCourt, internal, external)
}

// reconcileJudges merges surname sets. An external superset is adopted as
// the union; a partial overlap with new names on both sides is reported as a
// diff whose external value is the union.
func reconcileJudges(p *Plan, internal, external string) {
	ext := markup.ExtractJudgeSurnames(external)
	if len(ext) == 0 {
		return
	}
	if isBlank(internal) {
		p.update(FieldJudges, internal, markup.FormatJudges(ext))
		return
	}
	in := markup.ExtractJudgeSurnames(internal)
	if len(in) == 0 {
		p.diff(FieldJudges, internal, markup.FormatJudges(ext))
		return
	}

	inKeys := surnameKeys(in)
	extKeys := surnameKeys(ext)
	shared := 0
	for k := range extKeys {
		if _, ok := inKeys[k]; ok {
			shared++
		}
	}
	union := markup.FormatJudges(markup.MergeSurnames(in, ext))

	switch {
	case shared == len(extKeys):
		// external adds nothing
	case shared == 0:
		// no common judge: likely different panels, keep ours
	case shared == len(inKeys):
		p.update(FieldJudges, internal, union)
	default:
		p.diff(FieldJudges, internal, union)
	}
}

func surnameKeys(names []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(names))
	for _, n := range names {
		keys[markup.NormalizeSurname(n)] = struct{}{}
	}
	return keys
}

// reconcileDate compares dates at the coarser of the two granularities. When
// they agree and the external date is more precise, it replaces the stored
// one.
func reconcileDate(p *Plan, internal, external *types.Cluster) {
	if external.DateFiled.IsZero() {
		return
	}
	extG := granularity(external.DateGranularity)
	if internal.DateFiled.IsZero() {
		p.Date = &DateUpdate{Value: external.DateFiled, Granularity: extG}
		return
	}
	inG := granularity(internal.DateGranularity)
	common := types.Coarser(inG, extG)
	if !common.Truncate(internal.DateFiled).Equal(common.Truncate(external.DateFiled)) {
		p.diff(FieldDateFiled, FormatDate(internal.DateFiled, inG), FormatDate(external.DateFiled, extG))
		return
	}
	if extG.Finer(inG) {
		p.Date = &DateUpdate{Value: external.DateFiled, Granularity: extG}
	}
}

func granularity(g types.DateGranularity) types.DateGranularity {
	if g == "" {
		return types.GranularityDay
	}
	return g
}

// FormatDate renders a date with only the precision actually known.
func FormatDate(t time.Time, g types.DateGranularity) string {
	switch g {
	case types.GranularityYear:
		return t.Format("2006")
	case types.GranularityMonth:
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

func reconcileCitations(p *Plan, internal, external []string) {
	have := make(map[string]struct{}, len(internal))
	for _, c := range internal {
		have[comparable(c)] = struct{}{}
	}
	for _, c := range external {
		key := comparable(c)
		if key == "" {
			continue
		}
		if _, ok := have[key]; ok {
			continue
		}
		have[key] = struct{}{}
		p.NewCitations = append(p.NewCitations, markup.CollapseWhitespace(c))
	}
}

func opinionField(id int64, name string) string {
	return fmt.Sprintf("opinions.%d.%s", id, name)
}
