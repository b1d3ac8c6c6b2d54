// Package reconcile computes how an external record of a decision should be
// merged into the internal cluster for the same decision. Everything here is
// pure: it produces a Plan and never touches storage.
package reconcile

import (
	"time"

	"github.com/jonathan/corpus-merge/internal/types"
)

// Cluster fields a plan can update. The names double as column names in both
// stores.
const (
	FieldCaseName      = "case_name"
	FieldCaseNameShort = "case_name_short"
	FieldCaseNameFull  = "case_name_full"
	FieldDocketNumber  = "docket_number"
	FieldCourt         = "court_id"
	FieldDateFiled     = "date_filed"
	FieldJudges        = "judges"
	FieldAttorneys     = "attorneys"
	FieldSyllabus      = "syllabus"
	FieldSummary       = "summary"
	FieldDisposition   = "disposition"
	FieldHeadnotes     = "headnotes"
	FieldHistory       = "history"
	FieldOtherDates    = "other_dates"
)

// FieldUpdate is an automatic change to one cluster field
type FieldUpdate struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// DateUpdate replaces the filing date, either because none was stored or
// because the external date is more precise and agrees with it.
type DateUpdate struct {
	Value       time.Time             `json:"value"`
	Granularity types.DateGranularity `json:"granularity"`
}

// OpinionUpdate fills gaps in an existing opinion that matched an external
// opinion by text. Empty fields mean "leave as is".
type OpinionUpdate struct {
	OpinionID int64             `json:"opinion_id"`
	Index     int               `json:"index"` // position in the internal cluster's opinions
	Score     int               `json:"score"`
	Type      types.OpinionType `json:"type,omitempty"`
	AuthorStr string            `json:"author_str,omitempty"`
	PerCuriam bool              `json:"per_curiam,omitempty"`
	XML       string            `json:"xml,omitempty"`
}

func (u OpinionUpdate) changes() bool {
	return u.Type != "" || u.AuthorStr != "" || u.PerCuriam || u.XML != ""
}

// Plan is the outcome of reconciling one external record against one
// internal cluster. Updates are applied automatically; Diffs are queued for
// review and leave the internal values untouched.
type Plan struct {
	ClusterID    int64             `json:"cluster_id"`
	Updates      []FieldUpdate     `json:"updates,omitempty"`
	Date         *DateUpdate       `json:"date,omitempty"`
	Opinions     []OpinionUpdate   `json:"opinions,omitempty"`
	NewOpinions  []types.Opinion   `json:"new_opinions,omitempty"`
	NewCitations []string          `json:"new_citations,omitempty"`
	Diffs        []types.FieldDiff `json:"diffs,omitempty"`
}

// HasChanges reports whether the plan writes anything to the cluster itself.
func (p *Plan) HasChanges() bool {
	return len(p.Updates) > 0 || p.Date != nil || len(p.Opinions) > 0 ||
		len(p.NewOpinions) > 0 || len(p.NewCitations) > 0
}

// Empty reports whether the plan has neither changes nor diffs. Reconciling a
// record that was already merged yields an empty plan.
func (p *Plan) Empty() bool {
	return !p.HasChanges() && len(p.Diffs) == 0
}

// Apply returns a copy of c with the plan's automatic changes applied. Diffs
// are not applied. The input cluster is not modified.
func Apply(c *types.Cluster, p *Plan) *types.Cluster {
	out := *c
	out.Citations = append([]string(nil), c.Citations...)
	out.Opinions = append([]types.Opinion(nil), c.Opinions...)

	for _, u := range p.Updates {
		setField(&out, u.Field, u.New)
	}
	if p.Date != nil {
		out.DateFiled = p.Date.Value
		out.DateGranularity = p.Date.Granularity
	}
	for _, u := range p.Opinions {
		if u.Index < 0 || u.Index >= len(out.Opinions) {
			continue
		}
		op := &out.Opinions[u.Index]
		if u.Type != "" {
			op.Type = u.Type
		}
		if u.AuthorStr != "" {
			op.AuthorStr = u.AuthorStr
		}
		if u.PerCuriam {
			op.PerCuriam = true
		}
		if u.XML != "" {
			op.XML = u.XML
		}
	}
	for _, op := range p.NewOpinions {
		op.ClusterID = out.ID
		out.Opinions = append(out.Opinions, op)
	}
	out.Citations = append(out.Citations, p.NewCitations...)
	return &out
}

// Field returns the current value of a named cluster text field.
func Field(c *types.Cluster, field string) string {
	switch field {
	case FieldCaseName:
		return c.CaseName
	case FieldCaseNameShort:
		return c.CaseNameShort
	case FieldCaseNameFull:
		return c.CaseNameFull
	case FieldDocketNumber:
		return c.DocketNumber
	case FieldCourt:
		return c.CourtID
	case FieldJudges:
		return c.Judges
	case FieldAttorneys:
		return c.Attorneys
	case FieldSyllabus:
		return c.Syllabus
	case FieldSummary:
		return c.Summary
	case FieldDisposition:
		return c.Disposition
	case FieldHeadnotes:
		return c.Headnotes
	case FieldHistory:
		return c.History
	case FieldOtherDates:
		return c.OtherDates
	}
	return ""
}

func setField(c *types.Cluster, field, value string) {
	switch field {
	case FieldCaseName:
		c.CaseName = value
	case FieldCaseNameShort:
		c.CaseNameShort = value
	case FieldCaseNameFull:
		c.CaseNameFull = value
	case FieldDocketNumber:
		c.DocketNumber = value
	case FieldCourt:
		c.CourtID = value
		c.NeedsCourtAssignment = value == ""
	case FieldJudges:
		c.Judges = value
	case FieldAttorneys:
		c.Attorneys = value
	case FieldSyllabus:
		c.Syllabus = value
	case FieldSummary:
		c.Summary = value
	case FieldDisposition:
		c.Disposition = value
	case FieldHeadnotes:
		c.Headnotes = value
	case FieldHistory:
		c.History = value
	case FieldOtherDates:
		c.OtherDates = value
	}
}
