package types

import "time"

// OpinionType is an ordered type code; the numeric prefix gives the display order.
type OpinionType string

// Opinion type codes
const (
	OpinionCombined          OpinionType = "010combined"
	OpinionUnanimous         OpinionType = "015unamimous"
	OpinionLead              OpinionType = "020lead"
	OpinionPlurality         OpinionType = "025plurality"
	OpinionConcurrence       OpinionType = "030concurrence"
	OpinionConcurrenceInPart OpinionType = "035concurrenceinpart"
	OpinionDissent           OpinionType = "040dissent"
	OpinionAddendum          OpinionType = "050addendum"
	OpinionRemittitur        OpinionType = "060remittitur"
	OpinionRehearing         OpinionType = "070rehearing"
	OpinionOnTheMerits       OpinionType = "080onthemerits"
	OpinionOnMotionToStrike  OpinionType = "090onmotiontostrike"
)

// Cluster is the internal record for one judicial decision. It owns one or
// more opinions.
type Cluster struct {
	ID                   int64           `json:"id"`
	CourtID              string          `json:"court_id,omitempty"` // empty when unresolved
	NeedsCourtAssignment bool            `json:"needs_court_assignment"`
	CaseName             string          `json:"case_name"`
	CaseNameShort        string          `json:"case_name_short,omitempty"`
	CaseNameFull         string          `json:"case_name_full,omitempty"`
	DocketNumber         string          `json:"docket_number,omitempty"`
	DateFiled            time.Time       `json:"date_filed"`
	DateGranularity      DateGranularity `json:"date_granularity"`
	Judges               string          `json:"judges,omitempty"`
	Attorneys            string          `json:"attorneys,omitempty"`
	Syllabus             string          `json:"syllabus,omitempty"`
	Summary              string          `json:"summary,omitempty"`
	Disposition          string          `json:"disposition,omitempty"`
	Headnotes            string          `json:"headnotes,omitempty"`
	History              string          `json:"history,omitempty"`
	OtherDates           string          `json:"other_dates,omitempty"`
	Citations            []string        `json:"citations,omitempty"`
	SourceKey            string          `json:"source_key,omitempty"`
	Opinions             []Opinion       `json:"opinions,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Opinion is one opinion inside a cluster
type Opinion struct {
	ID        int64       `json:"id"`
	ClusterID int64       `json:"cluster_id"`
	Type      OpinionType `json:"type"`
	AuthorStr string      `json:"author_str,omitempty"`
	PerCuriam bool        `json:"per_curiam"`
	PlainText string      `json:"plain_text,omitempty"`
	HTML      string      `json:"html,omitempty"`        // markup held by the internal record
	XML       string      `json:"xml_harvard,omitempty"` // markup imported from the casebody
}

// Markup returns whichever markup variant the opinion carries, preferring the
// imported casebody markup.
func (o *Opinion) Markup() string {
	if o.XML != "" {
		return o.XML
	}
	if o.HTML != "" {
		return o.HTML
	}
	return o.PlainText
}
