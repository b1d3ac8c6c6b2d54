package types

import "time"

// CandidateQuery selects the existing clusters a source document could
// belong to. A cluster is a candidate when it shares a citation or docket
// number with the document, or sits in the same court within the date
// window.
type CandidateQuery struct {
	CourtID      string
	Citations    []string
	DocketNumber string
	DateFrom     time.Time
	DateTo       time.Time
}

// YearWindow returns a query window covering the calendar year of t. Stored
// dates can be year-precise, so matching never narrows below a year.
func YearWindow(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, -1)
}
