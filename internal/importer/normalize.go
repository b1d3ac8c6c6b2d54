package importer

import (
	"time"

	"github.com/jonathan/corpus-merge/internal/courts"
	"github.com/jonathan/corpus-merge/internal/markup"
	"github.com/jonathan/corpus-merge/internal/types"
)

// normalized is a source document after markup parsing
type normalized struct {
	body        *markup.Casebody
	date        time.Time
	granularity types.DateGranularity
}

func normalize(doc *types.SourceDocument) (*normalized, error) {
	if err := doc.Validate(); err != nil {
		return nil, &ImportError{Key: doc.Key, Message: "invalid source document", Cause: err}
	}
	body, err := markup.ParseCasebody(doc.Casebody)
	if err != nil {
		return nil, err
	}
	date, g, err := markup.ParsePartialDate(doc.DecisionDate)
	if err != nil {
		return nil, err
	}
	return &normalized{body: body, date: date, granularity: g}, nil
}

// BuildCluster assembles the cluster a source document describes. It is
// what gets created when nothing matches and what gets reconciled against
// an existing cluster otherwise.
func BuildCluster(doc *types.SourceDocument, body *markup.Casebody, date time.Time, g types.DateGranularity, court courts.Result) *types.Cluster {
	c := &types.Cluster{
		CourtID:              court.CourtID,
		NeedsCourtAssignment: !court.Resolved(),
		CaseName:             doc.CaseNameAbbreviation,
		CaseNameFull:         doc.CaseName,
		DocketNumber:         markup.CleanDocketNumber(doc.DocketNumber),
		DateFiled:            date,
		DateGranularity:      g,
		Judges:               markup.FormatJudges(body.Judges),
		Attorneys:            body.Attorneys,
		Syllabus:             body.Syllabus,
		Summary:              body.Summary,
		Disposition:          body.Disposition,
		Headnotes:            body.Headnotes,
		History:              body.History,
		OtherDates:           body.OtherDates,
		Citations:            doc.CiteStrings(),
		SourceKey:            doc.Key,
	}
	if c.CaseName == "" {
		c.CaseName = doc.CaseName
	}
	if c.DocketNumber == "" {
		c.DocketNumber = body.DocketNumber
	}
	for _, b := range body.Opinions {
		c.Opinions = append(c.Opinions, types.Opinion{
			Type:      b.Type,
			AuthorStr: b.Author.Name,
			PerCuriam: b.Author.PerCuriam,
			PlainText: markup.PlainText(b.Markup),
			XML:       b.Markup,
		})
	}
	return c
}
