// Package types provides type definitions for the records that flow through the corpus-merge system.
package types

import (
	"github.com/go-playground/validator/v10"
)

// Citation is a single citation string attached to a source document
type Citation struct {
	Cite string `json:"cite" validate:"required"`
	Type string `json:"type,omitempty"` // "official", "parallel", ...
}

// SourceDocument is one imported unit from an external corpus. It is never
// persisted directly; only the fields extracted from it are.
type SourceDocument struct {
	Key                  string     `json:"key"`       // file path or object key the document was read from
	SourceID             int64      `json:"source_id"` // identifier assigned by the external corpus
	CaseName             string     `json:"name" validate:"required"`
	CaseNameAbbreviation string     `json:"name_abbreviation"`
	DecisionDate         string     `json:"decision_date" validate:"required"`
	DocketNumber         string     `json:"docket_number"`
	Casebody             string     `json:"casebody" validate:"required"`
	Citations            []Citation `json:"citations" validate:"dive"`
	CourtName            string     `json:"court_name"`
	Jurisdiction         string     `json:"jurisdiction,omitempty"`
	Reporter             string     `json:"reporter,omitempty"`
	Volume               string     `json:"volume,omitempty"`
	FirstPage            string     `json:"first_page,omitempty"`
	Hash                 string     `json:"hash,omitempty"` // SHA256 of the raw document bytes
}

// Validate validates the SourceDocument using the validator.
func (d *SourceDocument) Validate() error {
	validate := validator.New()
	return validate.Struct(d)
}

// FullCaseName returns the full and abbreviated names joined, which is the
// string compared against existing case names when matching.
func (d *SourceDocument) FullCaseName() string {
	if d.CaseNameAbbreviation == "" {
		return d.CaseName
	}
	return d.CaseName + " " + d.CaseNameAbbreviation
}

// CiteStrings returns the raw citation strings of the document.
func (d *SourceDocument) CiteStrings() []string {
	out := make([]string, 0, len(d.Citations))
	for _, c := range d.Citations {
		if c.Cite != "" {
			out = append(out, c.Cite)
		}
	}
	return out
}
