package source

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/corpus-merge/internal/schemas"
	"github.com/jonathan/corpus-merge/internal/types"
)

// CaseLaw is the JSON layout of one decision in a case-law corpus export
type CaseLaw struct {
	ID               int64          `json:"id"`
	Name             string         `json:"name"`
	NameAbbreviation string         `json:"name_abbreviation"`
	DecisionDate     string         `json:"decision_date"`
	DocketNumber     string         `json:"docket_number"`
	FirstPage        flexString     `json:"first_page"`
	Citations        []CaseLawCite  `json:"citations"`
	Court            CaseLawCourt   `json:"court"`
	Jurisdiction     CaseLawNamed   `json:"jurisdiction"`
	Reporter         CaseLawNamed   `json:"reporter"`
	Volume           CaseLawVolume  `json:"volume"`
	Casebody         CaseLawContent `json:"casebody"`
}

// CaseLawCite is one citation of a decision
type CaseLawCite struct {
	Cite string `json:"cite"`
	Type string `json:"type"`
}

// CaseLawCourt names the deciding court
type CaseLawCourt struct {
	Name             string `json:"name"`
	NameAbbreviation string `json:"name_abbreviation"`
	Slug             string `json:"slug"`
}

// CaseLawNamed is a jurisdiction or reporter reference
type CaseLawNamed struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Slug     string `json:"slug"`
}

// CaseLawVolume identifies the reporter volume
type CaseLawVolume struct {
	VolumeNumber flexString `json:"volume_number"`
}

// CaseLawContent holds the casebody markup
type CaseLawContent struct {
	Status string `json:"status"`
	Data   string `json:"data"`
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// ParseCaseLaw validates raw case-law JSON against the embedded schema and
// converts it to a source document. key is recorded as the document's
// origin and later used as the court resolver's path hint.
func ParseCaseLaw(key string, data []byte) (*types.SourceDocument, error) {
	if err := schemas.ValidateCaseLaw(data); err != nil {
		return nil, &DocumentError{Key: key, Message: "schema validation failed", Cause: err}
	}
	var cl CaseLaw
	if err := json.Unmarshal(data, &cl); err != nil {
		return nil, &DocumentError{Key: key, Message: "failed to decode", Cause: err}
	}

	doc := &types.SourceDocument{
		Key:                  key,
		SourceID:             cl.ID,
		CaseName:             strings.TrimSpace(cl.Name),
		CaseNameAbbreviation: strings.TrimSpace(cl.NameAbbreviation),
		DecisionDate:         strings.TrimSpace(cl.DecisionDate),
		DocketNumber:         strings.TrimSpace(cl.DocketNumber),
		Casebody:             cl.Casebody.Data,
		CourtName:            cl.Court.Name,
		Jurisdiction:         firstNonEmpty(cl.Jurisdiction.Slug, cl.Jurisdiction.Name),
		Reporter:             firstNonEmpty(cl.Reporter.FullName, cl.Reporter.Name),
		Volume:               string(cl.Volume.VolumeNumber),
		FirstPage:            string(cl.FirstPage),
		Hash:                 computeHash(data),
	}
	for _, c := range cl.Citations {
		doc.Citations = append(doc.Citations, types.Citation{Cite: c.Cite, Type: c.Type})
	}
	return doc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// computeHash computes SHA256 hash of raw document bytes
func computeHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
