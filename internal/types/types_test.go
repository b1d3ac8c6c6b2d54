package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourceDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     SourceDocument
		wantErr bool
	}{
		{
			name: "valid",
			doc:  SourceDocument{CaseName: "Doe v. Roe", DecisionDate: "2009-05-14", Casebody: "<casebody/>"},
		},
		{
			name:    "missing name",
			doc:     SourceDocument{DecisionDate: "2009-05-14", Casebody: "<casebody/>"},
			wantErr: true,
		},
		{
			name:    "missing casebody",
			doc:     SourceDocument{CaseName: "Doe v. Roe", DecisionDate: "2009"},
			wantErr: true,
		},
		{
			name: "empty citation",
			doc: SourceDocument{CaseName: "Doe v. Roe", DecisionDate: "2009", Casebody: "<casebody/>",
				Citations: []Citation{{Cite: ""}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSourceDocument_Names(t *testing.T) {
	doc := SourceDocument{CaseName: "John DOE v. ROE CORPORATION", CaseNameAbbreviation: "Doe v. Roe Corp."}
	assert.Equal(t, "John DOE v. ROE CORPORATION Doe v. Roe Corp.", doc.FullCaseName())

	doc.CaseNameAbbreviation = ""
	assert.Equal(t, "John DOE v. ROE CORPORATION", doc.FullCaseName())
}

func TestSourceDocument_CiteStrings(t *testing.T) {
	doc := SourceDocument{Citations: []Citation{{Cite: "454 Mass. 12"}, {Cite: ""}, {Cite: "903 N.E.2d 1"}}}
	assert.Equal(t, []string{"454 Mass. 12", "903 N.E.2d 1"}, doc.CiteStrings())
	assert.Empty(t, (&SourceDocument{}).CiteStrings())
}

func TestOpinion_Markup(t *testing.T) {
	assert.Equal(t, "<p>xml</p>", (&Opinion{XML: "<p>xml</p>", HTML: "<p>html</p>"}).Markup())
	assert.Equal(t, "<p>html</p>", (&Opinion{HTML: "<p>html</p>", PlainText: "text"}).Markup())
	assert.Equal(t, "text", (&Opinion{PlainText: "text"}).Markup())
}

func TestPendingReview_Fingerprint(t *testing.T) {
	base := PendingReview{
		ClusterID: 7,
		Kind:      ReviewFieldConflict,
		SourceKey: "mass/1.json",
		Diffs:     []FieldDiff{{Field: "attorneys", Internal: "A", External: "B"}},
	}

	same := base
	assert.Equal(t, base.ComputeFingerprint(), same.ComputeFingerprint())
	assert.Len(t, base.ComputeFingerprint(), 64)

	// ID and timestamps do not take part.
	same.ID[0] = 1
	assert.Equal(t, base.ComputeFingerprint(), same.ComputeFingerprint())

	changed := base
	changed.Diffs = []FieldDiff{{Field: "attorneys", Internal: "A", External: "C"}}
	assert.NotEqual(t, base.ComputeFingerprint(), changed.ComputeFingerprint())

	other := base
	other.Kind = ReviewAmbiguousMatch
	assert.NotEqual(t, base.ComputeFingerprint(), other.ComputeFingerprint())
}
