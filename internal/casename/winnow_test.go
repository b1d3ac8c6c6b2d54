package casename

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlap_CaseNames(t *testing.T) {
	w := NewDefaultWinnower()

	tests := []struct {
		name         string
		full         string
		abbreviation string
		existing     string
		overlaps     int
	}{
		{
			name:         "united states boilerplate only",
			full:         "UNITED STATES of America, Plaintiff-Appellee, v. Wayne VINSON, Defendant-Appellant ",
			abbreviation: "United States v. Vinson",
			existing:     "United States v. Frank Esquivel",
			overlaps:     0,
		},
		{
			name:         "initials",
			full:         "In the matter of S.J.S., a minor child. D.L.M. and D.E.M., Petitioners/Respondents v. T.J.S.",
			abbreviation: "D.L.M. v. T.J.S.",
			existing:     "D.L.M. v. T.J.S.",
			overlaps:     2,
		},
		{
			name:         "company name",
			full:         "Appeal of HAMILTON & CHAMBERS CO., INC.",
			abbreviation: "Appeal of Hamilton & Chambers Co.",
			existing:     "Appeal of Hamilton & Chambers Co.",
			overlaps:     4,
		},
		{
			name: "different case",
			full: "Henry B. Wesselman et al., as Executors of Blanche Wesselman, Deceased, Respondents, " +
				"v. The Engel Company, Inc., et al., Appellants, et al., Defendants",
			abbreviation: "Wesselman v. Engel Co.",
			existing:     " McQuillan v. Schechter",
			overlaps:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlap := w.Overlap(tt.existing, tt.full+" "+tt.abbreviation)
			assert.Len(t, overlap, tt.overlaps, "overlap: %v", overlap)
			assert.Equal(t, tt.overlaps > 0, w.Related(tt.existing, tt.full+" "+tt.abbreviation))
		})
	}
}

func TestWinnow(t *testing.T) {
	w := NewDefaultWinnower()

	assert.Equal(t, []string{"dlm", "tjs"}, w.Winnow("D.L.M. v. T.J.S."))
	assert.Equal(t, []string{"appeal", "chambers", "co", "hamilton"}, w.Winnow("Appeal of Hamilton & Chambers Co."))
	assert.Equal(t, []string{"nunez", "obrien"}, w.Winnow("Núñez v. O’Brien"))
	assert.Empty(t, w.Winnow("United States of America v. A. B."))
	assert.Empty(t, w.Winnow(""))
}

func TestNewWinnower_CustomStoplist(t *testing.T) {
	w := NewWinnower([]string{"Co", "Appeal"})

	assert.Equal(t, []string{"chambers", "hamilton", "of"}, w.Winnow("Appeal of Hamilton & Chambers Co."))
	assert.Equal(t, []string{"chambers", "hamilton"}, w.Overlap("Hamilton Chambers", "Appeal of Hamilton & Chambers Co."))
}

func TestDefaultStopwords_ReturnsCopy(t *testing.T) {
	a := DefaultStopwords()
	a[0] = "changed"
	assert.Equal(t, "united", DefaultStopwords()[0])
}
