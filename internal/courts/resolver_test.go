package courts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	reg, err := DefaultRegistry()
	require.NoError(t, err)
	return NewResolver(reg)
}

func TestResolve_StateCourtsFromPath(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name     string
		court    string
		path     string
		expected string
	}{
		{"california appellate division", "California Superior Court  Appellate Division, Kern County.",
			"california/supreme_court_opinions/documents/0dc538c63bd07a28.xml", "calappdeptsuperct"},
		{"california appellate department", "California Superior Court  Appellate Department, Sacramento.",
			"california/supreme_court_opinions/documents/0dc538c63bd07a28.xml", "calappdeptsuperct"},
		{"connecticut appellate session", "Appellate Session of the Superior Court",
			"connecticut/appellate_court_opinions/documents/0412a06c60a7c2a2.xml", "connsuperct"},
		{"new jersey errors and appeals", "Court of Errors and Appeals.",
			"new_jersey/supreme_court_opinions/documents/0032e55e607f4525.xml", "nj"},
		{"new jersey chancery", "Court of Chancery",
			"new_jersey/supreme_court_opinions/documents/0032e55e607f4525.xml", "njch"},
		{"connecticut workers comp", "Workers' Compensation Commission",
			"connecticut/workers_compensation_commission/documents/0902142af68ef9df.xml", "connworkcompcom"},
		{"connecticut superior county", "Superior Court  New Haven County",
			"connecticut/superior_court_opinions/documents/0218655b78d2135b.xml", "connsuperct"},
		{"connecticut superior comma", "Superior Court, Hartford County",
			"connecticut/superior_court_opinions/documents/0218655b78d2135b.xml", "connsuperct"},
		{"connecticut review board", "Compensation Review Board  WORKERS' COMPENSATION COMMISSION",
			"connecticut/workers_compensation_commission/documents/00397336451f6659.xml", "connworkcompcom"},
		{"connecticut circuit appellate division", "Appellate Division Of The Circuit Court",
			"connecticut/superior_court_opinions/documents/03dd9ec415bf5bf4.xml", "connsuperct"},
		{"tennessee law and equity", "Superior Court for Law and Equity",
			"tennessee/court_opinions/documents/01236c757d1128fd.xml", "tennsuperct"},
		{"delaware oyer and terminer", "Courts of General Sessions and Oyer and Terminer of Delaware",
			"delaware/court_opinions/documents/108da18f9278da90.xml", "delsuperct"},
		{"delaware us circuit", "Circuit Court of the United States of Delaware",
			"delaware/court_opinions/documents/108da18f9278da90.xml", "circtdel"},
		{"delaware circuit", "Circuit Court of Delaware",
			"delaware/court_opinions/documents/108da18f9278da90.xml", "circtdel"},
		{"delaware quarter sessions", "Court of Quarter Sessions Court of Delaware,  Kent County.",
			"delaware/court_opinions/documents/f01f1724cc350bb9.xml", "delsuperct"},
		{"florida dca", "District Court of Appeal.",
			"florida/court_opinions/documents/25ce1e2a128df7ff.xml", "fladistctapp"},
		{"florida dca city", "District Court of Appeal, Lakeland, Florida.",
			"florida/court_opinions/documents/25ce1e2a128df7ff.xml", "fladistctapp"},
		{"florida dca no comma", "District Court of Appeal Florida.",
			"florida/court_opinions/documents/25ce1e2a128df7ff.xml", "fladistctapp"},
		{"florida dca comma", "District Court of Appeal, Florida.",
			"florida/court_opinions/documents/25ce1e2a128df7ff.xml", "fladistctapp"},
		{"florida dca second district", "District Court of Appeal of Florida, Second District.",
			"florida/court_opinions/documents/25ce1e2a128df7ff.xml", "fladistctapp"},
		{"florida absolute path", "District Court of Appeal of Florida, Second District.",
			"/data/dumps/florida/court_opinions/documents/25ce1e2a128df7ff.xml", "fladistctapp"},
		{"north carolina us circuit", "U.S. Circuit Court",
			"north_carolina/court_opinions/documents/fa5b96d590ae8d48.xml", "circtnc"},
		{"delaware us circuit district", "United States Circuit Court,  Delaware District.",
			"delaware/court_opinions/documents/6abba852db7c12a1.xml", "circtdel"},
		{"common pleas without path hint", "Court of Common Pleas  Hartford County", "asdf", "connsuperct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.court, tt.path)
			assert.Equal(t, tt.expected, got.CourtID, "court %q path %q", tt.court, tt.path)
			assert.True(t, got.Resolved())
		})
	}
}

func TestMatchFederalDistrict(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		input    string
		expected string
	}{
		{"Eastern District of New York", "nyed"},
		{"Northern District of New York", "nynd"},
		{"Southern District of New York", "nysd"},
		{"Nathan District of New York", "nyd"},
		{"Nate District of New York", "nyd"},
		{"Middle District of Pennsylvania", "pamd"},
		{"Middle Dist. of Pennsylvania", "pamd"},
		{"M.D. of Pennsylvania", "pamd"},
		{"Central District of California", "cacd"},
		{"District of Columbia", "dcd"},
		{"United States District Court for the Western District of Virginia", "vawd"},
		{"Northern District of West Virginia", "wvnd"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := r.MatchFederalDistrict(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.expected, got)

			res := r.Resolve(tt.input, "")
			assert.Equal(t, tt.expected, res.CourtID)
			assert.Equal(t, StageFederalDistrict, res.Stage)
		})
	}
}

func TestMatchFederalAppellate(t *testing.T) {
	r := newTestResolver(t)

	inputs := []string{
		"U. S. Court of Appeals for the Ninth Circuit",
		"U.S. Court of Appeals for the Ninth Circuit",
		"U. S. Circuit Court for the Ninth Circuit",
		"U.S. Circuit Court for the Ninth Circuit",
		"United States Court of Appeals for the Ninth Circuit",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			got, ok := r.MatchFederalAppellate(in)
			require.True(t, ok)
			assert.Equal(t, "ca9", got)
			assert.Equal(t, "ca9", r.Resolve(in, "").CourtID)
		})
	}

	got, ok := r.MatchFederalAppellate("Court of Appeals for the Thirteenth Circuit")
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestResolve_FederalExact(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve("Supreme Court of the U. S.", "")
	assert.Equal(t, "scotus", res.CourtID)
	assert.Equal(t, StageFederalExact, res.Stage)

	res = r.Resolve("U.S. Court of Appeals for the District of Columbia Circuit", "")
	assert.Equal(t, "cadc", res.CourtID)

	assert.Equal(t, "uscfc", r.Resolve("  United States   Court of Federal Claims ", "").CourtID)
}

func TestResolve_Bankruptcy(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve("United States Bankruptcy Court for the Northern District of Alabama ", "")
	assert.Equal(t, "alnb", res.CourtID)
	assert.True(t, res.Bankruptcy())

	assert.False(t, r.Resolve("Eastern District of New York", "").Bankruptcy())
}

func TestResolve_Unresolved(t *testing.T) {
	r := newTestResolver(t)

	inputs := []struct {
		court string
		path  string
	}{
		{"", ""},
		{"Court of Appeals", ""},
		{"Superior Court", "asdf"},
		{"Eastern District of Atlantis", ""},
		{"Some Tribunal", "connecticut/x.xml"},
	}
	for _, in := range inputs {
		res := r.Resolve(in.court, in.path)
		assert.False(t, res.Resolved(), "court %q", in.court)
		assert.Equal(t, StageUnresolved, res.Stage)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := newTestResolver(t)
	first := r.Resolve("Superior Court, Hartford County", "connecticut/superior_court_opinions/documents/a.xml")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, r.Resolve("Superior Court, Hartford County", "connecticut/superior_court_opinions/documents/a.xml"))
	}
}

func TestLoadRegistry_Errors(t *testing.T) {
	_, err := LoadRegistry([]byte("federal_exact: [unterminated"))
	var regErr *RegistryError
	assert.ErrorAs(t, err, &regErr)

	_, err = LoadRegistry([]byte("states:\n  ohio:\n    - {patterns: [\"(\"], court: ohio}\n"))
	assert.ErrorAs(t, err, &regErr)

	_, err = LoadRegistry([]byte("fallback:\n  - {patterns: [], court: x}\n"))
	assert.ErrorAs(t, err, &regErr)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "us court of appeals for the ninth circuit", normalizeName("U. S. Court of Appeals for the Ninth Circuit"))
	assert.Equal(t, "us court of appeals for the ninth circuit", normalizeName("U.S. Court of Appeals for the Ninth Circuit"))
	assert.Equal(t, "us circuit court delaware district", normalizeName("United States Circuit Court,  Delaware District."))
}
