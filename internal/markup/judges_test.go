package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJudgeSurnames(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "title inside inline markup",
			input:    "CLAYTON <italic>Ch. Jus. of the Superior Court,</italic> delivered the following opinion of this Court: ",
			expected: []string{"Clayton"},
		},
		{
			name:     "trailing entity",
			input:    "OVERTON, J. &#8212; ",
			expected: []string{"Overton"},
		},
		{
			name:     "trailing colon",
			input:    "BURWELL, J.:",
			expected: []string{"Burwell"},
		},
		{
			name: "run-on sentence with roles",
			input: "Thomas, J., delivered the opinion of the Court, in which Roberts, C. J., and Scaua, " +
				"*194 Kennedy, Sotjter, Ginsbtjrg, and Auto, JJ., joined. Stevens, J., filed a dissenting " +
				"opinion, in which Breyer, J., joined, post, p. 202.",
			expected: []string{"Auto", "Breyer", "Ginsbtjrg", "Kennedy", "Roberts", "Scaua", "Sotjter", "Stevens", "Thomas"},
		},
		{
			name:     "argued before list keeps mixed case",
			input:    "Argued before Barbera, C.J., Greene,* Adkins, McDonald, Watts, Hotten, Getty JJ.",
			expected: []string{"Adkins", "Barbera", "Getty", "Greene", "Hotten", "McDonald", "Watts"},
		},
		{
			name:     "senior judge and concurring prose",
			input:    "Simpson, J. ~ Concurring Opinion by Pellegrini, Senior Judge",
			expected: []string{"Pellegrini", "Simpson"},
		},
		{
			name:     "ampersand separator and duplicates",
			input:    "SMITH & Jones, JJ.; smith concurring",
			expected: []string{"Jones", "Smith"},
		},
		{
			name:     "full names keep only the surname",
			input:    "Before John M. Walker, Jr., Chief Judge, and Pierre N. Leval, Circuit Judge.",
			expected: []string{"Leval", "Walker"},
		},
		{
			name:     "three part name",
			input:    "Opinion by Justice Ruth Bader Ginsburg.",
			expected: []string{"Ginsburg"},
		},
		{
			name:     "disposition prose",
			input:    "Reversed and remanded. Smith, J., dissents.",
			expected: []string{"Smith"},
		},
		{
			name:     "disposition only",
			input:    "Reversed and remanded.",
			expected: []string{},
		},
		{
			name:     "joined by without separators",
			input:    "Opinion by Judge Smith, joined by Judge Jones and Senior Judge Wu",
			expected: []string{"Jones", "Smith", "Wu"},
		},
		{
			name:     "stored lower-case list",
			input:    "smith, jones",
			expected: []string{"Jones", "Smith"},
		},
		{
			name:     "empty",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJudgeSurnames(tt.input))
		})
	}
}

func TestMergeSurnames(t *testing.T) {
	got := MergeSurnames([]string{"Barbera"}, []string{"Watts", "barbera", "Adkins"}, nil)
	assert.Equal(t, []string{"Adkins", "Barbera", "Watts"}, got)
	assert.Equal(t, "Adkins, Barbera, Watts", FormatJudges(got))
}

func TestMergeSurnames_AccentInsensitive(t *testing.T) {
	got := MergeSurnames([]string{"Núñez"}, []string{"Nunez"})
	assert.Equal(t, []string{"Núñez"}, got)
}

func TestExtractAuthor(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		perCuriam bool
	}{
		{"per curiam upper", "PER CURIAM:", PerCuriamName, true},
		{"per curiam mixed", "Opinion Per Curiam.", PerCuriamName, true},
		{"justice title", "Justice Thomas", "Thomas", false},
		{"trailing comma", "Justice Stevens,", "Stevens", false},
		{"plain", "COWIN, J.", "Cowin", false},
		{"nothing name-like", "delivered the opinion of the Court.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAuthor(tt.input)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.perCuriam, got.PerCuriam)
		})
	}
}
