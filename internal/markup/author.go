package markup

import (
	"regexp"
	"strings"
)

// PerCuriamName is the display value used for opinions issued by the court
const PerCuriamName = "Per Curiam"

var perCuriamRe = regexp.MustCompile(`(?i)\bper\s*curiam\b`)

// Author is the result of reading an opinion's author block
type Author struct {
	Name      string   // display value, "" when nothing name-like was found
	Surnames  []string // every surname found in the block
	PerCuriam bool
}

// ExtractAuthor reads an author block. A per-curiam marker wins over any
// names in the block.
func ExtractAuthor(text string) Author {
	if perCuriamRe.MatchString(text) {
		return Author{Name: PerCuriamName, PerCuriam: true}
	}
	surnames := ExtractJudgeSurnames(text)
	return Author{
		Name:     strings.Join(surnames, ", "),
		Surnames: surnames,
	}
}
