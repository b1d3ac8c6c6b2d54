// Package casename compares case names by their significant tokens.
package casename

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/corpus-merge/internal/markup"
)

// DefaultStopwords returns the boilerplate litigation tokens ignored when
// comparing case names. The returned slice is a fresh copy.
func DefaultStopwords() []string {
	return []string{
		"united", "states", "of", "america", "usa", "us",
		"v", "vs", "versus",
		"plaintiff", "plaintiffs", "appellee", "appellees", "appellant", "appellants",
		"respondent", "respondents", "defendant", "defendants",
		"petitioner", "petitioners", "intervenor", "intervenors",
		"in", "re", "the", "matter", "and", "et", "al", "ex", "rel",
		"people", "state", "commonwealth",
	}
}

// Winnower reduces case names to their distinguishing tokens. It is
// read-only after construction and safe for concurrent use.
type Winnower struct {
	stop map[string]struct{}
}

// NewWinnower creates a winnower ignoring the given stopwords. Stopwords are
// matched after the same folding applied to names.
func NewWinnower(stopwords []string) *Winnower {
	stop := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stop[foldToken(w)] = struct{}{}
	}
	return &Winnower{stop: stop}
}

// NewDefaultWinnower creates a winnower using DefaultStopwords.
func NewDefaultWinnower() *Winnower {
	return NewWinnower(DefaultStopwords())
}

var joinReplacer = strings.NewReplacer(".", "", "'", "", "’", "")

func foldToken(s string) string {
	return strings.ToLower(markup.FoldAccents(strings.TrimSpace(s)))
}

// Winnow lower-cases and tokenizes a case name and returns its significant
// tokens, sorted and deduplicated. Periods and apostrophes join the letters
// around them, so "D.L.M." yields "dlm"; other punctuation separates tokens.
// Single-character tokens and stopwords are dropped.
func (w *Winnower) Winnow(name string) []string {
	s := joinReplacer.Replace(foldToken(name))
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) < 2 {
			continue
		}
		if _, ok := w.stop[f]; ok {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	sort.Strings(tokens)
	return tokens
}

// Overlap returns the significant tokens shared by two case names, sorted.
func (w *Winnower) Overlap(a, b string) []string {
	right := make(map[string]struct{})
	for _, t := range w.Winnow(b) {
		right[t] = struct{}{}
	}
	var shared []string
	for _, t := range w.Winnow(a) {
		if _, ok := right[t]; ok {
			shared = append(shared, t)
		}
	}
	return shared
}

// Related reports whether two case names share at least one significant token.
func (w *Winnower) Related(a, b string) bool {
	return len(w.Overlap(a, b)) > 0
}
