// Package similarity scores how closely two opinion texts agree at the
// character level.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/jonathan/corpus-merge/internal/markup"
)

// DefaultThreshold is the minimum score for two opinion texts to be
// considered the same opinion.
const DefaultThreshold = 70

// CleanBodyContent reduces opinion content to comparable text. A casebody
// contributes only its opinion blocks; other markup is stripped. The result
// is lower-cased with punctuation removed and whitespace collapsed.
func CleanBodyContent(content string) string {
	text := content
	if strings.Contains(content, "<") {
		text = bodyText(content)
	}
	return normalize(text)
}

func bodyText(content string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return markup.StripTags(content)
	}
	if ops := doc.Find("opinion, article.opinion"); ops.Length() > 0 {
		return markup.SelectionText(ops)
	}
	return markup.SelectionText(doc.Find("body"))
}

func normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteByte(' ')
		}
	}
	return markup.CollapseWhitespace(sb.String())
}

// charLimit is the longest cleaned text compared character by character.
// Longer texts are compared word by word so the matcher can set aside
// frequent words and stay fast on full-length opinions.
const charLimit = 2000

// Compare returns the similarity of two cleaned texts as an integer from 0
// to 100, where 100 means identical. The ratio is twice the size of the
// matching blocks over the combined length, counted in characters for short
// texts and in words once either text exceeds charLimit.
func Compare(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	return toPercent(newMatcher(a, b).Ratio())
}

// Score cleans two raw opinion bodies and compares them.
func Score(a, b string) int {
	return Compare(CleanBodyContent(a), CleanBodyContent(b))
}

// CompareAtLeast compares two cleaned texts but gives up as soon as the
// matcher's upper bounds show the score cannot reach threshold. The bool
// reports whether the returned score reaches threshold.
func CompareAtLeast(a, b string, threshold int) (int, bool) {
	if a == b {
		return 100, true
	}
	if a == "" || b == "" {
		return 0, threshold <= 0
	}
	m := newMatcher(a, b)
	if toPercent(m.RealQuickRatio()) < threshold || toPercent(m.QuickRatio()) < threshold {
		return 0, false
	}
	score := toPercent(m.Ratio())
	return score, score >= threshold
}

func newMatcher(a, b string) *difflib.SequenceMatcher {
	if utf8.RuneCountInString(a) <= charLimit && utf8.RuneCountInString(b) <= charLimit {
		return difflib.NewMatcherWithJunk(chars(a), chars(b), false, nil)
	}
	return difflib.NewMatcherWithJunk(strings.Fields(a), strings.Fields(b), true, nil)
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

func toPercent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

// Pair is the score of one external text against one internal text,
// identified by their positions in the slices given to ScorePairs.
type Pair struct {
	Internal int
	External int
	Score    int
}

// ScorePairs compares every external text with every internal text and
// returns the pairs reaching threshold, highest score first. Equal scores
// keep external-then-internal order. Texts must already be cleaned.
func ScorePairs(internal, external []string, threshold int) []Pair {
	var pairs []Pair
	for e := range external {
		for i := range internal {
			if score, ok := CompareAtLeast(internal[i], external[e], threshold); ok {
				pairs = append(pairs, Pair{Internal: i, External: e, Score: score})
			}
		}
	}
	sort.SliceStable(pairs, func(a, b int) bool {
		return pairs[a].Score > pairs[b].Score
	})
	return pairs
}

// Best returns the highest score among pairs, 0 when there are none.
func Best(pairs []Pair) int {
	if len(pairs) == 0 {
		return 0
	}
	return pairs[0].Score
}
