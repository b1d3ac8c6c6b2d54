package markup

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	entityRe = regexp.MustCompile(`&#?[A-Za-z0-9]+;`)
	wordRe   = regexp.MustCompile(`\p{L}[\p{L}'’\-]*\.?`)

	// segmentRe splits a judges block into the pieces that each hold at
	// most a few names: list separators, "and", and dashes.
	segmentRe = regexp.MustCompile(`(?i)[,;:&~|\x{2013}\x{2014}]|\band\b|\s-+\s`)
)

// nameSuffixes close a name without being part of the surname
var nameSuffixes = toSet("jr", "sr", "ii", "iii", "iv", "esq", "esquire")

// judgeStopwords are tokens that show up in judge and author blocks but are
// never surnames: titles, roles, and the connective prose around them.
var judgeStopwords = toSet(
	// titles and roles
	"judge", "judges", "justice", "justices", "chief", "associate", "senior",
	"presiding", "acting", "jj", "cj", "pj", "aj", "sj", "ch", "jus", "mr",
	"mrs", "ms", "hon", "honorable", "magistrate", "commissioner",
	"commissioners", "chancellor", "vice", "special", "pro", "tem", "retired",
	"designation", "sitting", "circuit", "district", "appellate", "superior",
	"supreme", "court", "courts", "panel", "en", "banc", "referee", "master",
	"president", "members", "member",
	// opinion prose
	"opinion", "opinions", "delivered", "delivering", "following", "filed",
	"joined", "joins", "join", "joining", "concur", "concurs", "concurred",
	"concurring", "concurrence", "dissent", "dissents", "dissented",
	"dissenting", "result", "results", "only", "judgment", "judgments",
	"separate", "separately", "statement", "announced", "wrote", "writes",
	"written", "except", "took", "taking", "participation", "consideration",
	"decision", "case", "argued", "submitted", "heard", "before", "per",
	"curiam", "reversed", "affirmed", "remanded", "vacated", "modified",
	"dismissed", "denied", "granted", "ordered", "so", "majority", "plurality",
	"unanimous",
	"footnote", "post", "ante", "id", "see", "also", "part", "parts", "sat",
	"did", "not", "no", "all", "agree", "agrees", "specially", "reserved",
	"present", "absent",
	// function words
	"and", "the", "of", "in", "which", "whom", "who", "with", "for", "an",
	"to", "by", "this", "that", "on", "at", "as", "but", "its", "it", "his",
	"her", "their", "he", "she", "they", "were", "was", "is", "are", "be",
	"et", "al", "from", "or", "while", "whose",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// NormalizeSurname returns the comparison key for a surname: accent-folded and
// lower-cased.
func NormalizeSurname(name string) string {
	return strings.ToLower(FoldAccents(strings.TrimSpace(name)))
}

// ExtractJudgeSurnames pulls individual judge surnames out of a free-text
// judges block such as "Thomas, J., delivered the opinion of the Court, in
// which Roberts, C. J., and Kennedy, JJ., joined." Markup and entities are
// ignored. The result is deduplicated case-insensitively and sorted.
//
// The block is split on commas, semicolons, "and" and "&". Inside a segment,
// capitalized words that are not titles or prose form a name, and only the
// last word of each name is kept, so "Pierre N. Leval" yields "Leval".
// Initials and suffixes such as "Jr." never count as surnames.
//
// This is best-effort; malformed prose can produce false positives.
func ExtractJudgeSurnames(text string) []string {
	text = tagRe.ReplaceAllString(text, " ")
	text = entityRe.ReplaceAllString(text, " ")

	seen := make(map[string]string)
	for _, seg := range segmentRe.Split(text, -1) {
		for _, word := range segmentSurnames(seg) {
			key := NormalizeSurname(word)
			if _, dup := seen[key]; !dup {
				seen[key] = displaySurname(word)
			}
		}
	}
	return sortedSurnames(seen)
}

// segmentSurnames returns the last word of every name run in seg. A run is
// broken by a title or prose word, a lower-case word, a suffix, or a full
// stop after a word longer than an initial. A segment that is a single word
// is taken as a surname whatever its case, which keeps stored lists such as
// "smith, jones" intact.
func segmentSurnames(seg string) []string {
	tokens := wordRe.FindAllString(seg, -1)
	lone := len(tokens) == 1

	var out []string
	last := ""
	flush := func() {
		if last != "" {
			out = append(out, last)
			last = ""
		}
	}
	for _, tok := range tokens {
		fullStop := strings.HasSuffix(tok, ".")
		word := strings.TrimRight(tok, ".'’-")
		key := NormalizeSurname(word)
		if len([]rune(key)) < 2 {
			// initial or article; a middle initial does not end the name
			continue
		}
		if _, suffix := nameSuffixes[key]; suffix {
			flush()
			continue
		}
		if _, stop := judgeStopwords[key]; stop || !(lone || startsUpper(word)) {
			flush()
			continue
		}
		last = word
		if fullStop {
			flush()
		}
	}
	flush()
	return out
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

// MergeSurnames returns the sorted, case-insensitively deduplicated union of
// the given surname lists. The first spelling seen wins.
func MergeSurnames(lists ...[]string) []string {
	seen := make(map[string]string)
	for _, list := range lists {
		for _, name := range list {
			key := NormalizeSurname(name)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; !dup {
				seen[key] = name
			}
		}
	}
	return sortedSurnames(seen)
}

// FormatJudges renders a surname list the way it is stored on a cluster.
func FormatJudges(surnames []string) string {
	return strings.Join(surnames, ", ")
}

func sortedSurnames(seen map[string]string) []string {
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out
}

// displaySurname title-cases words written entirely in one case and leaves
// mixed-case spellings such as "McDonald" alone.
func displaySurname(word string) string {
	if word != strings.ToUpper(word) && word != strings.ToLower(word) {
		return word
	}
	r := []rune(strings.ToLower(word))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
