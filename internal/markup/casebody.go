package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/corpus-merge/internal/types"
)

// opinionTypes maps casebody opinion type attributes to ordered type codes
var opinionTypes = map[string]types.OpinionType{
	"unanimous":   types.OpinionUnanimous,
	"majority":    types.OpinionLead,
	"plurality":   types.OpinionPlurality,
	"concurrence": types.OpinionConcurrence,
	"concurring-in-part-and-dissenting-in-part": types.OpinionConcurrenceInPart,
	"dissent":             types.OpinionDissent,
	"addendum":            types.OpinionAddendum,
	"remittitur":          types.OpinionRemittitur,
	"rehearing":           types.OpinionRehearing,
	"on-the-merits":       types.OpinionOnTheMerits,
	"on-motion-to-strike": types.OpinionOnMotionToStrike,
}

// MapOpinionType converts a casebody type attribute to an opinion type code.
// Unknown or missing types map to a combined opinion.
func MapOpinionType(raw string) types.OpinionType {
	if t, ok := opinionTypes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return types.OpinionCombined
}

// OpinionBlock is one opinion element of a casebody
type OpinionBlock struct {
	Type    types.OpinionType
	RawType string
	Author  Author
	Markup  string // inner markup, page-number elements included
	Text    string // plain text, page-number markers preserved
}

// Casebody holds the structural fields of a case-law casebody. Each field is
// typed; a casebody that parses always has at least one opinion.
type Casebody struct {
	Parties      string
	DocketNumber string
	DecisionDate string
	Attorneys    string
	Disposition  string
	OtherDates   string
	Syllabus     string
	Summary      string
	Headnotes    string
	History      string
	JudgesText   string
	Judges       []string // surnames from judges blocks and opinion authors
	Opinions     []OpinionBlock
}

// short fields are joined inline; long fields are kept as paragraphs
var (
	shortFields = []string{"attorneys", "disposition", "otherdate"}
	longFields  = []string{"syllabus", "summary", "headnotes", "history"}
)

const opinionSelector = "opinion, article.opinion"

// ParseCasebody parses casebody markup into its structural fields. A casebody
// without any opinion block is reported as MalformedMarkupError.
func ParseCasebody(data string) (*Casebody, error) {
	if strings.TrimSpace(data) == "" {
		return nil, &MalformedMarkupError{Message: "empty casebody"}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(data))
	if err != nil {
		return nil, &MalformedMarkupError{Message: "failed to parse casebody", Cause: err}
	}

	opinions := doc.Find(opinionSelector)
	if opinions.Length() == 0 {
		return nil, &MalformedMarkupError{Message: "no opinion blocks found"}
	}

	cb := &Casebody{
		Parties:      joinText(doc.Find("parties"), " "),
		DocketNumber: CleanDocketNumber(joinText(doc.Find("docketnumber"), ", ")),
		DecisionDate: joinText(doc.Find("decisiondate"), " "),
	}

	var judgeLists [][]string
	var judgesText []string
	doc.Find("judges").Each(func(_ int, s *goquery.Selection) {
		text := SelectionText(s)
		judgesText = append(judgesText, text)
		judgeLists = append(judgeLists, ExtractJudgeSurnames(text))
	})
	cb.JudgesText = strings.Join(judgesText, " ")

	opinions.Each(func(_ int, s *goquery.Selection) {
		block, err := parseOpinion(s)
		if err != nil {
			return
		}
		judgeLists = append(judgeLists, block.Author.Surnames)
		cb.Opinions = append(cb.Opinions, block)
	})
	if len(cb.Opinions) == 0 {
		return nil, &MalformedMarkupError{Message: "no readable opinion blocks"}
	}
	cb.Judges = MergeSurnames(judgeLists...)

	short := extractFields(doc, shortFields, false)
	long := extractFields(doc, longFields, true)
	cb.Attorneys = short["attorneys"]
	cb.Disposition = short["disposition"]
	cb.OtherDates = short["otherdate"]
	cb.Syllabus = long["syllabus"]
	cb.Summary = long["summary"]
	cb.Headnotes = long["headnotes"]
	cb.History = long["history"]

	return cb, nil
}

func parseOpinion(s *goquery.Selection) (OpinionBlock, error) {
	inner, err := s.Html()
	if err != nil {
		return OpinionBlock{}, fmt.Errorf("failed to render opinion markup: %w", err)
	}
	raw, ok := s.Attr("type")
	if !ok {
		raw, _ = s.Attr("data-type")
	}
	block := OpinionBlock{
		Type:    MapOpinionType(raw),
		RawType: raw,
		Markup:  strings.TrimSpace(inner),
		Text:    SelectionText(s),
	}
	if author := s.Find("author").First(); author.Length() > 0 {
		block.Author = ExtractAuthor(SelectionText(author))
	}
	return block, nil
}

// extractFields removes page-number elements from each field element and
// joins the elements. Long fields are wrapped in paragraphs.
func extractFields(doc *goquery.Document, fields []string, long bool) map[string]string {
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		var parts []string
		doc.Find(field).Each(func(_ int, s *goquery.Selection) {
			s.Find("page-number").Remove()
			text := SelectionText(s)
			if text == "" {
				return
			}
			if long {
				text = "<p>" + text + "</p>"
			}
			parts = append(parts, text)
		})
		sep := ", "
		if long {
			sep = "\n"
		}
		out[field] = strings.Join(parts, sep)
	}
	return out
}

func joinText(sel *goquery.Selection, sep string) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := SelectionText(s); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, sep)
}
