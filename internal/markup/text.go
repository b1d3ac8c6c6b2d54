package markup

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jaytaylor/html2text"
	"golang.org/x/net/html"
)

var docketPrefixRe = regexp.MustCompile(`(?i)^\s*(docket\s+nos?\.?|nos?\.)\s*`)

// CleanDocketNumber removes "Docket No." style prefixes and trailing periods
// so docket numbers from different sources compare equal.
func CleanDocketNumber(s string) string {
	s = CollapseWhitespace(s)
	s = docketPrefixRe.ReplaceAllString(s, "")
	return strings.TrimRight(s, ". ")
}

// StripTags renders markup as plain text. Inline formatting tags are dropped
// and their text kept; page-number markers such as "*194" are kept verbatim
// because pagination cross-references depend on them.
func StripTags(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return CollapseWhitespace(tagRe.ReplaceAllString(markup, " "))
	}
	return SelectionText(doc.Find("body"))
}

// SelectionText returns the text of a selection with element boundaries
// treated as word breaks, so "<p>a</p><p>b</p>" reads "a b" rather than "ab".
func SelectionText(sel *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range sel.Nodes {
		writeNodeText(&sb, n)
	}
	return CollapseWhitespace(sb.String())
}

func writeNodeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			sb.WriteByte(' ')
		}
		writeNodeText(sb, c)
		if c.Type == html.ElementNode {
			sb.WriteByte(' ')
		}
	}
}

// PlainText renders opinion markup as readable text with paragraph breaks,
// the form stored as an opinion's plain-text variant.
func PlainText(markup string) string {
	text, err := html2text.FromString(markup, html2text.Options{OmitLinks: true})
	if err != nil {
		return StripTags(markup)
	}
	return strings.TrimSpace(text)
}
