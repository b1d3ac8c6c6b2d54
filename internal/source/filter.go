package source

import (
	"strings"

	"github.com/jonathan/corpus-merge/internal/types"
)

// Filter narrows a batch by reporter, volume and first page. Zero values
// match everything.
type Filter struct {
	Reporter string
	Volumes  []string
	Page     string
}

// Match reports whether doc passes the filter. Reporter names compare
// case-insensitively, ignoring periods and spacing, so "Mass." matches
// "mass".
func (f Filter) Match(doc *types.SourceDocument) bool {
	if f.Reporter != "" && reporterKey(doc.Reporter) != reporterKey(f.Reporter) {
		return false
	}
	if len(f.Volumes) > 0 && !contains(f.Volumes, doc.Volume) {
		return false
	}
	if f.Page != "" && strings.TrimSpace(doc.FirstPage) != strings.TrimSpace(f.Page) {
		return false
	}
	return true
}

func reporterKey(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, ".", ""))
	return strings.Join(strings.Fields(s), "")
}

func contains(values []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, x := range values {
		if strings.TrimSpace(x) == v {
			return true
		}
	}
	return false
}
