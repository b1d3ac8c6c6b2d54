package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/corpus-merge/internal/importer"
)

var _ importer.Source = (*DirSource)(nil)

// DirSource reads *.json case-law documents below a root directory in
// lexical path order. Keys are slash-separated paths relative to the root,
// which keeps the jurisdiction directory as the first segment.
type DirSource struct {
	Root   string
	Filter Filter
}

// NewDirSource creates a directory source
func NewDirSource(root string, filter Filter) *DirSource {
	return &DirSource{Root: root, Filter: filter}
}

// Walk visits every matching document. Unreadable or invalid documents are
// passed to fn with an error; only a failure to walk the tree itself stops
// the walk.
func (s *DirSource) Walk(ctx context.Context, fn importer.VisitFunc) error {
	return filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}

		key, relErr := filepath.Rel(s.Root, path)
		if relErr != nil {
			key = path
		}
		key = filepath.ToSlash(key)

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fn(key, nil, &DocumentError{Key: key, Message: "failed to read", Cause: readErr})
		}
		doc, parseErr := ParseCaseLaw(key, data)
		if parseErr != nil {
			return fn(key, nil, parseErr)
		}
		if !s.Filter.Match(doc) {
			return nil
		}
		return fn(key, doc, nil)
	})
}
