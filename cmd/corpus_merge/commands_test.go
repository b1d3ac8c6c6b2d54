package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/corpus-merge/internal/types"
)

const caseDocJSON = `{
  "id": 1,
  "name": "John DOE v. ROE CORPORATION",
  "name_abbreviation": "Doe v. Roe Corp.",
  "decision_date": "2009-05-14",
  "docket_number": "SJC-10234",
  "first_page": 12,
  "citations": [{"cite": "454 Mass. 12", "type": "official"}],
  "court": {"name": "Supreme Judicial Court of Massachusetts"},
  "volume": {"volume_number": "454"},
  "casebody": {"status": "ok", "data": "<casebody><attorneys>Jane Smith for the plaintiff.</attorneys><opinion type=\"majority\"><author>Cowin, J.</author><p>The plaintiff appeals from a judgment entered after a jury-waived trial. We affirm.</p></opinion></casebody>"}
}`

func TestMatchCourtCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"federal district", []string{"match-court", "United States District Court for the Southern District of New York"}, "nysd"},
		{"appellate", []string{"match-court", "United States Court of Appeals for the Ninth Circuit"}, "ca9"},
		{"state from path", []string{"match-court", "Court of Chancery", "--path", "new_jersey/supreme_court_opinions/documents/1.xml"}, "njch"},
		{"unresolved", []string{"match-court", "Court of Nowhere"}, "unresolved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestMatchCourtCommand_RequiresName(t *testing.T) {
	_, err := execute(t, "match-court")
	assert.Error(t, err)
}

func TestCompareCommand(t *testing.T) {
	dir := t.TempDir()
	text := "<opinion><p>The judgment of the Superior Court is affirmed.</p></opinion>"
	a := writeTestFile(t, dir, "a.html", text)
	b := writeTestFile(t, dir, "b.html", text)

	out, err := execute(t, "compare", a, b)
	require.NoError(t, err)
	assert.Equal(t, "100", strings.TrimSpace(out))

	_, err = execute(t, "compare", a, filepath.Join(dir, "missing.html"))
	assert.Error(t, err)
}

func TestWinnowCommand(t *testing.T) {
	out, err := execute(t, "winnow", "Hamilton v. United States", "Hamilton v. Commonwealth")
	require.NoError(t, err)
	assert.Equal(t, "hamilton", strings.TrimSpace(out))

	out, err = execute(t, "winnow", "Hamilton v. Smith", "Hamilton v. Smith", "--stopword", "hamilton")
	require.NoError(t, err)
	assert.Equal(t, "smith", strings.TrimSpace(out))

	out, err = execute(t, "winnow", "Vinson v. Jones", "Smith v. Brown")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParseCommand(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "massachusetts/doc.json", caseDocJSON)

	out, err := execute(t, "parse", path)
	require.NoError(t, err)

	var cluster types.Cluster
	require.NoError(t, json.Unmarshal([]byte(out), &cluster))
	assert.Equal(t, "mass", cluster.CourtID)
	assert.Equal(t, "Doe v. Roe Corp.", cluster.CaseName)
	assert.Equal(t, "Cowin", cluster.Judges)
	assert.Equal(t, []string{"454 Mass. 12"}, cluster.Citations)
	require.Len(t, cluster.Opinions, 1)
	assert.Equal(t, types.OpinionLead, cluster.Opinions[0].Type)
}

func TestParseCommand_InvalidDocument(t *testing.T) {
	path := writeTestFile(t, t.TempDir(), "bad.json", `{"name": "No body"}`)
	_, err := execute(t, "parse", path)
	assert.Error(t, err)
}

func TestImportCommand_SQLite(t *testing.T) {
	docs := t.TempDir()
	writeTestFile(t, docs, "massachusetts/454/12.json", caseDocJSON)
	writeTestFile(t, docs, "massachusetts/454/broken.json", `{not json`)
	dbPath := filepath.Join(t.TempDir(), "corpus.db")

	out, err := execute(t, "import", "--dir", docs, "--sqlite-path", dbPath, "--json", "--make-searchable")
	require.NoError(t, err)

	var report struct {
		Processed int `json:"processed"`
		Created   int `json:"created"`
		Failed    int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Failed)

	// A second run finds the cluster and changes nothing.
	out, err = execute(t, "import", "--dir", docs, "--sqlite-path", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "created 0")
	assert.Contains(t, out, "unchanged 1")

	out, err = execute(t, "reviews", "--sqlite-path", dbPath, "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestImportCommand_RequiresSource(t *testing.T) {
	_, err := execute(t, "import", "--sqlite-path", filepath.Join(t.TempDir(), "c.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--dir or --s3-bucket")
}

func TestReviewsCommand_UnknownKind(t *testing.T) {
	_, err := execute(t, "reviews", "--kind", "nope", "--sqlite-path", filepath.Join(t.TempDir(), "c.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown review kind")
}

func TestMigrateCommand_SQLite(t *testing.T) {
	out, err := execute(t, "migrate", "--sqlite-path", filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestFile(t, dir, "config.yaml", "logging:\n  level: nonsense\n")

	_, err := execute(t, "--config", cfgPath, "match-court", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}
