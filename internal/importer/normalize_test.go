package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/corpus-merge/internal/courts"
	"github.com/jonathan/corpus-merge/internal/markup"
	"github.com/jonathan/corpus-merge/internal/types"
)

func TestBuildCluster(t *testing.T) {
	doc := newCaseDoc()
	doc.CaseNameAbbreviation = ""
	doc.DocketNumber = ""
	doc.DecisionDate = "2009-05"

	norm, err := normalize(doc)
	require.NoError(t, err)
	assert.Equal(t, types.GranularityMonth, norm.granularity)

	c := BuildCluster(doc, norm.body, norm.date, norm.granularity, courts.Result{Stage: courts.StageUnresolved})
	assert.Equal(t, doc.CaseName, c.CaseName, "falls back to the full name")
	assert.Equal(t, "SJC-10234", c.DocketNumber, "falls back to the casebody docket")
	assert.Equal(t, time.Date(2009, 5, 15, 0, 0, 0, 0, time.UTC), c.DateFiled)
	assert.True(t, c.NeedsCourtAssignment)
	assert.Equal(t, doc.Key, c.SourceKey)
	require.Len(t, c.Opinions, 1)
	assert.Equal(t, "Cowin", c.Opinions[0].AuthorStr)
}

func TestBuildCluster_MultipleOpinions(t *testing.T) {
	body, err := markup.ParseCasebody(`<casebody>
  <judges>Present: Marshall, C.J., Greaney, &amp; Botsford, JJ.</judges>
  <opinion type="majority"><author>Greaney, J.</author><p>Judgment affirmed.</p></opinion>
  <opinion type="dissent"><author>Botsford, J. (dissenting).</author><p>I respectfully dissent.</p></opinion>
</casebody>`)
	require.NoError(t, err)

	c := BuildCluster(newCaseDoc(), body, time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), types.GranularityDay,
		courts.Result{CourtID: "mass", Stage: courts.StageState})
	assert.Equal(t, "Botsford, Greaney, Marshall", c.Judges)
	require.Len(t, c.Opinions, 2)
	assert.Equal(t, types.OpinionLead, c.Opinions[0].Type)
	assert.Equal(t, types.OpinionDissent, c.Opinions[1].Type)
	assert.Equal(t, "Botsford", c.Opinions[1].AuthorStr)
	assert.False(t, c.NeedsCourtAssignment)
}
