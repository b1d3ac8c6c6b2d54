package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonNilSlices(t *testing.T) {
	assert.NotNil(t, nonNilStrings(nil))
	assert.Empty(t, nonNilStrings(nil))
	assert.Equal(t, []string{"a"}, nonNilStrings([]string{"a"}))

	assert.NotNil(t, nonNilIDs(nil))
	assert.Equal(t, []int64{1, 2}, nonNilIDs([]int64{1, 2}))
}

func TestSchemaEmbedded(t *testing.T) {
	for _, table := range []string{"clusters", "opinions", "pending_reviews", "search_index_queue"} {
		assert.True(t, strings.Contains(schemaSQL, "CREATE TABLE IF NOT EXISTS "+table+" ("), table)
	}
	assert.Contains(t, schemaSQL, "fingerprint TEXT NOT NULL UNIQUE")
}
