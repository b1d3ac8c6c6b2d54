package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoarser(t *testing.T) {
	tests := []struct {
		a, b DateGranularity
		want DateGranularity
	}{
		{GranularityDay, GranularityDay, GranularityDay},
		{GranularityDay, GranularityMonth, GranularityMonth},
		{GranularityYear, GranularityMonth, GranularityYear},
		{"", GranularityYear, GranularityYear},
		{"", "", GranularityDay},
	}

	for _, tt := range tests {
		t.Run(string(tt.a)+"/"+string(tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, Coarser(tt.a, tt.b))
			assert.Equal(t, tt.want, Coarser(tt.b, tt.a))
		})
	}
}

func TestFiner(t *testing.T) {
	assert.True(t, GranularityDay.Finer(GranularityMonth))
	assert.True(t, GranularityMonth.Finer(GranularityYear))
	assert.False(t, GranularityYear.Finer(GranularityDay))
	assert.False(t, GranularityDay.Finer(GranularityDay))
}

func TestTruncate(t *testing.T) {
	d := time.Date(2009, 3, 12, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, time.Date(2009, 3, 12, 0, 0, 0, 0, time.UTC), GranularityDay.Truncate(d))
	assert.Equal(t, time.Date(2009, 3, 1, 0, 0, 0, 0, time.UTC), GranularityMonth.Truncate(d))
	assert.Equal(t, time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), GranularityYear.Truncate(d))
}

func TestYearWindow(t *testing.T) {
	from, to := YearWindow(time.Date(2009, 6, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2009, 12, 31, 0, 0, 0, 0, time.UTC), to)
}
