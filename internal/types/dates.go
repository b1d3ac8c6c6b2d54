package types

import "time"

// DateGranularity records how much of a date is actually known
type DateGranularity string

// Granularity values, finest first
const (
	GranularityDay   DateGranularity = "day"
	GranularityMonth DateGranularity = "month"
	GranularityYear  DateGranularity = "year"
)

func (g DateGranularity) rank() int {
	switch g {
	case GranularityDay:
		return 0
	case GranularityMonth:
		return 1
	case GranularityYear:
		return 2
	}
	// Unknown granularity is treated as day precision.
	return 0
}

// Coarser returns the less precise of two granularities. An empty value
// counts as day precision.
func Coarser(a, b DateGranularity) DateGranularity {
	if a == "" {
		a = GranularityDay
	}
	if b == "" {
		b = GranularityDay
	}
	if a.rank() >= b.rank() {
		return a
	}
	return b
}

// Finer reports whether g is more precise than other.
func (g DateGranularity) Finer(other DateGranularity) bool {
	return g.rank() < other.rank()
}

// Truncate reduces t to the precision described by g, so two dates can be
// compared at a common granularity.
func (g DateGranularity) Truncate(t time.Time) time.Time {
	switch g {
	case GranularityYear:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}
