package markup

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/corpus-merge/internal/types"
)

var (
	fullDateRe  = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	monthDateRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	yearDateRe  = regexp.MustCompile(`^(\d{4})$`)
)

// ParsePartialDate parses a decision date that may be known only to the month
// or the year. Month-precision dates resolve to the 15th and year-only dates
// resolve to July 1, so the stored value sits in the middle of the range
// actually known.
func ParsePartialDate(value string) (time.Time, types.DateGranularity, error) {
	s := strings.TrimSpace(value)

	if m := fullDateRe.FindStringSubmatch(s); m != nil {
		year, month, day := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if month < 1 || month > 12 {
			return time.Time{}, "", &DateError{Value: value, Message: "month out of range"}
		}
		// Some sources record impossible days such as February 30th. The
		// month is still trustworthy.
		if day < 1 || day > daysIn(year, month) {
			return midMonth(year, month), types.GranularityMonth, nil
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), types.GranularityDay, nil
	}

	if m := monthDateRe.FindStringSubmatch(s); m != nil {
		year, month := atoi(m[1]), atoi(m[2])
		if month < 1 || month > 12 {
			return time.Time{}, "", &DateError{Value: value, Message: "month out of range"}
		}
		return midMonth(year, month), types.GranularityMonth, nil
	}

	if m := yearDateRe.FindStringSubmatch(s); m != nil {
		return time.Date(atoi(m[1]), time.July, 1, 0, 0, 0, 0, time.UTC), types.GranularityYear, nil
	}

	return time.Time{}, "", &DateError{Value: value, Message: "unrecognized date format"}
}

func midMonth(year, month int) time.Time {
	return time.Date(year, time.Month(month), 15, 0, 0, 0, 0, time.UTC)
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
