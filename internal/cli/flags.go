package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nalvarenga/punchcard/internal/domain"
	"github.com/spf13/pflag"
)

const flagDateLayout = "2006-01-02"

// addRangeFlags registers the shared --from/--to date-range flags on a
// command's flag set.
func addRangeFlags(fs *pflag.FlagSet, from, to *string) {
	fs.StringVar(from, "from", "", "Range start (YYYY-MM-DD, default 7 days ago)")
	fs.StringVar(to, "to", "", "Range end (YYYY-MM-DD, default today)")
}

// addDateFlag registers the shared --date flag defaulting to today.
func addDateFlag(fs *pflag.FlagSet, date *string) {
	fs.StringVar(date, "date", "", "Day to use (YYYY-MM-DD, default today)")
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(flagDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// parseDateOr parses s, falling back to the given day when s is empty.
func parseDateOr(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return domain.DateOnly(fallback), nil
	}
	return parseDate(s)
}

func parseHours(s string) (float64, error) {
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q, expected a number", s)
	}
	return h, nil
}

// parseRange resolves --from/--to values, defaulting to the last seven days.
func parseRange(fromStr, toStr string) (from, to time.Time, err error) {
	to, err = parseDateOr(toStr, time.Now().UTC())
	if err != nil {
		return
	}
	if fromStr == "" {
		from = to.AddDate(0, 0, -7)
		return
	}
	from, err = parseDate(fromStr)
	return
}
