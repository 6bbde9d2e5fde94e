package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Month is a calendar month key used to bucket ledger entries.
type Month struct {
	Year  int
	Month time.Month
}

// Of returns the calendar month containing t.
func Of(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String returns the key as "2025-01".
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// Next returns the following calendar month.
func (m Month) Next() Month {
	if m.Month == time.December {
		return Month{Year: m.Year + 1, Month: time.January}
	}
	return Month{Year: m.Year, Month: m.Month + 1}
}

// Parse parses "2025-01" into a Month.
func Parse(s string) (Month, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("invalid month key: %q", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Month{}, fmt.Errorf("invalid year in month key %q: %w", s, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Month{}, fmt.Errorf("invalid month in month key %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return Month{}, fmt.Errorf("month out of range in key %q", s)
	}

	return Month{Year: year, Month: time.Month(month)}, nil
}

// Range returns every month from first to last inclusive.
// Returns nil if last is before first.
func Range(first, last Month) []Month {
	if last.Before(first) {
		return nil
	}
	var months []Month
	for m := first; !last.Before(m); m = m.Next() {
		months = append(months, m)
	}
	return months
}
