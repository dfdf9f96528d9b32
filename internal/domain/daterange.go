package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the user-facing date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// DateRange is an inclusive time window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two YYYY-MM-DD dates in loc. The end date covers the
// whole day, so a single-day range is ParseDateRange(d, d, loc).
func ParseDateRange(start, end string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.Local
	}

	s, err := time.ParseInLocation(DateLayout, strings.TrimSpace(start), loc)
	if err != nil {
		return DateRange{}, &OpError{
			Op:   "daterange.parse.start",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%w %q (expected YYYY-MM-DD)", ErrInvalidDate, start),
		}
	}
	e, err := time.ParseInLocation(DateLayout, strings.TrimSpace(end), loc)
	if err != nil {
		return DateRange{}, &OpError{
			Op:   "daterange.parse.end",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%w %q (expected YYYY-MM-DD)", ErrInvalidDate, end),
		}
	}
	if e.Before(s) {
		return DateRange{}, &OpError{
			Op:   "daterange.parse",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("%w: end %s is before start %s", ErrInvalidDate, end, start),
		}
	}

	return DateRange{
		Start: s,
		End:   e.AddDate(0, 0, 1).Add(-time.Nanosecond),
	}, nil
}

// Contains reports whether t falls within the range (both ends inclusive).
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}
