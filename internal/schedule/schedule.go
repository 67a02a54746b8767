// Package schedule generates the nominal contribution dates for a
// simulation run. Every instant is pinned to the market open (09:30) in the
// exchange's timezone, with the UTC offset resolved per instant so schedules
// that straddle a daylight-saving transition stay on the correct wall clock.
package schedule

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"RecurringInvest/internal/model"
)

const (
	marketOpenHour   = 9
	marketOpenMinute = 30
)

var marketTZ *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic(fmt.Sprintf("load market timezone: %v", err))
	}
	marketTZ = loc
}

// Location returns the exchange's primary timezone.
func Location() *time.Location { return marketTZ }

// pin places a calendar day at the market open in the exchange timezone.
// Out-of-range days (e.g. Feb 31) normalize forward per time.Date.
func pin(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, marketOpenHour, marketOpenMinute, 0, 0, marketTZ)
}

// Dates produces the ordered nominal contribution instants for the civil
// dates of start and end at the given cadence. The end bound is inclusive.
// Monthly advances the calendar month with the anchor day-of-month held
// constant, so a short month does not drift later anchors. Single emits
// exactly the start instant.
func Dates(start, end time.Time, cadence model.Cadence) ([]time.Time, error) {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()

	first := pin(sy, sm, sd)
	last := pin(ey, em, ed)
	if first.After(last) {
		return nil, fmt.Errorf("%w: %s > %s", model.ErrInvalidRange,
			start.Format(model.DateFormat), end.Format(model.DateFormat))
	}

	if cadence == model.CadenceSingle {
		return []time.Time{first}, nil
	}

	var stride int
	switch cadence {
	case model.CadenceWeekly:
		stride = 7
	case model.CadenceBiweekly:
		stride = 14
	case model.CadenceMonthly:
		stride = 0
	default:
		return nil, fmt.Errorf("%w: unknown cadence %q", model.ErrMissingInput, cadence)
	}

	var out []time.Time
	for i := 0; ; i++ {
		var t time.Time
		if stride == 0 {
			t = pin(sy, sm+time.Month(i), sd)
		} else {
			t = pin(sy, sm, sd+i*stride)
		}
		if t.After(last) {
			break
		}
		out = append(out, t)
	}
	return out, nil
}
