package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// DateLayout is the wire format of travel dates.
const DateLayout = "2006-01-02"

// PlanningWindowMonths bounds how far ahead the date picker offers travel dates.
const PlanningWindowMonths = 6

// ErrInvalidDate is returned for travel dates that are not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid travel date")

// StartOfDay returns local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ParseTravelDate parses s at midnight in loc. An empty string means today on clk.
func ParseTravelDate(s string, clk clockwork.Clock, loc *time.Location) (time.Time, error) {
	if s == "" {
		return StartOfDay(clk.Now(), loc), nil
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: want %s", ErrInvalidDate, s, DateLayout)
	}
	return d, nil
}

// WithinPlanningWindow reports whether date lies between today and today plus
// PlanningWindowMonths, inclusive. Dates outside are still planned.
func WithinPlanningWindow(now, date time.Time) bool {
	today := StartOfDay(now, date.Location())
	return !date.Before(today) && !date.After(today.AddDate(0, PlanningWindowMonths, 0))
}
