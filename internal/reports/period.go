package reports

import (
	"errors"
	"time"
)

// Reporting periods selectable in the back office. A custom explicit range
// is passed instead of a period name.
const (
	PeriodMonthly  = "mensal"
	PeriodQuarter  = "trimestral"
	PeriodBiannual = "semestral"
	PeriodAnnual   = "anual"
)

// ErrUnknownPeriod rejects period names outside the fixed set.
var ErrUnknownPeriod = errors.New("unknown reporting period")

// Resolve turns a period name into the [from, to) window containing ref.
func Resolve(period string, ref time.Time) (time.Time, time.Time, error) {
	y, m, _ := ref.Date()
	loc := ref.Location()

	switch period {
	case PeriodMonthly:
		from := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0), nil
	case PeriodQuarter:
		qm := time.Month((int(m)-1)/3*3 + 1)
		from := time.Date(y, qm, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 3, 0), nil
	case PeriodBiannual:
		hm := time.January
		if m >= time.July {
			hm = time.July
		}
		from := time.Date(y, hm, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 6, 0), nil
	case PeriodAnnual:
		from := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0), nil
	}
	return time.Time{}, time.Time{}, ErrUnknownPeriod
}
