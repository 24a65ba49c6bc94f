package types

import (
	"errors"
	"time"
)

// Period selects incomes by the month they were received in.
type Period string

const (
	PeriodAll     Period = "all"
	PeriodCurrent Period = "current" // the current month
	PeriodLast    Period = "last"    // the month before the current one
	PeriodLast3   Period = "last3"   // since the start of the month three months ago
)

var ErrPeriodInvalid = errors.New("the period must be one of 'all', 'current', 'last' or 'last3'")

// ParsePeriod parses the period. An empty string is PeriodAll.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodCurrent, PeriodLast, PeriodLast3:
		return p, nil
	}

	return "", ErrPeriodInvalid
}

// Range returns the interval [from, until) that the period covers at the time now.
//
// A zero time means the interval is open on that side.
func (p Period) Range(now time.Time) (from, until time.Time) {
	month := MonthOf(now)

	switch p {
	case PeriodCurrent:
		return month.Time(), month.AddDate(0, 1).Time()
	case PeriodLast:
		return month.AddDate(0, -1).Time(), month.Time()
	case PeriodLast3:
		return month.AddDate(0, -3).Time(), time.Time{}
	}

	return time.Time{}, time.Time{}
}
