// Package reporting turns a requested reporting period into concrete time
// windows and calendar-month buckets.
package reporting

import (
	"strings"
	"time"
)

type Period string

const (
	PeriodMonth    Period = "month"
	PeriodQuarter  Period = "quarter"
	PeriodHalfYear Period = "half-year"
	PeriodYear     Period = "year"
	PeriodCustom   Period = "custom"
)

const DateLayout = "2006-01-02"

const (
	InvalidDatesWarning = "Invalid date format. Please use YYYY-MM-DD format."
	MissingDatesWarning = "A custom range needs both a start and an end date."
)

type Request struct {
	Period    string
	StartDate string
	EndDate   string
}

// Range is a closed reporting window. For custom ranges End is a calendar
// date whose whole day is included; for named periods End is compared as is.
type Range struct {
	Start  time.Time
	End    time.Time
	Custom bool
}

// Bounds returns the lower bound and the upper bound callers should compare
// against. exclusive reports whether the upper bound must be compared with <.
func (r Range) Bounds() (from, to time.Time, exclusive bool) {
	if r.Custom {
		return r.Start, r.End.AddDate(0, 0, 1), true
	}
	return r.Start, r.End, false
}

// Bucket is one calendar month, as the half-open window [Start, End).
type Bucket struct {
	Year  int
	Month time.Month
	Start time.Time
	End   time.Time
}

func (b Bucket) Label() string {
	return b.Month.String()
}

type Resolution struct {
	Period   Period
	Range    Range
	Buckets  []Bucket
	Fallback bool
	Warning  string
}

// Unfiltered reports whether summary totals ignore the date window. This is
// the case for the plain year view only; buckets are still per month.
func (r Resolution) Unfiltered() bool {
	return r.Period == PeriodYear && !r.Range.Custom
}

// Resolve computes the reporting window for req as seen at now. Calendar
// arithmetic happens in now's location.
func Resolve(req Request, now time.Time) Resolution {
	loc := now.Location()
	period := Period(strings.ToLower(strings.TrimSpace(req.Period)))

	var res Resolution
	startRaw := strings.TrimSpace(req.StartDate)
	endRaw := strings.TrimSpace(req.EndDate)

	switch {
	case startRaw != "" && endRaw != "":
		start, startErr := time.ParseInLocation(DateLayout, startRaw, loc)
		end, endErr := time.ParseInLocation(DateLayout, endRaw, loc)
		if startErr == nil && endErr == nil && !start.After(end) {
			res.Period = PeriodCustom
			res.Range = Range{Start: start, End: end, Custom: true}
			res.Buckets = walkMonths(start, end)
			return res
		}
		res.Fallback = true
		res.Warning = InvalidDatesWarning
		period = PeriodYear
	case period == PeriodCustom:
		res.Fallback = true
		res.Warning = MissingDatesWarning
		period = PeriodYear
	}

	year, month, _ := now.Date()

	switch period {
	case PeriodMonth:
		res.Period = PeriodMonth
		res.Range = Range{Start: date(year, month, 1, loc), End: now}
		res.Buckets = []Bucket{newBucket(year, month, loc)}
	case PeriodQuarter:
		first := time.Month((int(month)-1)/3*3 + 1)
		res.Period = PeriodQuarter
		res.Range = Range{Start: date(year, first, 1, loc), End: date(year, first+3, 0, loc)}
		res.Buckets = walkMonths(res.Range.Start, res.Range.End)
	case PeriodHalfYear:
		first := time.January
		if month > time.June {
			first = time.July
		}
		res.Period = PeriodHalfYear
		res.Range = Range{Start: date(year, first, 1, loc), End: date(year, first+6, 0, loc)}
		res.Buckets = walkMonths(res.Range.Start, res.Range.End)
	default:
		res.Period = PeriodYear
		res.Range = Range{Start: date(year, time.January, 1, loc), End: date(year, time.December, 31, loc)}
		res.Buckets = make([]Bucket, 0, 12)
		for m := time.January; m <= time.December; m++ {
			res.Buckets = append(res.Buckets, newBucket(year, m, loc))
		}
	}

	return res
}

func walkMonths(start, end time.Time) []Bucket {
	loc := start.Location()
	var buckets []Bucket
	cur := date(start.Year(), start.Month(), 1, loc)
	for !cur.After(end) {
		buckets = append(buckets, newBucket(cur.Year(), cur.Month(), loc))
		cur = cur.AddDate(0, 1, 0)
	}
	return buckets
}

func newBucket(year int, month time.Month, loc *time.Location) Bucket {
	return Bucket{
		Year:  year,
		Month: month,
		Start: date(year, month, 1, loc),
		End:   date(year, month+1, 1, loc),
	}
}

func date(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
