package reporting

import (
	"strings"
	"time"
)

// Window is an optional creation-time window for task listings. From is
// inclusive and Before is exclusive; a nil bound is not applied.
type Window struct {
	From   *time.Time
	Before *time.Time
}

// TrailingWindow resolves the listing period filter. Named periods are
// trailing windows ending today. For custom, each date is parsed on its own
// and an unparsable one is dropped without any fallback.
func TrailingWindow(period, startDate, endDate string, now time.Time) Window {
	loc := now.Location()
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, loc)

	daysBack := func(n int) Window {
		from := today.AddDate(0, 0, -n)
		return Window{From: &from}
	}

	switch strings.ToLower(strings.TrimSpace(period)) {
	case "today":
		tomorrow := today.AddDate(0, 0, 1)
		return Window{From: &today, Before: &tomorrow}
	case "week":
		return daysBack(7)
	case "month":
		return daysBack(30)
	case "year":
		return daysBack(365)
	case string(PeriodCustom):
		var w Window
		if start, err := time.ParseInLocation(DateLayout, strings.TrimSpace(startDate), loc); err == nil {
			w.From = &start
		}
		if end, err := time.ParseInLocation(DateLayout, strings.TrimSpace(endDate), loc); err == nil {
			before := end.AddDate(0, 0, 1)
			w.Before = &before
		}
		return w
	}
	return Window{}
}
