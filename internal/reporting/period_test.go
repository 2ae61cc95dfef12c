package reporting

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2026, time.August, 14, 15, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve_NamedPeriods(t *testing.T) {
	tests := []struct {
		name    string
		period  string
		now     time.Time
		start   time.Time
		end     time.Time
		buckets []time.Month
	}{
		{
			name:    "month is partial up to now",
			period:  "month",
			now:     fixedNow,
			start:   day(2026, time.August, 1),
			end:     fixedNow,
			buckets: []time.Month{time.August},
		},
		{
			name:    "third quarter",
			period:  "quarter",
			now:     fixedNow,
			start:   day(2026, time.July, 1),
			end:     day(2026, time.September, 30),
			buckets: []time.Month{time.July, time.August, time.September},
		},
		{
			name:    "fourth quarter ends on december 31",
			period:  "quarter",
			now:     day(2026, time.November, 3),
			start:   day(2026, time.October, 1),
			end:     day(2026, time.December, 31),
			buckets: []time.Month{time.October, time.November, time.December},
		},
		{
			name:    "first half",
			period:  "half-year",
			now:     day(2026, time.June, 30),
			start:   day(2026, time.January, 1),
			end:     day(2026, time.June, 30),
			buckets: []time.Month{1, 2, 3, 4, 5, 6},
		},
		{
			name:    "second half",
			period:  "half-year",
			now:     fixedNow,
			start:   day(2026, time.July, 1),
			end:     day(2026, time.December, 31),
			buckets: []time.Month{7, 8, 9, 10, 11, 12},
		},
		{
			name:    "unknown token is year",
			period:  "decade",
			now:     fixedNow,
			start:   day(2026, time.January, 1),
			end:     day(2026, time.December, 31),
			buckets: []time.Month{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(Request{Period: tt.period}, tt.now)

			if !res.Range.Start.Equal(tt.start) || !res.Range.End.Equal(tt.end) {
				t.Fatalf("expected [%s, %s], got [%s, %s]", tt.start, tt.end, res.Range.Start, res.Range.End)
			}
			if res.Range.Custom {
				t.Error("expected a named range")
			}
			if len(res.Buckets) != len(tt.buckets) {
				t.Fatalf("expected %d buckets, got %d", len(tt.buckets), len(res.Buckets))
			}
			for i, m := range tt.buckets {
				if res.Buckets[i].Month != m {
					t.Errorf("bucket %d: expected %s, got %s", i, m, res.Buckets[i].Month)
				}
			}
		})
	}
}

func TestResolve_MonthHasSingleCurrentBucket(t *testing.T) {
	res := Resolve(Request{Period: "month"}, fixedNow)

	if len(res.Buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(res.Buckets))
	}
	b := res.Buckets[0]
	if b.Year != 2026 || b.Month != time.August {
		t.Errorf("expected August 2026, got %s %d", b.Month, b.Year)
	}
	if !b.Start.Equal(day(2026, time.August, 1)) || !b.End.Equal(day(2026, time.September, 1)) {
		t.Errorf("unexpected bucket window [%s, %s)", b.Start, b.End)
	}
}

func TestResolve_YearAlwaysHasTwelveBuckets(t *testing.T) {
	res := Resolve(Request{Period: "year"}, fixedNow)

	if len(res.Buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(res.Buckets))
	}
	for i, b := range res.Buckets {
		if b.Month != time.Month(i+1) || b.Year != 2026 {
			t.Errorf("bucket %d: got %s %d", i, b.Month, b.Year)
		}
	}
	if !res.Unfiltered() {
		t.Error("plain year view should report unfiltered totals")
	}
	if res.Fallback {
		t.Error("explicit year is not a fallback")
	}
}

func TestResolve_InvalidCustomDatesFallBackToYear(t *testing.T) {
	year := Resolve(Request{Period: "year"}, fixedNow)

	for _, period := range []string{"month", "quarter", "half-year", "year", "custom", ""} {
		for _, dates := range [][2]string{
			{"2026-13-01", "2026-12-01"},
			{"2026-01-01", "not-a-date"},
			{"01/02/2026", "2026-03-01"},
			{"2026-05-01", "2026-04-01"},
		} {
			res := Resolve(Request{Period: period, StartDate: dates[0], EndDate: dates[1]}, fixedNow)

			if res.Period != PeriodYear {
				t.Errorf("%s %v: expected year, got %s", period, dates, res.Period)
			}
			if !res.Range.Start.Equal(year.Range.Start) || !res.Range.End.Equal(year.Range.End) {
				t.Errorf("%s %v: window differs from year", period, dates)
			}
			if len(res.Buckets) != 12 {
				t.Errorf("%s %v: expected 12 buckets, got %d", period, dates, len(res.Buckets))
			}
			if !res.Fallback || res.Warning == "" {
				t.Errorf("%s %v: expected a fallback warning", period, dates)
			}
		}
	}
}

func TestResolve_CustomWithoutDatesFallsBack(t *testing.T) {
	res := Resolve(Request{Period: "custom", StartDate: "2026-01-01"}, fixedNow)

	if res.Period != PeriodYear || !res.Fallback {
		t.Fatalf("expected year fallback, got %s (fallback=%v)", res.Period, res.Fallback)
	}
	if res.Warning != MissingDatesWarning {
		t.Errorf("unexpected warning %q", res.Warning)
	}
}

func TestResolve_CustomRangeWalksMonthsAcrossYears(t *testing.T) {
	res := Resolve(Request{Period: "custom", StartDate: "2025-11-15", EndDate: "2026-02-03"}, fixedNow)

	if res.Period != PeriodCustom || !res.Range.Custom {
		t.Fatalf("expected custom range, got %s", res.Period)
	}
	if res.Unfiltered() {
		t.Error("custom range must filter totals")
	}

	want := []struct {
		year  int
		month time.Month
	}{{2025, 11}, {2025, 12}, {2026, 1}, {2026, 2}}
	if len(res.Buckets) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(res.Buckets))
	}
	for i, w := range want {
		if res.Buckets[i].Year != w.year || res.Buckets[i].Month != w.month {
			t.Errorf("bucket %d: expected %s %d, got %s %d", i, w.month, w.year, res.Buckets[i].Month, res.Buckets[i].Year)
		}
	}
}

func TestResolve_DatesOverrideNamedPeriod(t *testing.T) {
	res := Resolve(Request{Period: "month", StartDate: "2026-03-01", EndDate: "2026-03-31"}, fixedNow)

	if res.Period != PeriodCustom {
		t.Fatalf("expected custom, got %s", res.Period)
	}
	if len(res.Buckets) != 1 || res.Buckets[0].Month != time.March {
		t.Errorf("expected a single March bucket, got %+v", res.Buckets)
	}
}

func TestRange_Bounds(t *testing.T) {
	custom := Range{Start: day(2026, 3, 1), End: day(2026, 3, 31), Custom: true}
	from, to, exclusive := custom.Bounds()
	if !from.Equal(day(2026, 3, 1)) || !to.Equal(day(2026, 4, 1)) || !exclusive {
		t.Errorf("custom bounds: got [%s, %s) exclusive=%v", from, to, exclusive)
	}

	named := Range{Start: day(2026, 1, 1), End: day(2026, 12, 31)}
	from, to, exclusive = named.Bounds()
	if !from.Equal(day(2026, 1, 1)) || !to.Equal(day(2026, 12, 31)) || exclusive {
		t.Errorf("named bounds: got [%s, %s] exclusive=%v", from, to, exclusive)
	}
}
