package reporting

import (
	"testing"
	"time"
)

func TestTrailingWindow(t *testing.T) {
	now := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)

	t.Run("today", func(t *testing.T) {
		w := TrailingWindow("today", "", "", now)
		if w.From == nil || !w.From.Equal(day(2026, 3, 10)) {
			t.Fatalf("unexpected from %v", w.From)
		}
		if w.Before == nil || !w.Before.Equal(day(2026, 3, 11)) {
			t.Fatalf("unexpected before %v", w.Before)
		}
	})

	for period, want := range map[string]time.Time{
		"week":  day(2026, 3, 3),
		"month": day(2026, 2, 8),
		"year":  day(2025, 3, 10),
	} {
		t.Run(period, func(t *testing.T) {
			w := TrailingWindow(period, "", "", now)
			if w.From == nil || !w.From.Equal(want) {
				t.Fatalf("expected from %s, got %v", want, w.From)
			}
			if w.Before != nil {
				t.Errorf("trailing window should have no upper bound")
			}
		})
	}

	t.Run("custom includes the whole end day", func(t *testing.T) {
		w := TrailingWindow("custom", "2026-01-05", "2026-01-20", now)
		if w.From == nil || !w.From.Equal(day(2026, 1, 5)) {
			t.Fatalf("unexpected from %v", w.From)
		}
		if w.Before == nil || !w.Before.Equal(day(2026, 1, 21)) {
			t.Fatalf("unexpected before %v", w.Before)
		}
	})

	t.Run("custom drops invalid bounds silently", func(t *testing.T) {
		w := TrailingWindow("custom", "garbage", "2026-01-20", now)
		if w.From != nil {
			t.Errorf("invalid start should be ignored")
		}
		if w.Before == nil {
			t.Errorf("valid end should still apply")
		}

		w = TrailingWindow("custom", "", "", now)
		if w.From != nil || w.Before != nil {
			t.Errorf("expected no bounds, got %+v", w)
		}
	})

	t.Run("no period", func(t *testing.T) {
		w := TrailingWindow("", "2026-01-05", "2026-01-20", now)
		if w.From != nil || w.Before != nil {
			t.Errorf("dates without custom period should be ignored, got %+v", w)
		}
	})
}
