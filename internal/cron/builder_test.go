package cron

import (
	"errors"
	"testing"
)

func TestBuildWeekday(t *testing.T) {
	for _, in := range []string{"MON", "mon", " Mon "} {
		expr, err := Build(in)
		if err != nil {
			t.Fatalf("Build(%q): %v", in, err)
		}
		if expr != "H H * * MON" {
			t.Fatalf("Build(%q) = %q", in, expr)
		}
	}
}

func TestBuildDayOfMonth(t *testing.T) {
	cases := map[string]string{
		"1":   "H H 1 * *",
		"15":  "H H 15 * *",
		"28":  "H H 28 * *",
		" 7 ": "H H 7 * *",
	}
	for in, want := range cases {
		expr, err := Build(in)
		if err != nil {
			t.Fatalf("Build(%q): %v", in, err)
		}
		if expr != want {
			t.Fatalf("Build(%q) = %q, want %q", in, expr, want)
		}
	}
}

func TestBuildRejectsBadDaySpecs(t *testing.T) {
	for _, in := range []string{"", "0", "29", "31", "MONDAY", "FOO", "1.5", "-3"} {
		_, err := Build(in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Build(%q): expected ValidationError, got %v", in, err)
		}
	}
}

// The slot derivation is pinned: changing the hash or the reduction would
// silently reschedule every existing job.
func TestSlotsPinned(t *testing.T) {
	cases := []struct {
		id           string
		minute, hour int
	}{
		{"ABCD", 37, 2},
		{"RPT01", 50, 3},
		{"DB1", 10, 21},
		{"NIGHTLY", 18, 10},
		{"WEEKLY", 30, 20},
		{"JOB1", 55, 16},
		{"A", 48, 9},
		{"MONTHLY", 58, 1},
	}
	for _, c := range cases {
		minute, hour := Slots(c.id)
		if minute != c.minute || hour != c.hour {
			t.Fatalf("Slots(%q) = (%d, %d), want (%d, %d)", c.id, minute, hour, c.minute, c.hour)
		}
	}
}

func TestSlotsCaseInsensitive(t *testing.T) {
	m1, h1 := Slots("abcd")
	m2, h2 := Slots("ABCD")
	if m1 != m2 || h1 != h2 {
		t.Fatalf("Slots differ by case: (%d,%d) vs (%d,%d)", m1, h1, m2, h2)
	}
}

func TestResolve(t *testing.T) {
	expr, err := Resolve("H H 15 * *", "ABCD")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if expr != "37 2 15 * *" {
		t.Fatalf("Resolve = %q", expr)
	}

	// Explicit minute/hour pass through untouched.
	expr, err = Resolve("5 6 * * MON", "ABCD")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if expr != "5 6 * * MON" {
		t.Fatalf("Resolve = %q", expr)
	}

	if _, err := Resolve("H H *", "ABCD"); err == nil {
		t.Fatalf("expected error for short expression")
	}
}
