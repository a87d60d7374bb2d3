package cron

import (
	"testing"
	"time"
)

// ABCD hashes to minute 37, hour 2 (pinned in TestSlotsPinned); fire times
// below follow from that.

func TestNextFireMonthly(t *testing.T) {
	ref := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	next, err := NextFire("H H 15 * *", "ABCD", ref)
	if err != nil {
		t.Fatalf("NextFire: %v", err)
	}
	want := time.Date(2026, 6, 15, 2, 37, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("NextFire = %v, want %v", next, want)
	}
}

func TestNextFireIsStrictlyAfterRef(t *testing.T) {
	ref := time.Date(2026, 6, 15, 2, 37, 0, 0, time.Local)
	next, err := NextFire("H H 15 * *", "ABCD", ref)
	if err != nil {
		t.Fatalf("NextFire: %v", err)
	}
	want := time.Date(2026, 7, 15, 2, 37, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("NextFire at exact fire instant = %v, want %v", next, want)
	}
}

func TestPrevFireIncludesRef(t *testing.T) {
	ref := time.Date(2026, 6, 15, 2, 37, 0, 0, time.Local)
	prev, err := PrevFire("H H 15 * *", "ABCD", ref)
	if err != nil {
		t.Fatalf("PrevFire: %v", err)
	}
	if !prev.Equal(ref) {
		t.Fatalf("PrevFire at exact fire instant = %v, want %v", prev, ref)
	}
}

func TestPrevFireMidInterval(t *testing.T) {
	ref := time.Date(2026, 6, 20, 12, 0, 0, 0, time.Local)
	prev, err := PrevFire("H H 15 * *", "ABCD", ref)
	if err != nil {
		t.Fatalf("PrevFire: %v", err)
	}
	want := time.Date(2026, 6, 15, 2, 37, 0, 0, time.Local)
	if !prev.Equal(want) {
		t.Fatalf("PrevFire = %v, want %v", prev, want)
	}
}

func TestNextFireWeekly(t *testing.T) {
	// RPT01 hashes to minute 50, hour 3. 2026-06-08 is a Monday.
	ref := time.Date(2026, 6, 2, 12, 0, 0, 0, time.Local)
	next, err := NextFire("H H * * MON", "RPT01", ref)
	if err != nil {
		t.Fatalf("NextFire: %v", err)
	}
	want := time.Date(2026, 6, 8, 3, 50, 0, 0, time.Local)
	if !next.Equal(want) {
		t.Fatalf("NextFire = %v, want %v", next, want)
	}
}

func TestFireRejectsMalformedExpression(t *testing.T) {
	ref := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	if _, err := NextFire("H H *", "ABCD", ref); err == nil {
		t.Fatalf("expected error for short expression")
	}
	if _, err := PrevFire("H H *", "ABCD", ref); err == nil {
		t.Fatalf("expected error for short expression")
	}
}
