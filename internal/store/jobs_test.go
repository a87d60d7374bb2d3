package store

import (
	"errors"
	"testing"
	"time"

	"opstab/internal/cron"
)

// ABCD hashes to minute 37, hour 2; RPT01 to minute 50, hour 3. The clock
// from newTestStore starts at Saturday 2026-06-20 12:00 local.

func TestJobLifecycle(t *testing.T) {
	s, _, _ := newTestStore(t)

	if s.JobExists("abcd") {
		t.Fatalf("JobExists before add")
	}
	if err := s.SetJob("abcd", "15"); err != nil {
		t.Fatalf("SetJob: %v", err)
	}
	if !s.JobExists("ABCD") {
		t.Fatalf("JobExists false after add")
	}

	st, err := s.GetJob("abcd")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if !st.Due {
		t.Fatalf("never-run job is not due")
	}
	if !st.LastRun.IsZero() {
		t.Fatalf("never-run job has LastRun %v", st.LastRun)
	}
	if st.Day != "15" {
		t.Fatalf("Day = %q, want %q", st.Day, "15")
	}
	wantNext := time.Date(2026, 7, 15, 2, 37, 0, 0, time.Local)
	if !st.NextRun.Equal(wantNext) {
		t.Fatalf("NextRun = %v, want %v", st.NextRun, wantNext)
	}

	day, err := s.JobDayText("ABCD")
	if err != nil {
		t.Fatalf("JobDayText: %v", err)
	}
	if day != "15th" {
		t.Fatalf("JobDayText = %q", day)
	}

	if err := s.DeleteJob("abcd"); err != nil {
		t.Fatalf("DeleteJob: %v", err)
	}
	if s.JobExists("ABCD") {
		t.Fatalf("job still present after delete")
	}
	if err := s.DeleteJob("abcd"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobWeekly(t *testing.T) {
	s, _, _ := newTestStore(t)

	if err := s.SetJob("rpt01", "mon"); err != nil {
		t.Fatalf("SetJob: %v", err)
	}
	st, err := s.GetJob("RPT01")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if st.Day != "MON" {
		t.Fatalf("Day = %q, want MON", st.Day)
	}
	wantNext := time.Date(2026, 6, 22, 3, 50, 0, 0, time.Local)
	if !st.NextRun.Equal(wantNext) {
		t.Fatalf("NextRun = %v, want %v", st.NextRun, wantNext)
	}
	day, err := s.JobDayText("rpt01")
	if err != nil {
		t.Fatalf("JobDayText: %v", err)
	}
	if day != "Mon" {
		t.Fatalf("JobDayText = %q", day)
	}
}

func TestJobDayTextOrdinals(t *testing.T) {
	s, _, _ := newTestStore(t)
	cases := map[string]string{"5": "5th", "11": "11th", "21": "21st"}
	for day, want := range cases {
		if err := s.SetJob("ord", day); err != nil {
			t.Fatalf("SetJob(%q): %v", day, err)
		}
		got, err := s.JobDayText("ord")
		if err != nil {
			t.Fatalf("JobDayText: %v", err)
		}
		if got != want {
			t.Fatalf("day %q rendered %q, want %q", day, got, want)
		}
	}
}

func TestJobRunAndReset(t *testing.T) {
	s, clk, _ := newTestStore(t)

	if err := s.SetJob("abcd", "15"); err != nil {
		t.Fatalf("SetJob: %v", err)
	}
	rc, err := s.RunJob("abcd")
	if err != nil {
		t.Fatalf("RunJob: %v", err)
	}
	if rc != 0 {
		t.Fatalf("RunJob rc = %d", rc)
	}

	st, err := s.GetJob("abcd")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if !st.LastRun.Equal(clk.t) {
		t.Fatalf("LastRun = %v, want %v", st.LastRun, clk.t)
	}
	if st.Due {
		t.Fatalf("job due right after a run")
	}

	if err := s.ResetJob("abcd"); err != nil {
		t.Fatalf("ResetJob: %v", err)
	}
	st, err = s.GetJob("abcd")
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if !st.Due || !st.LastRun.IsZero() {
		t.Fatalf("reset job not due again: %+v", st)
	}

	if _, err := s.RunJob("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.ResetJob("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Due-ness is a strict compare against the previous fire: a stamp exactly
// at the fire instant is not due, a stamp one second earlier is due the
// moment the instant passes. Pinned deliberately; tooling depends on it.
func TestJobDueAtExactFireTime(t *testing.T) {
	s, clk, _ := newTestStore(t)

	if err := s.SetJob("abcd", "15"); err != nil {
		t.Fatalf("SetJob: %v", err)
	}
	fire := time.Date(2026, 6, 15, 2, 37, 0, 0, time.Local)

	clk.t = fire
	if _, err := s.RunJob("abcd"); err != nil {
		t.Fatalf("RunJob: %v", err)
	}
	due, err := s.JobIsDue("abcd")
	if err != nil {
		t.Fatalf("JobIsDue: %v", err)
	}
	if due {
		t.Fatalf("job stamped exactly at the fire instant reads as due")
	}

	// Still not due anywhere inside the interval.
	clk.t = fire.Add(10 * 24 * time.Hour)
	if due, err = s.JobIsDue("abcd"); err != nil || due {
		t.Fatalf("mid-interval: due=%v err=%v", due, err)
	}

	// Due again once the next fire passes.
	clk.t = time.Date(2026, 7, 15, 2, 37, 0, 0, time.Local)
	if due, err = s.JobIsDue("abcd"); err != nil || !due {
		t.Fatalf("after next fire: due=%v err=%v", due, err)
	}
}

func TestJobStampedJustBeforeFireIsDueAgain(t *testing.T) {
	s, clk, _ := newTestStore(t)

	if err := s.SetJob("abcd", "15"); err != nil {
		t.Fatalf("SetJob: %v", err)
	}
	fire := time.Date(2026, 6, 15, 2, 37, 0, 0, time.Local)

	clk.t = fire.Add(-time.Second)
	if _, err := s.RunJob("abcd"); err != nil {
		t.Fatalf("RunJob: %v", err)
	}
	due, err := s.JobIsDue("abcd")
	if err != nil {
		t.Fatalf("JobIsDue: %v", err)
	}
	if due {
		t.Fatalf("due before the fire instant arrived")
	}

	clk.t = fire
	if due, err = s.JobIsDue("abcd"); err != nil || !due {
		t.Fatalf("stamp one second early must read as missed: due=%v err=%v", due, err)
	}
}

func TestSetJobRejectsBadDaySpec(t *testing.T) {
	s, _, _ := newTestStore(t)

	for _, day := range []string{"", "0", "29", "MONDAY"} {
		err := s.SetJob("bad", day)
		var verr *cron.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("SetJob(%q): expected ValidationError, got %v", day, err)
		}
	}
	if s.JobExists("BAD") {
		t.Fatalf("rejected job was persisted")
	}
}

func TestGetJobMissing(t *testing.T) {
	s, _, _ := newTestStore(t)
	if _, err := s.GetJob("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.JobDayText("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJobsSorted(t *testing.T) {
	s, _, _ := newTestStore(t)
	for _, id := range []string{"zeta", "alpha", "mid"} {
		if err := s.SetJob(id, "15"); err != nil {
			t.Fatalf("SetJob(%q): %v", id, err)
		}
	}
	ids := s.Jobs()
	want := []string{"ALPHA", "MID", "ZETA"}
	if len(ids) != len(want) {
		t.Fatalf("Jobs() = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Jobs() = %v, want %v", ids, want)
		}
	}
}
