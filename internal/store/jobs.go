package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"opstab/internal/cron"
	logx "opstab/pkg/logx"
)

// JobStatus is the computed view of one scheduled job. LastRun is the zero
// time when the job has never run.
type JobStatus struct {
	Due     bool
	Day     string // effective day field: day-of-month unless "*", else day-of-week
	LastRun time.Time
	NextRun time.Time
}

// GetJob computes the status of a job relative to now.
//
// Due-ness compares last_run against the *previous* scheduled fire, not the
// next one, and the compare is strict: a stamp exactly at the fire instant
// reads as not due, while a stamp even a second earlier counts as missed
// once that instant passes. Surrounding tooling depends on that edge, so it
// stays.
func (s *Store) GetJob(id string) (JobStatus, error) {
	id = normalizeID(id)
	sec, err := s.snapshot().GetSection(jobPrefix + id)
	if err != nil {
		return JobStatus{}, fmt.Errorf("job %q %w", id, ErrNotFound)
	}

	expr := sec.Key("cron").String()
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return JobStatus{}, fmt.Errorf("job %q has a malformed cron entry %q", id, expr)
	}

	now := s.now()
	next, err := cron.NextFire(expr, id, now)
	if err != nil {
		return JobStatus{}, fmt.Errorf("job %q: %w", id, err)
	}
	prev, err := cron.PrevFire(expr, id, now)
	if err != nil {
		return JobStatus{}, fmt.Errorf("job %q: %w", id, err)
	}

	st := JobStatus{NextRun: next, Due: true}
	if raw := sec.Key("last_run").String(); raw != "" {
		last, perr := time.ParseInLocation(timeLayout, raw, time.Local)
		if perr != nil {
			return JobStatus{}, fmt.Errorf("job %q has a malformed last_run %q", id, raw)
		}
		st.LastRun = last
		st.Due = last.Before(prev)
	}

	if dom := fields[2]; dom != "*" {
		st.Day = dom
	} else {
		st.Day = fields[4]
	}
	return st, nil
}

// JobIsDue reports whether the job has missed its previous scheduled fire.
func (s *Store) JobIsDue(id string) (bool, error) {
	st, err := s.GetJob(id)
	if err != nil {
		return false, err
	}
	return st.Due, nil
}

// JobExists reports whether a job is defined.
func (s *Store) JobExists(id string) bool {
	_, err := s.snapshot().GetSection(jobPrefix + normalizeID(id))
	return err == nil
}

// JobDayText renders the job's recurrence day as a human phrase ("15th",
// "Mon", "Last day", ...).
func (s *Store) JobDayText(id string) (string, error) {
	id = normalizeID(id)
	sec, err := s.snapshot().GetSection(jobPrefix + id)
	if err != nil {
		return "", fmt.Errorf("job %q %w", id, ErrNotFound)
	}
	text, err := cron.DayText(sec.Key("cron").String())
	if err != nil {
		return "", fmt.Errorf("job %q: %w", id, err)
	}
	return text, nil
}

// SetJob creates or updates a job's schedule from a day specification
// (1-28 or a 3-letter weekday). The expression is built and validated
// before anything is written.
func (s *Store) SetJob(id, daySpec string) error {
	id = normalizeID(id)
	expr, err := cron.Build(daySpec)
	if err != nil {
		s.log.Error("set job rejected", logx.String("job", id), logx.Err(err))
		return err
	}
	if err := cron.Validate(expr); err != nil {
		s.log.Error("set job rejected", logx.String("job", id), logx.Err(err))
		return err
	}

	err = s.mutate("set_job", "job", id, func(doc *ini.File) error {
		doc.Section(jobPrefix + id).Key("cron").SetValue(expr)
		return nil
	})
	if err != nil {
		s.log.Error("set job failed", logx.String("job", id), logx.Err(err))
		return err
	}
	s.log.Info("job set", logx.String("job", id), logx.String("cron", expr))
	return nil
}

// RunJob stamps last_run with the current time and returns the run status
// code. It does not execute any payload; running the job is the caller's
// responsibility.
func (s *Store) RunJob(id string) (int, error) {
	id = normalizeID(id)
	now := s.now()
	err := s.mutate("run_job", "job", id, func(doc *ini.File) error {
		sec, err := doc.GetSection(jobPrefix + id)
		if err != nil {
			return fmt.Errorf("job %q %w", id, ErrNotFound)
		}
		sec.Key("last_run").SetValue(now.Format(timeLayout))
		return nil
	})
	if err != nil {
		s.log.Error("run job failed", logx.String("job", id), logx.Err(err))
		return 1, err
	}
	s.log.Info("job run recorded", logx.String("job", id), logx.Time("last_run", now))
	return 0, nil
}

// ResetJob clears last_run so the job is immediately due again.
func (s *Store) ResetJob(id string) error {
	id = normalizeID(id)
	err := s.mutate("reset_job", "job", id, func(doc *ini.File) error {
		sec, err := doc.GetSection(jobPrefix + id)
		if err != nil {
			return fmt.Errorf("job %q %w", id, ErrNotFound)
		}
		sec.Key("last_run").SetValue("")
		return nil
	})
	if err != nil {
		s.log.Error("reset job failed", logx.String("job", id), logx.Err(err))
		return err
	}
	s.log.Info("job reset", logx.String("job", id))
	return nil
}

// DeleteJob removes the whole job record.
func (s *Store) DeleteJob(id string) error {
	id = normalizeID(id)
	err := s.mutate("delete_job", "job", id, func(doc *ini.File) error {
		if _, err := doc.GetSection(jobPrefix + id); err != nil {
			return fmt.Errorf("job %q %w", id, ErrNotFound)
		}
		doc.DeleteSection(jobPrefix + id)
		return nil
	})
	if err != nil {
		s.log.Error("delete job failed", logx.String("job", id), logx.Err(err))
		return err
	}
	s.log.Info("job deleted", logx.String("job", id))
	return nil
}

// Jobs returns all job IDs in sorted order.
func (s *Store) Jobs() []string {
	ids := sectionIDs(s.snapshot(), jobPrefix)
	sort.Strings(ids)
	return ids
}
