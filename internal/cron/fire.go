package cron

import (
	"time"

	"github.com/adhocore/gronx"
)

// NextFire returns the first fire time strictly after ref for the job's
// resolved expression. Deterministic for a given expression and job ID.
func NextFire(expr, jobID string, ref time.Time) (time.Time, error) {
	resolved, err := Resolve(expr, jobID)
	if err != nil {
		return time.Time{}, err
	}
	return gronx.NextTickAfter(resolved, ref, false)
}

// PrevFire returns the most recent fire time at or before ref. It exists to
// compute due-ness: a job whose last run predates PrevFire(now) has missed
// a scheduled fire.
func PrevFire(expr, jobID string, ref time.Time) (time.Time, error) {
	resolved, err := Resolve(expr, jobID)
	if err != nil {
		return time.Time{}, err
	}
	return gronx.PrevTickBefore(resolved, ref, true)
}
