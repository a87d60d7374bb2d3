package cron

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// ValidationError reports a rejected day specification or expression field.
// It surfaces before any mutation, so a rejected input never writes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Hashed is the minute/hour placeholder in stored expressions.
const Hashed = "H"

var weekdayNames = map[string]bool{
	"MON": true, "TUE": true, "WED": true, "THU": true,
	"FRI": true, "SAT": true, "SUN": true,
}

// Build produces the stored expression for a day specification: either a
// day of month 1-28 or a 3-letter weekday token (case-insensitive).
// Exactly one of day-of-month/day-of-week carries the day, the other
// stays "*"; minute and hour are the H placeholder.
func Build(daySpec string) (string, error) {
	day := strings.ToUpper(strings.TrimSpace(daySpec))
	if day == "" {
		return "", &ValidationError{Field: "day", Reason: "day specification is empty"}
	}

	if weekdayNames[day] {
		return strings.Join([]string{Hashed, Hashed, "*", "*", day}, " "), nil
	}

	n, err := strconv.Atoi(day)
	if err != nil {
		return "", &ValidationError{
			Field:  "day",
			Reason: fmt.Sprintf("%q is neither a day of month (1-28) nor a weekday (MON..SUN)", daySpec),
		}
	}
	if n < 1 || n > 28 {
		return "", &ValidationError{
			Field:  "day",
			Reason: fmt.Sprintf("day of month %d out of range 1-28", n),
		}
	}
	return strings.Join([]string{Hashed, Hashed, strconv.Itoa(n), "*", "*"}, " "), nil
}

// Slots derives the deterministic (minute, hour) pair for a job ID.
//
// The function is pinned: FNV-1a 64 over the uppercased ID, minute = h % 60,
// hour = (h / 60) % 24. Changing it would silently reschedule every job.
func Slots(jobID string) (minute, hour int) {
	h := fnv64a(strings.ToUpper(strings.TrimSpace(jobID)))
	return int(h % 60), int((h / 60) % 24)
}

// Resolve substitutes the H placeholders with the job's hashed slots,
// yielding a plain 5-field expression.
func Resolve(expr, jobID string) (string, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return "", &ValidationError{
			Field:  "expression",
			Reason: fmt.Sprintf("expected 5 fields, got %d", len(fields)),
		}
	}
	minute, hour := Slots(jobID)
	if fields[0] == Hashed {
		fields[0] = strconv.Itoa(minute)
	}
	if fields[1] == Hashed {
		fields[1] = strconv.Itoa(hour)
	}
	return strings.Join(fields, " "), nil
}

func fnv64a(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
