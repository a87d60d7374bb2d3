package cron

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/adhocore/gronx"
)

// Day field grammars. The file is hand-editable, so the validator accepts
// the extended crontab forms even though Build only ever emits a subset.
// Reference: https://en.wikipedia.org/wiki/Cron#Cron_expression
var (
	reDayOfMonth = regexp.MustCompile(
		`^(?:\*|(?:[0-9]+W?|L|L-[0-9])(?:,(?:[0-9]+|L|L-[0-9]))*)$`)
	reDayOfWeek = regexp.MustCompile(
		`^(?:\*|` +
			`(?:[0-7]L|[0-7]#[1-5]|MON|TUE|WED|THU|FRI|SAT|SUN|[0-7])` +
			`(?:,(?:[0-7]L|[0-7]#[1-5]|MON|TUE|WED|THU|FRI|SAT|SUN|[0-7]))*)$`)
	reMonth = regexp.MustCompile(`^(?:\*|0?[1-9]|1[0-2])$`)

	// The tick engine has no L-offset form; the backstop checks the nearest
	// computable analogue instead.
	reLastOffset = regexp.MustCompile(`L-[0-9]`)
)

// Validate checks a stored 5-field expression (minute hour dom month dow).
// Minute/hour accept the H placeholder. Exactly one of dom/dow must be a
// wildcard: a job recurs monthly-by-day or weekly-by-day, never both.
func Validate(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return &ValidationError{
			Field:  "expression",
			Reason: fmt.Sprintf("expected 5 fields, got %d", len(fields)),
		}
	}

	if err := validateSlot("minute", fields[0], 59); err != nil {
		return err
	}
	if err := validateSlot("hour", fields[1], 23); err != nil {
		return err
	}

	dom, month, dow := fields[2], fields[3], fields[4]
	if !reDayOfMonth.MatchString(dom) {
		return &ValidationError{Field: "day-of-month", Reason: fmt.Sprintf("unrecognized %q", dom)}
	}
	if !reMonth.MatchString(month) {
		return &ValidationError{Field: "month", Reason: fmt.Sprintf("unrecognized %q", month)}
	}
	if !reDayOfWeek.MatchString(strings.ToUpper(dow)) {
		return &ValidationError{Field: "day-of-week", Reason: fmt.Sprintf("unrecognized %q", dow)}
	}

	switch {
	case dom == "*" && dow == "*":
		return &ValidationError{Field: "day-of-week", Reason: "day-of-month and day-of-week are both wildcards"}
	case dom != "*" && dow != "*":
		return &ValidationError{Field: "day-of-week", Reason: "day-of-month and day-of-week are both set"}
	}

	// Backstop: the tick engine must accept the resolved form too.
	resolved := make([]string, 5)
	copy(resolved, fields)
	if resolved[0] == Hashed {
		resolved[0] = "0"
	}
	if resolved[1] == Hashed {
		resolved[1] = "0"
	}
	resolved[2] = reLastOffset.ReplaceAllString(resolved[2], "L")
	if !gronx.New().IsValid(strings.Join(resolved, " ")) {
		return &ValidationError{Field: "expression", Reason: fmt.Sprintf("%q is not a computable schedule", expr)}
	}
	return nil
}

func validateSlot(name, field string, max int) error {
	if field == Hashed || field == "*" {
		return nil
	}
	n, err := strconv.Atoi(field)
	if err != nil || n < 0 || n > max {
		return &ValidationError{
			Field:  name,
			Reason: fmt.Sprintf("%q is not H, * or 0-%d", field, max),
		}
	}
	return nil
}
