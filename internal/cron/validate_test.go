package cron

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAccepts(t *testing.T) {
	valid := []string{
		"H H 15 * *",
		"H H * * MON",
		"H H * * 0",
		"0 12 1 * *",
		"H H 1,15 * *",
		"H H L * *",
		"H H L-3 * *",
		"H H 15W * *",
		"H H * * 5L",
		"H H * * 1#2",
		"H H * * MON,FRI",
		"H H 28 2 *",
	}
	for _, expr := range valid {
		if err := Validate(expr); err != nil {
			t.Fatalf("Validate(%q): %v", expr, err)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		expr  string
		field string
	}{
		{"H H * *", "expression"},
		{"H H * * * *", "expression"},
		{"61 H 15 * *", "minute"},
		{"H 24 15 * *", "hour"},
		{"x H 15 * *", "minute"},
		{"H H ** * *", "day-of-month"},
		{"H H 15 13 *", "month"},
		{"H H * * MONDAY", "day-of-week"},
		{"H H * * 8", "day-of-week"},
		{"H H * * *", "day-of-week"},
		{"H H 15 * MON", "day-of-week"},
	}
	for _, c := range cases {
		err := Validate(c.expr)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Validate(%q): expected ValidationError, got %v", c.expr, err)
		}
		if verr.Field != c.field {
			t.Fatalf("Validate(%q): field %q, want %q", c.expr, verr.Field, c.field)
		}
		if !strings.Contains(err.Error(), "invalid "+c.field) {
			t.Fatalf("Validate(%q): message %q does not name the field", c.expr, err)
		}
	}
}
