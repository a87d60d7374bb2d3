package cron

import (
	"strings"
)

var weekdayText = map[string]string{
	"MON": "Mon", "TUE": "Tue", "WED": "Wed", "THU": "Thu",
	"FRI": "Fri", "SAT": "Sat", "SUN": "Sun",
	"0": "Sun", "1": "Mon", "2": "Tue", "3": "Wed",
	"4": "Thu", "5": "Fri", "6": "Sat", "7": "Sun",
}

// DayOfMonthText renders a day-of-month field as a human phrase.
// Unrecognized tokens come back wrapped in inverted question marks so they
// are never silently dropped from a listing.
func DayOfMonthText(field string) string {
	switch {
	case field == "*" || field == "?":
		return "day"
	case field == "L":
		return "Last day"
	case strings.HasPrefix(field, "L-"):
		if !isDigits(field[2:]) {
			return unknownToken(field)
		}
		return field[2:] + " day before last"
	case strings.HasSuffix(field, "W"):
		n := field[:len(field)-1]
		if !isDigits(n) {
			return unknownToken(field)
		}
		return ordinal(n) + " weekday"
	case strings.Contains(field, ","):
		// Literal join, not recursively ordinalized.
		return "Every " + strings.Join(strings.Split(field, ","), ", ")
	case isDigits(field):
		return ordinal(field)
	default:
		return unknownToken(field)
	}
}

// WeekdayText renders a day-of-week field as a human phrase.
func WeekdayText(field string) string {
	if strings.Contains(field, ",") {
		parts := strings.Split(field, ",")
		for i, p := range parts {
			parts[i] = WeekdayText(p)
		}
		return strings.Join(parts, ", ")
	}
	if field == "*" || field == "?" {
		return "weekday"
	}
	if day, nth, ok := strings.Cut(field, "#"); ok {
		name, known := weekdayText[strings.ToUpper(day)]
		if !known || !isDigits(nth) {
			return unknownToken(field)
		}
		return ordinal(nth) + " " + name + " of the month"
	}
	if trimmed, ok := strings.CutSuffix(field, "L"); ok && trimmed != "" {
		name, known := weekdayText[strings.ToUpper(trimmed)]
		if !known {
			return unknownToken(field)
		}
		return "Last " + name + " of the month"
	}
	if name, ok := weekdayText[strings.ToUpper(field)]; ok {
		return name
	}
	return unknownToken(field)
}

// DayText picks the effective day field of an expression: day-of-month
// unless it is a wildcard, else day-of-week.
func DayText(expr string) (string, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return "", &ValidationError{Field: "expression", Reason: "expected 5 fields"}
	}
	dom, dow := fields[2], fields[4]
	if dom != "*" && dom != "?" {
		return DayOfMonthText(dom), nil
	}
	return WeekdayText(dow), nil
}

// ordinal appends the English ordinal suffix: 1st, 2nd, 3rd, 4th...
// with the 11/12/13 exceptions (11th, not 11st).
func ordinal(n string) string {
	if len(n) >= 2 {
		switch n[len(n)-2:] {
		case "11", "12", "13":
			return n + "th"
		}
	}
	switch n[len(n)-1] {
	case '1':
		return n + "st"
	case '2':
		return n + "nd"
	case '3':
		return n + "rd"
	default:
		return n + "th"
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func unknownToken(field string) string {
	return "¿" + field + "?"
}
