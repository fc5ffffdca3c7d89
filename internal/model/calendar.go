package model

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeKey sorts items without a time after everything else in a day.
const DefaultTimeKey = "23:59"

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayName returns the lowercase English weekday of t.
func WeekdayName(t time.Time) string {
	return weekdayNames[t.Weekday()]
}

// IsWeekdayName reports whether s is a lowercase English weekday name.
func IsWeekdayName(s string) bool {
	for _, n := range weekdayNames {
		if s == n {
			return true
		}
	}
	return false
}

// WeekID derives a meal plan key from a date, e.g. 2024-03-01 -> "2024-3-1".
func WeekID(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// DateKey formats t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// IsClock reports whether s is a zero-padded 24-hour HH:MM string.
func IsClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	hh, mm := s[:2], s[3:]
	if strings.Trim(hh, "0123456789") != "" || strings.Trim(mm, "0123456789") != "" {
		return false
	}
	return hh <= "23" && mm <= "59"
}
