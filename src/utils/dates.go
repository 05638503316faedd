package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const ShortDashDateLayout = "2006-01-02"

// ParseCutoff parses a 24-hour "HH:MM" cutoff time-of-day.
func ParseCutoff(cutoff string) (hour, minute int, err error) {
	parts := strings.Split(cutoff, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid cutoff time %q, expected HH:MM", cutoff)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid cutoff hour in %q", cutoff)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid cutoff minute in %q", cutoff)
	}
	return hour, minute, nil
}

// LocalDay returns the calendar date of now in the given zone, at midnight.
func LocalDay(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// AfterCutoff reports whether now, seen in the given zone, has reached the
// cutoff time-of-day. Exactly at the cutoff counts as reached.
func AfterCutoff(now time.Time, loc *time.Location, cutoff string) (bool, error) {
	hour, minute, err := ParseCutoff(cutoff)
	if err != nil {
		return false, err
	}
	local := now.In(loc)
	cutoffAt := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	return !local.Before(cutoffAt), nil
}
