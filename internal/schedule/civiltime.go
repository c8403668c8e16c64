package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Civil time parsing errors.
var (
	ErrBadCivilTime = errors.New("malformed civil time")
	ErrBadCivilDate = errors.New("malformed civil date")
)

// DefaultDurationMinutes is assumed when a duration label cannot be parsed.
const DefaultDurationMinutes = 60

// CivilDateLayout is the wire format of a class's civil date.
const CivilDateLayout = "2006-01-02"

// meridiem tags the two historical shapes of stored class times:
// plain 24-hour "HH:MM" and 12-hour "H:MM AM/PM".
type meridiem int

const (
	noMeridiem meridiem = iota
	meridiemAM
	meridiemPM
)

// CivilTime is a wall-clock time of day with no attached date or zone.
// It is always held in 24-hour form; the AM/PM legacy shape is resolved
// once in ParseCivilTime and never leaks past this package.
type CivilTime struct {
	Hour   int
	Minute int
}

// String formats the time back to canonical "HH:MM".
func (t CivilTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseCivilTime accepts both stored shapes of a class time:
//
//	"14:00"     24-hour
//	"2:00 PM"   12-hour with meridiem suffix
//
// and returns the canonical 24-hour representation. 12 AM maps to hour 0,
// 12 PM stays 12, and other PM hours gain 12.
func ParseCivilTime(raw string) (CivilTime, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return CivilTime{}, fmt.Errorf("%w: empty string", ErrBadCivilTime)
	}

	mer := noMeridiem
	upper := strings.ToUpper(s)
	switch {
	case strings.HasSuffix(upper, "AM"):
		mer = meridiemAM
		s = strings.TrimSpace(s[:len(s)-2])
	case strings.HasSuffix(upper, "PM"):
		mer = meridiemPM
		s = strings.TrimSpace(s[:len(s)-2])
	}

	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return CivilTime{}, fmt.Errorf("%w: %q", ErrBadCivilTime, raw)
	}

	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return CivilTime{}, fmt.Errorf("%w: %q", ErrBadCivilTime, raw)
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return CivilTime{}, fmt.Errorf("%w: %q", ErrBadCivilTime, raw)
	}

	switch mer {
	case meridiemAM:
		if hour < 1 || hour > 12 {
			return CivilTime{}, fmt.Errorf("%w: %q", ErrBadCivilTime, raw)
		}
		if hour == 12 {
			hour = 0
		}
	case meridiemPM:
		if hour < 1 || hour > 12 {
			return CivilTime{}, fmt.Errorf("%w: %q", ErrBadCivilTime, raw)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		// An hour of 24 shows up in some old records as an end-of-day
		// rollover artifact; treat it as midnight.
		if hour == 24 {
			hour = 0
		}
		if hour < 0 || hour > 23 {
			return CivilTime{}, fmt.Errorf("%w: %q", ErrBadCivilTime, raw)
		}
	}

	if minute < 0 || minute > 59 {
		return CivilTime{}, fmt.Errorf("%w: %q", ErrBadCivilTime, raw)
	}

	return CivilTime{Hour: hour, Minute: minute}, nil
}

// ParseDurationLabel converts a free-text duration label ("60 min") to
// integer minutes. Unparseable labels fall back to DefaultDurationMinutes
// so a bad label can never stall a class's lifecycle.
func ParseDurationLabel(label string) int {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return DefaultDurationMinutes
	}
	minutes, err := strconv.Atoi(fields[0])
	if err != nil || minutes <= 0 {
		return DefaultDurationMinutes
	}
	return minutes
}
