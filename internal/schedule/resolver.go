package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnresolvable wraps any failure to turn civil fields into an instant.
var ErrUnresolvable = errors.New("cannot resolve civil time to instant")

// Resolver converts a teacher-entered civil date, time of day and IANA zone
// name into an unambiguous UTC instant. It is pure: no state beyond the
// configured default zone, no I/O, and identical inputs always yield the
// identical instant.
type Resolver struct {
	defaultZone string
}

// NewResolver creates a Resolver. defaultZone is substituted whenever a
// class carries a blank or unknown timezone name.
func NewResolver(defaultZone string) *Resolver {
	return &Resolver{defaultZone: defaultZone}
}

// DefaultZone returns the configured fallback zone name.
func (r *Resolver) DefaultZone() string {
	return r.defaultZone
}

// Resolve returns the UTC instant at which the given wall clock strikes
// date+t in the named zone. DST is handled by the zone database: the offset
// in effect on that calendar date is the one applied.
//
// An unknown zone name silently falls back to the default zone. A malformed
// date is an ErrUnresolvable error; callers recover via ResolveStart.
func (r *Resolver) Resolve(civilDate string, t CivilTime, timezone string) (time.Time, error) {
	day, err := time.Parse(CivilDateLayout, civilDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnresolvable, civilDate, err)
	}

	loc := r.location(timezone)
	local := time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, loc)
	return local.UTC(), nil
}

// ResolveStart is the forgiving form used on the class read path: it parses
// the stored civil time string (either legacy shape) and resolves it. If any
// field is malformed the civil fields are interpreted as UTC with zero
// offset, so a corrupt record still gets a stable, deployment-independent
// start instant instead of being dropped from lifecycle evaluation.
func (r *Resolver) ResolveStart(civilDate, civilTime, timezone string) time.Time {
	t, err := ParseCivilTime(civilTime)
	if err != nil {
		t = CivilTime{}
	}

	at, err := r.Resolve(civilDate, t, timezone)
	if err != nil {
		day, dayErr := time.Parse(CivilDateLayout, civilDate)
		if dayErr != nil {
			// Nothing usable at all; pin to the zero instant so the class
			// ages out as cancelled rather than lingering forever.
			return time.Time{}
		}
		return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, time.UTC)
	}
	return at
}

// location resolves an IANA zone name, substituting the default zone for
// blank or unknown names, and UTC if even the default is unloadable.
func (r *Resolver) location(timezone string) *time.Location {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(r.defaultZone); err == nil {
		return loc
	}
	return time.UTC
}
