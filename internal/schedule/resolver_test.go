package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	r := NewResolver("Asia/Karachi")

	tests := []struct {
		name      string
		civilDate string
		civilTime CivilTime
		timezone  string
		want      time.Time
	}{
		{
			// Karachi is UTC+5 year-round.
			name:      "karachi morning",
			civilDate: "2026-02-17",
			civilTime: CivilTime{9, 0},
			timezone:  "Asia/Karachi",
			want:      time.Date(2026, 2, 17, 4, 0, 0, 0, time.UTC),
		},
		{
			name:      "utc passthrough",
			civilDate: "2026-02-17",
			civilTime: CivilTime{9, 0},
			timezone:  "UTC",
			want:      time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC),
		},
		{
			// New York is on EST (UTC-5) in January.
			name:      "new york winter",
			civilDate: "2026-01-10",
			civilTime: CivilTime{20, 0},
			timezone:  "America/New_York",
			want:      time.Date(2026, 1, 11, 1, 0, 0, 0, time.UTC),
		},
		{
			// And on EDT (UTC-4) in July; the zone database picks the offset.
			name:      "new york summer",
			civilDate: "2026-07-10",
			civilTime: CivilTime{20, 0},
			timezone:  "America/New_York",
			want:      time.Date(2026, 7, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "blank zone uses default",
			civilDate: "2026-02-17",
			civilTime: CivilTime{9, 0},
			timezone:  "",
			want:      time.Date(2026, 2, 17, 4, 0, 0, 0, time.UTC),
		},
		{
			name:      "unknown zone uses default",
			civilDate: "2026-02-17",
			civilTime: CivilTime{9, 0},
			timezone:  "Mars/Olympus_Mons",
			want:      time.Date(2026, 2, 17, 4, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.civilDate, tt.civilTime, tt.timezone)
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Resolve = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver("Asia/Karachi")

	first, err := r.Resolve("2026-03-01", CivilTime{18, 30}, "Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := r.Resolve("2026-03-01", CivilTime{18, 30}, "Europe/Berlin")
		if err != nil {
			t.Fatal(err)
		}
		if !again.Equal(first) {
			t.Fatalf("resolution not deterministic: %v vs %v", again, first)
		}
	}
}

func TestResolveBadDate(t *testing.T) {
	r := NewResolver("Asia/Karachi")

	if _, err := r.Resolve("17-02-2026", CivilTime{9, 0}, "UTC"); !errors.Is(err, ErrUnresolvable) {
		t.Errorf("error = %v, want ErrUnresolvable", err)
	}
}

func TestResolveStart(t *testing.T) {
	r := NewResolver("Asia/Karachi")

	tests := []struct {
		name      string
		civilDate string
		civilTime string
		timezone  string
		want      time.Time
	}{
		{
			name:      "legacy meridiem shape",
			civilDate: "2026-02-15",
			civilTime: "10:00 AM",
			timezone:  "Asia/Karachi",
			want:      time.Date(2026, 2, 15, 5, 0, 0, 0, time.UTC),
		},
		{
			name:      "canonical shape",
			civilDate: "2026-02-15",
			civilTime: "10:00",
			timezone:  "Asia/Karachi",
			want:      time.Date(2026, 2, 15, 5, 0, 0, 0, time.UTC),
		},
		{
			// Unparseable time collapses to midnight, still in the zone.
			name:      "corrupt time",
			civilDate: "2026-02-15",
			civilTime: "whenever",
			timezone:  "UTC",
			want:      time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "corrupt date pins to zero instant",
			civilDate: "not a date",
			civilTime: "10:00",
			timezone:  "UTC",
			want:      time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.ResolveStart(tt.civilDate, tt.civilTime, tt.timezone)
			if !got.Equal(tt.want) {
				t.Errorf("ResolveStart = %v, want %v", got, tt.want)
			}
		})
	}
}
