package schedule

import (
	"errors"
	"testing"
)

func TestParseCivilTime(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want CivilTime
	}{
		{"24h morning", "09:00", CivilTime{9, 0}},
		{"24h afternoon", "14:30", CivilTime{14, 30}},
		{"24h midnight", "00:00", CivilTime{0, 0}},
		{"24h end of day rollover", "24:00", CivilTime{0, 0}},
		{"12h AM", "9:00 AM", CivilTime{9, 0}},
		{"12h PM", "2:00 PM", CivilTime{14, 0}},
		{"12h noon", "12:00 PM", CivilTime{12, 0}},
		{"12h midnight", "12:00 AM", CivilTime{0, 0}},
		{"12h lowercase", "2:15 pm", CivilTime{14, 15}},
		{"12h no space before meridiem", "2:00PM", CivilTime{14, 0}},
		{"surrounding whitespace", "  10:45  ", CivilTime{10, 45}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCivilTime(tt.raw)
			if err != nil {
				t.Fatalf("ParseCivilTime(%q) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseCivilTime(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseCivilTimeEquivalence(t *testing.T) {
	// The two stored shapes of the same wall-clock moment must converge.
	a, err := ParseCivilTime("2:00 PM")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseCivilTime("14:00")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("2:00 PM parsed to %v but 14:00 parsed to %v", a, b)
	}
}

func TestParseCivilTimeRejects(t *testing.T) {
	tests := []string{
		"",
		"afternoon",
		"25:00",
		"-1:00",
		"10:60",
		"13:00 PM",
		"0:30 AM",
		"10",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			if _, err := ParseCivilTime(raw); !errors.Is(err, ErrBadCivilTime) {
				t.Errorf("ParseCivilTime(%q) error = %v, want ErrBadCivilTime", raw, err)
			}
		})
	}
}

func TestCivilTimeString(t *testing.T) {
	got := CivilTime{Hour: 9, Minute: 5}.String()
	if got != "09:05" {
		t.Errorf("String() = %q, want %q", got, "09:05")
	}
}

func TestParseDurationLabel(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"60 min", 60},
		{"90 min", 90},
		{"30 min", 30},
		{"120 min", 120},
		{"45", 45},
		{"", DefaultDurationMinutes},
		{"soon", DefaultDurationMinutes},
		{"-10 min", DefaultDurationMinutes},
		{"0 min", DefaultDurationMinutes},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := ParseDurationLabel(tt.label); got != tt.want {
				t.Errorf("ParseDurationLabel(%q) = %d, want %d", tt.label, got, tt.want)
			}
		})
	}
}
