package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{
			name:     "empty string returns local",
			timezone: "",
			wantErr:  false,
		},
		{
			name:     "Local returns local",
			timezone: "Local",
			wantErr:  false,
		},
		{
			name:     "valid timezone UTC",
			timezone: "UTC",
			wantErr:  false,
		},
		{
			name:     "valid timezone Europe/London",
			timezone: "Europe/London",
			wantErr:  false,
		},
		{
			name:     "invalid timezone",
			timezone: "Invalid/Timezone",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestParseDateInLocation(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	got, err := ParseDateInLocation("2025-03-09", loc)
	if err != nil {
		t.Fatalf("ParseDateInLocation() error = %v", err)
	}
	if got.Hour() != 0 || got.Day() != 9 || got.Location() != loc {
		t.Errorf("ParseDateInLocation() = %v, want midnight 2025-03-09 in %v", got, loc)
	}

	if _, err := ParseDateInLocation("03/09/2025", loc); err == nil {
		t.Error("ParseDateInLocation() expected error for invalid format")
	}
}

func TestParseDateTimeInLocation(t *testing.T) {
	got, err := ParseDateTimeInLocation("2025-06-02 14:30", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	got, err = ParseDateTimeInLocation("2025-06-02T14:30:00Z", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error for RFC3339: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseDateTimeInLocation("tomorrow", time.UTC); err == nil {
		t.Error("expected error for unparseable input")
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// DST starts 2025-03-09 in New York
	day := time.Date(2025, 3, 8, 0, 0, 0, 0, loc)
	next := AddDays(day, 1)
	if next.Hour() != 0 || next.Day() != 9 {
		t.Errorf("AddDays() = %v, want midnight on the 9th", next)
	}
	if got := DaysBetween(day, AddDays(day, 3)); got != 3 {
		t.Errorf("DaysBetween() = %d, want 3", got)
	}
}

func TestCeilMinute(t *testing.T) {
	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	if got := CeilMinute(base); !got.Equal(base) {
		t.Errorf("CeilMinute() on whole minute = %v, want %v", got, base)
	}
	if got := CeilMinute(base.Add(10 * time.Second)); !got.Equal(base.Add(time.Minute)) {
		t.Errorf("CeilMinute() = %v, want %v", got, base.Add(time.Minute))
	}
}
