package scheduler

import (
	"errors"
	"testing"
	"time"
)

func TestNextWorkDay(t *testing.T) {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

	tests := []struct {
		name    string
		from    time.Time
		last    time.Time
		want    time.Time
		wantErr bool
	}{
		{"same day", ts(10, 15, 0), ts(14, 0, 0), ts(10, 0, 0), false},
		{"skips weekend", ts(15, 8, 0), ts(20, 0, 0), ts(17, 0, 0), false},
		{"last day inclusive", ts(14, 0, 0), ts(14, 0, 0), ts(14, 0, 0), false},
		{"weekend only", ts(15, 0, 0), ts(16, 0, 0), time.Time{}, true},
		{"from after last", ts(12, 0, 0), ts(11, 0, 0), time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextWorkDay(tt.from, tt.last, weekdays)
			if tt.wantErr {
				if !errors.Is(err, ErrInfeasible) {
					t.Fatalf("expected ErrInfeasible, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextWorkDay = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntelligentDayOrderPicksFreestDay(t *testing.T) {
	cfg := testConfig()
	cfg.IntelligentDayOrder = true
	cal := snapshot(
		appt(ts(10, 9, 0), ts(10, 12, 0), ""),
		appt(ts(10, 13, 0), ts(10, 16, 0), ""),
	)

	res, err := newTestScheduler(ts(10, 7, 0)).Plan(workItem(3, 3, 25, ts(11, 0, 0)), cal, nil, cfg)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got := res.Sessions[0].Start.Day(); got != 11 {
		t.Errorf("expected the free Tuesday, got day %d", got)
	}
}

func TestCategoryDayWeight(t *testing.T) {
	cfg := testConfig()
	cfg.CategoryDayWeight = 100
	cal := snapshot(appt(ts(12, 9, 0), ts(12, 10, 0), "math"))

	item := workItem(3, 3, 25, ts(12, 0, 0))
	item.CategoryID = "math"
	res, err := newTestScheduler(ts(10, 7, 0)).Plan(item, cal, nil, cfg)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got := res.Sessions[0].Start.Day(); got != 12 {
		t.Errorf("expected the day holding math events, got day %d", got)
	}

	item.CategoryID = "art"
	res, err = newTestScheduler(ts(10, 7, 0)).Plan(item, cal, nil, cfg)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got := res.Sessions[0].Start.Day(); got != 10 {
		t.Errorf("category without events should fall back to the earliest freest day, got day %d", got)
	}
}

func TestEnergyDayOrderWeight(t *testing.T) {
	cfg := testConfig()
	cfg.EnergyDayOrderWeight = 10
	cfg.EnergyCurve = make([]int, 24)
	for h := range cfg.EnergyCurve {
		cfg.EnergyCurve[h] = 1
	}
	cfg.WeekdayEnergy[time.Tuesday] = 3

	res, err := newTestScheduler(ts(10, 7, 0)).Plan(workItem(3, 3, 25, ts(12, 0, 0)), snapshot(), nil, cfg)
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if got := res.Sessions[0].Start.Weekday(); got != time.Tuesday {
		t.Errorf("expected Tuesday, got %s", got)
	}
}
