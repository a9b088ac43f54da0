// Package config resolves the scheduling parameters used by one plan call.
//
// Values are layered: built-in defaults, then settings persisted in the
// store, then environment variables, then per-request overrides. The
// result is a plain Config value that the scheduler treats as read-only.
package config

import (
	"math"
	"time"

	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/utils"
)

// Config holds every tunable scheduling parameter.
type Config struct {
	WorkStartHour    int
	WorkEndHour      int
	LunchStartHour   int
	LunchDurationMin int
	WorkDays         []time.Weekday
	Timezone         string

	SessionLengthMin    int
	MinSessionLengthMin int
	MaxSessionLengthMin int

	ShortBreakMin    int
	MinShortBreakMin int
	MaxShortBreakMin int
	LongBreakMin     int
	MinLongBreakMin  int
	MaxLongBreakMin  int

	SessionsBeforeLongBreak int
	MaxSessionsPerDay       int

	// Daily caps across every session on a day; 0 disables the cap.
	MaxDailySessions   int
	MaxDailyDifficulty int
	MaxDailyEnergy     int

	EnergyCurve      []int
	EnergyQuantumMin int
	WeekdayEnergy    [7]float64

	IntelligentSessionLength bool
	IntelligentBreaks        bool
	FatigueBreaks            bool
	FatigueFactor            float64
	IntelligentDayOrder      bool
	IntelligentSlotSelection bool

	EnergyDayOrderWeight float64
	CategoryDayWeight    float64

	TransitionBufferMin         int
	IntelligentTransitionBuffer bool

	ProductivityWeight         float64
	ProductivityHalfLifeDays   int
	CategoryProductivityWeight float64
	CategoryAdjacencyWindowMin int

	DeepWorkThreshold int

	HighEnergyStartHour *int
	HighEnergyEndHour   *int
	LowEnergyStartHour  *int
	LowEnergyEndHour    *int

	DifficultyWeight float64
	PriorityWeight   float64
	UrgencyWeight    float64

	Reserved Reserved
}

// Reserved fields are accepted from every layer but not used by the scheduler.
type Reserved struct {
	SpacedRepetitionFactor float64
	SessionCountWeight     float64
	DifficultyLoadWeight   float64
	EnergyLoadWeight       float64
}

// Default returns the documented default configuration.
func Default() Config {
	c := Config{
		WorkStartHour:              constants.DefaultWorkStartHour,
		WorkEndHour:                constants.DefaultWorkEndHour,
		LunchStartHour:             constants.DefaultLunchStartHour,
		LunchDurationMin:           constants.DefaultLunchDurationMinutes,
		WorkDays:                   []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
		Timezone:                   constants.DefaultTimezone,
		SessionLengthMin:           constants.DefaultSessionLengthMinutes,
		MinSessionLengthMin:        constants.DefaultMinSessionLengthMinutes,
		MaxSessionLengthMin:        constants.DefaultMaxSessionLengthMinutes,
		ShortBreakMin:              constants.DefaultShortBreakMinutes,
		MinShortBreakMin:           constants.DefaultMinShortBreakMinutes,
		MaxShortBreakMin:           constants.DefaultMaxShortBreakMinutes,
		LongBreakMin:               constants.DefaultLongBreakMinutes,
		MinLongBreakMin:            constants.DefaultMinLongBreakMinutes,
		MaxLongBreakMin:            constants.DefaultMaxLongBreakMinutes,
		SessionsBeforeLongBreak:    constants.DefaultSessionsBeforeLongBreak,
		MaxSessionsPerDay:          constants.DefaultMaxSessionsPerDay,
		EnergyQuantumMin:           constants.DefaultEnergyQuantumMinutes,
		FatigueFactor:              constants.DefaultFatigueBreakFactor,
		ProductivityHalfLifeDays:   constants.DefaultProductivityHalfLife,
		CategoryAdjacencyWindowMin: constants.DefaultCategoryAdjacencyWindow,
		DifficultyWeight:           1,
		PriorityWeight:             1,
		UrgencyWeight:              1,
	}
	for i := range c.WeekdayEnergy {
		c.WeekdayEnergy[i] = 1
	}
	return c
}

// Clone returns a deep copy so layers never share slices or pointers.
func (c Config) Clone() Config {
	out := c
	out.WorkDays = append([]time.Weekday(nil), c.WorkDays...)
	if c.EnergyCurve != nil {
		out.EnergyCurve = append([]int(nil), c.EnergyCurve...)
	}
	out.HighEnergyStartHour = cloneInt(c.HighEnergyStartHour)
	out.HighEnergyEndHour = cloneInt(c.HighEnergyEndHour)
	out.LowEnergyStartHour = cloneInt(c.LowEnergyStartHour)
	out.LowEnergyEndHour = cloneInt(c.LowEnergyEndHour)
	return out
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	return utils.LoadLocation(c.Timezone)
}

// HasEnergyCurve reports whether the configured curve is usable.
func (c Config) HasEnergyCurve() bool {
	return len(c.EnergyCurve) == 24
}

// IsWorkDay reports whether wd is one of the configured work days.
func (c Config) IsWorkDay(wd time.Weekday) bool {
	for _, d := range c.WorkDays {
		if d == wd {
			return true
		}
	}
	return false
}

// LunchStartMinute returns lunch start as minutes from midnight.
func (c Config) LunchStartMinute() int {
	return c.LunchStartHour * 60
}

// LunchEndMinute returns lunch end as minutes from midnight.
func (c Config) LunchEndMinute() int {
	return c.LunchStartHour*60 + c.LunchDurationMin
}

// WeekdayMultiplier returns the energy multiplier for wd. Zero marks a day
// with no usable energy.
func (c Config) WeekdayMultiplier(wd time.Weekday) float64 {
	return c.WeekdayEnergy[int(wd)]
}

// TransitionBuffer returns the buffer in minutes kept around busy intervals
// for work of the given difficulty.
func (c Config) TransitionBuffer(difficulty int) int {
	if c.TransitionBufferMin <= 0 {
		return 0
	}
	if !c.IntelligentTransitionBuffer {
		return c.TransitionBufferMin
	}
	return int(math.Round(float64(c.TransitionBufferMin) * (1 + (float64(difficulty)/5)/2)))
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
