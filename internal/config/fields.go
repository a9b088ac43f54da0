package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/utils"
)

// field binds one setting key to its parse and format functions. Parsers
// validate the whole value before assigning, so a failed set leaves the
// Config untouched.
type field struct {
	key string
	set func(c *Config, v string) error
	get func(c *Config) string
}

var fields = []field{
	intField(constants.SettingWorkStartHour, func(c *Config) *int { return &c.WorkStartHour }),
	intField(constants.SettingWorkEndHour, func(c *Config) *int { return &c.WorkEndHour }),
	intField(constants.SettingLunchStartHour, func(c *Config) *int { return &c.LunchStartHour }),
	intField(constants.SettingLunchDurationMinutes, func(c *Config) *int { return &c.LunchDurationMin }),
	{
		key: constants.SettingWorkDays,
		set: func(c *Config, v string) error {
			days, err := ParseWorkDays(v)
			if err != nil {
				return err
			}
			c.WorkDays = days
			return nil
		},
		get: func(c *Config) string { return FormatWorkDays(c.WorkDays) },
	},
	{
		key: constants.SettingTimezone,
		set: func(c *Config, v string) error {
			v = strings.TrimSpace(v)
			if !utils.ValidateTimezone(v) {
				return fmt.Errorf("invalid timezone: %s", v)
			}
			c.Timezone = v
			return nil
		},
		get: func(c *Config) string { return c.Timezone },
	},
	intField(constants.SettingSessionLengthMinutes, func(c *Config) *int { return &c.SessionLengthMin }),
	intField(constants.SettingMinSessionLengthMinutes, func(c *Config) *int { return &c.MinSessionLengthMin }),
	intField(constants.SettingMaxSessionLengthMinutes, func(c *Config) *int { return &c.MaxSessionLengthMin }),
	intField(constants.SettingShortBreakMinutes, func(c *Config) *int { return &c.ShortBreakMin }),
	intField(constants.SettingMinShortBreakMinutes, func(c *Config) *int { return &c.MinShortBreakMin }),
	intField(constants.SettingMaxShortBreakMinutes, func(c *Config) *int { return &c.MaxShortBreakMin }),
	intField(constants.SettingLongBreakMinutes, func(c *Config) *int { return &c.LongBreakMin }),
	intField(constants.SettingMinLongBreakMinutes, func(c *Config) *int { return &c.MinLongBreakMin }),
	intField(constants.SettingMaxLongBreakMinutes, func(c *Config) *int { return &c.MaxLongBreakMin }),
	intField(constants.SettingSessionsBeforeLongBreak, func(c *Config) *int { return &c.SessionsBeforeLongBreak }),
	intField(constants.SettingMaxSessionsPerDay, func(c *Config) *int { return &c.MaxSessionsPerDay }),
	intField(constants.SettingMaxDailySessions, func(c *Config) *int { return &c.MaxDailySessions }),
	intField(constants.SettingMaxDailyDifficulty, func(c *Config) *int { return &c.MaxDailyDifficulty }),
	intField(constants.SettingMaxDailyEnergy, func(c *Config) *int { return &c.MaxDailyEnergy }),
	{
		key: constants.SettingEnergyCurve,
		set: func(c *Config, v string) error {
			curve, err := ParseEnergyCurve(v)
			if err != nil {
				return err
			}
			c.EnergyCurve = curve
			return nil
		},
		get: func(c *Config) string { return joinInts(c.EnergyCurve) },
	},
	intField(constants.SettingEnergyQuantumMinutes, func(c *Config) *int { return &c.EnergyQuantumMin }),
	{
		key: constants.SettingWeekdayEnergy,
		set: func(c *Config, v string) error {
			parts := splitList(v)
			if len(parts) != 7 {
				return fmt.Errorf("expected 7 multipliers, got %d", len(parts))
			}
			var out [7]float64
			for i, p := range parts {
				f, err := strconv.ParseFloat(p, 64)
				if err != nil {
					return fmt.Errorf("invalid multiplier %q: %w", p, err)
				}
				out[i] = f
			}
			c.WeekdayEnergy = out
			return nil
		},
		get: func(c *Config) string {
			parts := make([]string, len(c.WeekdayEnergy))
			for i, f := range c.WeekdayEnergy {
				parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
			}
			return strings.Join(parts, ",")
		},
	},
	boolField(constants.SettingIntelligentSessionLength, func(c *Config) *bool { return &c.IntelligentSessionLength }),
	boolField(constants.SettingIntelligentBreaks, func(c *Config) *bool { return &c.IntelligentBreaks }),
	boolField(constants.SettingFatigueBreaks, func(c *Config) *bool { return &c.FatigueBreaks }),
	floatField(constants.SettingFatigueBreakFactor, func(c *Config) *float64 { return &c.FatigueFactor }),
	boolField(constants.SettingIntelligentDayOrder, func(c *Config) *bool { return &c.IntelligentDayOrder }),
	boolField(constants.SettingIntelligentSlotSelection, func(c *Config) *bool { return &c.IntelligentSlotSelection }),
	floatField(constants.SettingEnergyDayOrderWeight, func(c *Config) *float64 { return &c.EnergyDayOrderWeight }),
	floatField(constants.SettingCategoryDayWeight, func(c *Config) *float64 { return &c.CategoryDayWeight }),
	intField(constants.SettingTransitionBufferMinutes, func(c *Config) *int { return &c.TransitionBufferMin }),
	boolField(constants.SettingIntelligentTransition, func(c *Config) *bool { return &c.IntelligentTransitionBuffer }),
	floatField(constants.SettingProductivityWeight, func(c *Config) *float64 { return &c.ProductivityWeight }),
	intField(constants.SettingProductivityHalfLifeDays, func(c *Config) *int { return &c.ProductivityHalfLifeDays }),
	floatField(constants.SettingCategoryProductivity, func(c *Config) *float64 { return &c.CategoryProductivityWeight }),
	intField(constants.SettingCategoryAdjacencyWindow, func(c *Config) *int { return &c.CategoryAdjacencyWindowMin }),
	intField(constants.SettingDeepWorkThreshold, func(c *Config) *int { return &c.DeepWorkThreshold }),
	optIntField(constants.SettingHighEnergyStartHour, func(c *Config) **int { return &c.HighEnergyStartHour }),
	optIntField(constants.SettingHighEnergyEndHour, func(c *Config) **int { return &c.HighEnergyEndHour }),
	optIntField(constants.SettingLowEnergyStartHour, func(c *Config) **int { return &c.LowEnergyStartHour }),
	optIntField(constants.SettingLowEnergyEndHour, func(c *Config) **int { return &c.LowEnergyEndHour }),
	floatField(constants.SettingDifficultyWeight, func(c *Config) *float64 { return &c.DifficultyWeight }),
	floatField(constants.SettingPriorityWeight, func(c *Config) *float64 { return &c.PriorityWeight }),
	floatField(constants.SettingUrgencyWeight, func(c *Config) *float64 { return &c.UrgencyWeight }),
	floatField(constants.SettingSpacedRepetitionFactor, func(c *Config) *float64 { return &c.Reserved.SpacedRepetitionFactor }),
	floatField(constants.SettingSessionCountWeight, func(c *Config) *float64 { return &c.Reserved.SessionCountWeight }),
	floatField(constants.SettingDifficultyLoadWeight, func(c *Config) *float64 { return &c.Reserved.DifficultyLoadWeight }),
	floatField(constants.SettingEnergyLoadWeight, func(c *Config) *float64 { return &c.Reserved.EnergyLoadWeight }),
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.key] = i
	}
	return idx
}()

func intField(key string, ptr func(*Config) *int) field {
	return field{
		key: key,
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return err
			}
			*ptr(c) = n
			return nil
		},
		get: func(c *Config) string { return strconv.Itoa(*ptr(c)) },
	}
}

func optIntField(key string, ptr func(*Config) **int) field {
	return field{
		key: key,
		set: func(c *Config, v string) error {
			v = strings.TrimSpace(v)
			if v == "" || strings.EqualFold(v, "none") {
				*ptr(c) = nil
				return nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			*ptr(c) = &n
			return nil
		},
		get: func(c *Config) string {
			if p := *ptr(c); p != nil {
				return strconv.Itoa(*p)
			}
			return ""
		},
	}
}

func floatField(key string, ptr func(*Config) *float64) field {
	return field{
		key: key,
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return err
			}
			*ptr(c) = f
			return nil
		},
		get: func(c *Config) string { return strconv.FormatFloat(*ptr(c), 'g', -1, 64) },
	}
}

func boolField(key string, ptr func(*Config) *bool) field {
	return field{
		key: key,
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return err
			}
			*ptr(c) = b
			return nil
		},
		get: func(c *Config) string { return strconv.FormatBool(*ptr(c)) },
	}
}

// ParseWorkDays parses a comma-separated list of weekday numbers (0=Sunday)
// or three-letter names.
func ParseWorkDays(s string) ([]time.Weekday, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("work days cannot be empty")
	}
	seen := make(map[time.Weekday]bool, 7)
	var days []time.Weekday
	for _, p := range parts {
		wd, err := parseWeekday(p)
		if err != nil {
			return nil, err
		}
		if seen[wd] {
			continue
		}
		seen[wd] = true
		days = append(days, wd)
	}
	return days, nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("invalid weekday %d: must be 0-6", n)
		}
		return time.Weekday(n), nil
	}
	if wd, ok := weekdayNames[strings.ToLower(s)]; ok {
		return wd, nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

// FormatWorkDays renders work days in the form ParseWorkDays accepts.
func FormatWorkDays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

// ParseEnergyCurve parses 24 comma-separated integers. An empty value or
// "none" clears the curve.
func ParseEnergyCurve(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return nil, nil
	}
	parts := splitList(s)
	if len(parts) != 24 {
		return nil, fmt.Errorf("energy curve needs 24 values, got %d", len(parts))
	}
	curve := make([]int, 24)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid energy value %q: %w", p, err)
		}
		curve[i] = n
	}
	return curve, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
