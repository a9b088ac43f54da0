package scheduler

import (
	"sort"
	"time"

	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/utils"
)

// workWindows returns the working sub-windows of day: work start to lunch
// and lunch to work end. A lunch outside working hours leaves one window.
func workWindows(day time.Time, cfg config.Config) []models.Interval {
	start := utils.AtHour(day, cfg.WorkStartHour, 0)
	end := utils.AtHour(day, cfg.WorkEndHour, 0)
	if !start.Before(end) {
		return nil
	}

	lunchStart := utils.AtHour(day, 0, cfg.LunchStartMinute())
	lunchEnd := utils.AtHour(day, 0, cfg.LunchEndMinute())
	if cfg.LunchDurationMin <= 0 || !lunchStart.Before(end) || !lunchEnd.After(start) {
		return []models.Interval{{Start: start, End: end}}
	}

	var windows []models.Interval
	if lunchStart.After(start) {
		windows = append(windows, models.Interval{Start: start, End: lunchStart})
	}
	if lunchEnd.Before(end) {
		windows = append(windows, models.Interval{Start: lunchEnd, End: end})
	}
	return windows
}

func lunchInterval(day time.Time, cfg config.Config) (models.Interval, bool) {
	if cfg.LunchDurationMin <= 0 {
		return models.Interval{}, false
	}
	return models.Interval{
		Start: utils.AtHour(day, 0, cfg.LunchStartMinute()),
		End:   utils.AtHour(day, 0, cfg.LunchEndMinute()),
	}, true
}

// mergeBusy expands every busy interval by buffer, keeps those touching
// window and merges overlaps. The result is sorted by start.
func mergeBusy(busy []models.Interval, buffer time.Duration, window models.Interval) []models.Interval {
	var expanded []models.Interval
	for _, b := range busy {
		e := b.Expand(buffer)
		if e.Overlaps(window) {
			expanded = append(expanded, e)
		}
	}
	sort.Slice(expanded, func(i, j int) bool {
		return expanded[i].Start.Before(expanded[j].Start)
	})

	var merged []models.Interval
	for _, e := range expanded {
		if n := len(merged); n > 0 && !e.Start.After(merged[n-1].End) {
			if e.End.After(merged[n-1].End) {
				merged[n-1].End = e.End
			}
			continue
		}
		merged = append(merged, e)
	}
	return merged
}

// freeBlocks is FreeBlocks restricted to instants at or after from.
func freeBlocks(day time.Time, busy []models.Interval, bufferMin int, cfg config.Config, from time.Time) []models.Interval {
	buffer := time.Duration(bufferMin) * time.Minute
	var blocks []models.Interval
	for _, w := range workWindows(day, cfg) {
		if !from.IsZero() && from.After(w.Start) {
			w.Start = utils.CeilMinute(from)
		}
		if !w.Start.Before(w.End) {
			continue
		}

		current := w.Start
		for _, b := range mergeBusy(busy, buffer, w) {
			if current.Before(b.Start) {
				blocks = append(blocks, models.Interval{Start: current, End: b.Start})
			}
			if b.End.After(current) {
				current = b.End
			}
		}
		if current.Before(w.End) {
			blocks = append(blocks, models.Interval{Start: current, End: w.End})
		}
	}
	return blocks
}

// FreeBlocks returns the complement of the buffer-expanded busy intervals
// inside the working windows of day.
func FreeBlocks(day time.Time, busy []models.Interval, bufferMin int, cfg config.Config) []models.Interval {
	return freeBlocks(day, busy, bufferMin, cfg, time.Time{})
}

func sumMinutes(blocks []models.Interval) int {
	total := 0
	for _, b := range blocks {
		total += b.Minutes()
	}
	return total
}

// FreeMinutes returns the working minutes of day not covered by lunch or by
// a buffer-expanded busy interval.
func FreeMinutes(day time.Time, busy []models.Interval, bufferMin int, cfg config.Config) int {
	return sumMinutes(FreeBlocks(day, busy, bufferMin, cfg))
}

func availableEnergy(day time.Time, busy []models.Interval, curve []int, bufferMin int, cfg config.Config, from time.Time) float64 {
	if len(curve) != 24 {
		return 0
	}
	quantum := time.Duration(cfg.EnergyQuantumMin) * time.Minute
	if quantum <= 0 {
		quantum = 15 * time.Minute
	}

	buffer := time.Duration(bufferMin) * time.Minute
	total := 0.0
	for _, w := range workWindows(day, cfg) {
		merged := mergeBusy(busy, buffer, w)
		for t := w.Start; !t.Add(quantum).After(w.End); t = t.Add(quantum) {
			if !from.IsZero() && t.Before(from) {
				continue
			}
			q := models.Interval{Start: t, End: t.Add(quantum)}
			if overlapsAny(q, merged) {
				continue
			}
			total += float64(curve[t.Hour()])
		}
	}
	return total * cfg.WeekdayMultiplier(day.Weekday())
}

// AvailableEnergy sums curve[hour] over every free quantum of day and scales
// the total by the weekday multiplier. A curve without 24 entries yields 0.
func AvailableEnergy(day time.Time, busy []models.Interval, curve []int, bufferMin int, cfg config.Config) float64 {
	return availableEnergy(day, busy, curve, bufferMin, cfg, time.Time{})
}

func overlapsAny(i models.Interval, busy []models.Interval) bool {
	for _, b := range busy {
		if i.Overlaps(b) {
			return true
		}
	}
	return false
}

// largestBlock returns the longest block, earliest first on ties.
func largestBlock(blocks []models.Interval) (models.Interval, bool) {
	var best models.Interval
	found := false
	for _, b := range blocks {
		if !found || b.End.Sub(b.Start) > best.End.Sub(best.Start) {
			best = b
			found = true
		}
	}
	return best, found
}
