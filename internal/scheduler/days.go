package scheduler

import (
	"sort"
	"time"

	"github.com/julianstephens/focusplan/internal/utils"
)

func containsWeekday(days []time.Weekday, wd time.Weekday) bool {
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}

// NextWorkDay returns the first date in [from, lastWorkDay] whose weekday is
// a work day.
func NextWorkDay(from, lastWorkDay time.Time, workDays []time.Weekday) (time.Time, error) {
	last := utils.DateOf(lastWorkDay)
	for d := utils.DateOf(from); !d.After(last); d = utils.AddDays(d, 1) {
		if containsWeekday(workDays, d.Weekday()) {
			return d, nil
		}
	}
	return time.Time{}, infeasible(utils.DateOf(from), "no work day available before due date")
}

// workDaysBetween lists the work days in [from, lastWorkDay].
func workDaysBetween(from, lastWorkDay time.Time, workDays []time.Weekday) []time.Time {
	var days []time.Time
	last := utils.DateOf(lastWorkDay)
	for d := utils.DateOf(from); !d.After(last); d = utils.AddDays(d, 1) {
		if containsWeekday(workDays, d.Weekday()) {
			days = append(days, d)
		}
	}
	return days
}

// intelligentDayOrder reports whether candidate days are ranked rather than
// taken in calendar order.
func (p *planState) intelligentDayOrder() bool {
	return p.cfg.IntelligentDayOrder || p.cfg.EnergyDayOrderWeight > 0 || p.cfg.CategoryDayWeight > 0
}

// remainingDays lists the work days up to the due date that no placement
// pass has entered yet.
func (p *planState) remainingDays() []time.Time {
	var out []time.Time
	for _, d := range workDaysBetween(p.today, p.lastDay, p.cfg.WorkDays) {
		if !p.visited[d.Unix()] {
			out = append(out, d)
		}
	}
	return out
}

// selectDay picks the day to place the next sessions on. In calendar order
// it is the next work day after the last day entered; with intelligent day
// order every day not yet entered is ranked and the best one wins.
func (p *planState) selectDay() (time.Time, error) {
	if !p.intelligentDayOrder() {
		return NextWorkDay(p.frontier, p.lastDay, p.cfg.WorkDays)
	}

	candidates := p.remainingDays()
	if len(candidates) == 0 {
		return time.Time{}, infeasible(p.frontier, "no work day available before due date")
	}

	useCategory := false
	if p.item.CategoryID != "" && p.cfg.CategoryDayWeight != 0 {
		_, useCategory = p.cal.EarliestCategoryDay(utils.AddDays(p.lastDay, 1), p.item.CategoryID)
	}

	busy := p.ledger.busy()
	scores := make(map[int64]float64, len(candidates))
	for _, d := range candidates {
		var from time.Time
		if d.Equal(p.today) {
			from = p.now
		}
		score := float64(sumMinutes(freeBlocks(d, busy, p.buffer, p.cfg, from)))
		if p.cfg.EnergyDayOrderWeight != 0 {
			score += p.cfg.EnergyDayOrderWeight * availableEnergy(d, busy, p.curve, p.buffer, p.cfg, from)
		}
		if useCategory {
			score += p.cfg.CategoryDayWeight * float64(p.ledger.categoryMinutes(d, p.item.CategoryID))
		}
		scores[d.Unix()] = score
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i].Unix()] > scores[candidates[j].Unix()]
	})
	return candidates[0], nil
}
