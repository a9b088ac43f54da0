package scheduler

import (
	"math"
	"time"

	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/logger"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/utils"
)

// urgency is 5 when the due date has passed, otherwise max(1, 5-daysLeft).
func urgency(due, today time.Time) int {
	daysLeft := utils.DaysBetween(today, due)
	if daysLeft < 0 {
		return 5
	}
	return max(1, 5-daysLeft)
}

// importance blends difficulty, priority and urgency by the configured weights.
func importance(difficulty, priority, urg int, cfg config.Config) float64 {
	dW, pW, uW := cfg.DifficultyWeight, cfg.PriorityWeight, cfg.UrgencyWeight
	sum := dW + pW + uW
	if sum <= 0 {
		dW, pW, uW, sum = 1, 1, 1, 3
	}
	return (float64(difficulty)*dW + float64(priority)*pW + float64(urg)*uW) / sum
}

func clampInt(n, lo, hi int) int {
	if lo > 0 && n < lo {
		n = lo
	}
	if hi > 0 && hi >= lo && n > hi {
		n = hi
	}
	return n
}

func scaleMinutes(base int, factor float64) int {
	return int(math.Round(float64(base) * factor))
}

func difficultyScale(difficulty int) float64 {
	return 1 + (float64(difficulty)/5)/2
}

func sessionLength(w float64, cfg config.Config) int {
	if !cfg.IntelligentSessionLength {
		return cfg.SessionLengthMin
	}
	n := scaleMinutes(cfg.SessionLengthMin, 1+(w-3)/4)
	return clampInt(n, cfg.MinSessionLengthMin, cfg.MaxSessionLengthMin)
}

func breakLengths(difficulty int, cfg config.Config) (short, long int) {
	if !cfg.IntelligentBreaks {
		return cfg.ShortBreakMin, cfg.LongBreakMin
	}
	scale := difficultyScale(difficulty)
	short = clampInt(scaleMinutes(cfg.ShortBreakMin, scale), cfg.MinShortBreakMin, cfg.MaxShortBreakMin)
	long = clampInt(scaleMinutes(cfg.LongBreakMin, scale), cfg.MinLongBreakMin, cfg.MaxLongBreakMin)
	return short, long
}

func transitionBuffer(difficulty int, cfg config.Config) int {
	return cfg.TransitionBuffer(difficulty)
}

// effectiveCurve prefers the category curve over the configured one.
func effectiveCurve(category *models.Category, cfg config.Config) []int {
	if category.HasEnergyCurve() {
		return category.EnergyCurve
	}
	if cfg.HasEnergyCurve() {
		return cfg.EnergyCurve
	}
	return nil
}

// planState is the working state of one plan call.
type planState struct {
	cfg      config.Config
	item     models.WorkItem
	category *models.Category
	cal      Calendar
	ledger   *ledger

	now      time.Time
	today    time.Time
	lastDay  time.Time
	deadline time.Time

	weight     float64
	sessionMin int
	sessionLen time.Duration
	needed     int
	shortBreak int
	longBreak  int
	buffer     int
	curve      []int
	prefHour   int
	scorer     slotScorer

	day          time.Time
	frontier     time.Time
	visited      map[int64]bool
	cursor       time.Time
	placedToday  int
	breakCounter int
	quota        int
}

func (p *planState) bufferDur() time.Duration {
	return time.Duration(p.buffer) * time.Minute
}

func (p *planState) workStart(day time.Time) time.Time {
	return utils.AtHour(day, p.cfg.WorkStartHour, 0)
}

func (p *planState) workEnd(day time.Time) time.Time {
	return utils.AtHour(day, p.cfg.WorkEndHour, 0)
}

// categoryWindow returns the working hour range clamped by the category's
// preferred hours.
func (p *planState) categoryWindow() (lo, hi int) {
	lo, hi = p.cfg.WorkStartHour, p.cfg.WorkEndHour
	if p.category != nil {
		if s := p.category.PreferredStartHour; s != nil && *s > lo {
			lo = *s
		}
		if e := p.category.PreferredEndHour; e != nil && *e < hi {
			hi = *e
		}
	}
	if lo >= hi {
		return p.cfg.WorkStartHour, p.cfg.WorkEndHour
	}
	return lo, hi
}

// preferredHour picks the hour whose energy best matches the item's
// importance, or offsets from work start by round(5-w) without a curve.
func (p *planState) preferredHour() int {
	lo, hi := p.categoryWindow()
	if len(p.curve) == 24 {
		peak := 0
		for _, v := range p.curve {
			peak = max(peak, v)
		}
		target := p.weight / 5 * float64(peak)
		best, bestDist := lo, math.Inf(1)
		for h := lo; h < hi; h++ {
			d := float64(p.curve[h]) - target
			if d*d < bestDist {
				best, bestDist = h, d*d
			}
		}
		return best
	}

	h := p.cfg.WorkStartHour + max(0, int(math.Round(5-p.weight)))
	if h < lo {
		h = lo
	}
	if h >= hi {
		h = hi - 1
	}
	return h
}

// preferredStart places the preferred hour on day, pulled back so a session
// still fits before work end.
func (p *planState) preferredStart(day time.Time) time.Time {
	t := utils.AtHour(day, p.prefHour, 0)
	if latest := p.workEnd(day).Add(-p.sessionLen); t.After(latest) {
		t = latest
	}
	if ws := p.workStart(day); t.Before(ws) {
		t = ws
	}
	return t
}

// fits reports whether a session starting at start lies inside one working
// window of the current day and clears every buffer-expanded busy interval.
func (p *planState) fits(start time.Time, busy []models.Interval) bool {
	slot := models.Interval{Start: start, End: start.Add(p.sessionLen)}
	inside := false
	for _, w := range workWindows(p.day, p.cfg) {
		if !slot.Start.Before(w.Start) && !slot.End.After(w.End) {
			inside = true
			break
		}
	}
	if !inside {
		return false
	}
	buf := p.bufferDur()
	for _, b := range busy {
		if b.Expand(buf).Overlaps(slot) {
			return false
		}
	}
	return true
}

// adjacentSlot finds the earliest free slot within the adjacency window that
// starts right after, or ends right before, an event of the same category.
func (p *planState) adjacentSlot(cand time.Time) (time.Time, bool) {
	window := time.Duration(p.cfg.CategoryAdjacencyWindowMin) * time.Minute
	if p.item.CategoryID == "" || window <= 0 {
		return time.Time{}, false
	}
	limit := cand.Add(window)
	busy := p.ledger.busy()
	buf := p.bufferDur()

	var best time.Time
	for _, e := range p.ledger.categoryIntervals(p.item.CategoryID) {
		for _, s := range []time.Time{e.End.Add(buf), e.Start.Add(-buf).Add(-p.sessionLen)} {
			s = utils.CeilMinute(s)
			if s.Before(cand) || s.After(limit) || !p.ledger.sameDay(s, p.day) {
				continue
			}
			if !p.fits(s, busy) {
				continue
			}
			if best.IsZero() || s.Before(best) {
				best = s
			}
		}
	}
	return best, !best.IsZero()
}

// preferredBounds returns the category's preferred hours on the current day.
// Unset bounds are zero.
func (p *planState) preferredBounds() (start, end time.Time) {
	if p.category == nil {
		return start, end
	}
	if ps := p.category.PreferredStartHour; ps != nil {
		start = utils.AtHour(p.day, *ps, 0)
	}
	if pe := p.category.PreferredEndHour; pe != nil {
		end = utils.AtHour(p.day, *pe, 0)
	}
	return start, end
}

// bestSlot scans the day from the given instant for the free slot inside
// the category window with the highest summed hour score. Ties go to the
// earliest slot.
func (p *planState) bestSlot(from time.Time) (time.Time, bool) {
	quantum := time.Duration(p.cfg.EnergyQuantumMin) * time.Minute
	if quantum <= 0 {
		quantum = 15 * time.Minute
	}
	lo, hi := p.preferredBounds()

	var best time.Time
	bestScore := math.Inf(-1)
	for _, block := range freeBlocks(p.day, p.ledger.busy(), p.buffer, p.cfg, from) {
		for s := block.Start; !s.Add(p.sessionLen).After(block.End); s = s.Add(quantum) {
			if (!lo.IsZero() && s.Before(lo)) || (!hi.IsZero() && s.Add(p.sessionLen).After(hi)) {
				continue
			}
			score := p.scorer.slotScore(models.Interval{Start: s, End: s.Add(p.sessionLen)}, quantum)
			if score > bestScore {
				best, bestScore = s, score
			}
		}
	}
	return best, !best.IsZero()
}

// refine runs the candidate through the preference pipeline. Each step only
// moves the candidate forward, except slot selection for the first session
// of a day, which rescans from the cursor. skipDay is set when the category
// window cannot hold the session on the current day.
func (p *planState) refine(cand time.Time) (time.Time, bool) {
	day := p.day

	if p.item.Difficulty >= 4 && p.cfg.LowEnergyStartHour != nil && p.cfg.LowEnergyEndHour != nil {
		low := models.Interval{
			Start: utils.AtHour(day, *p.cfg.LowEnergyStartHour, 0),
			End:   utils.AtHour(day, *p.cfg.LowEnergyEndHour, 0),
		}
		slot := models.Interval{Start: cand, End: cand.Add(p.sessionLen)}
		if low.Start.Before(low.End) && slot.Overlaps(low) {
			cand = low.End
		}
	}

	if p.weight >= 4 && p.cfg.HighEnergyStartHour != nil && p.cfg.HighEnergyEndHour != nil {
		hs := utils.AtHour(day, *p.cfg.HighEnergyStartHour, 0)
		he := utils.AtHour(day, *p.cfg.HighEnergyEndHour, 0)
		if cand.Before(hs) && !hs.Add(p.sessionLen).After(he) {
			cand = hs
		}
	}

	if s, ok := p.adjacentSlot(cand); ok {
		cand = s
	}

	if p.cfg.IntelligentSlotSelection {
		from := cand
		if p.placedToday == 0 {
			from = p.cursor
		}
		if s, ok := p.bestSlot(from); ok {
			cand = s
		}
	}

	lo, hi := p.preferredBounds()
	if !lo.IsZero() && cand.Before(lo) {
		cand = lo
	}
	if !hi.IsZero() && cand.Add(p.sessionLen).After(hi) {
		return cand, true
	}
	return cand, false
}

// snap moves cand to the next valid working instant of the current day.
// It reports false when no such instant is left.
func (p *planState) snap(cand time.Time) (time.Time, bool) {
	cand = utils.CeilMinute(cand)
	if ws := p.workStart(p.day); cand.Before(ws) {
		cand = ws
	}
	if lunch, ok := lunchInterval(p.day, p.cfg); ok && !cand.Before(lunch.Start) && cand.Before(lunch.End) {
		cand = lunch.End
	}
	if !p.ledger.sameDay(cand, p.day) || !cand.Before(p.workEnd(p.day)) {
		return cand, false
	}
	return cand, true
}

func (p *planState) advanceTo(t time.Time) {
	if t.After(p.cursor) {
		p.cursor = t
	}
}

func (p *planState) enterDay(day time.Time) {
	p.day = day
	p.visited[day.Unix()] = true
	if next := utils.AddDays(day, 1); next.After(p.frontier) {
		p.frontier = next
	}
	p.cursor = p.workStart(day)
	if day.Equal(p.today) && p.now.After(p.cursor) {
		p.cursor = p.now
	}
	p.placedToday = 0
	p.breakCounter = 0
	p.quota = p.computeQuota()
	logger.Debug("entering day", "day", day.Format(constants.DateFormat), "quota", p.quota)
}

func (p *planState) nextDay() error {
	day, err := p.selectDay()
	if err != nil {
		return err
	}
	p.enterDay(day)
	return nil
}

func (p *planState) maxPerDay() int {
	return max(1, p.cfg.MaxSessionsPerDay)
}

func (p *planState) isLastDay() bool {
	if p.intelligentDayOrder() {
		return len(p.remainingDays()) == 0
	}
	_, err := NextWorkDay(p.frontier, p.lastDay, p.cfg.WorkDays)
	return err != nil
}

// computeQuota spreads the remaining sessions over the remaining work days,
// weighted by importance. When everything left fits today and the due date
// is not today, the quota is relaxed to the daily maximum.
func (p *planState) computeQuota() int {
	remaining := p.needed - len(p.ledger.accepted)
	daysLeft := 1 + len(p.remainingDays())

	q := int(math.Ceil(float64(remaining) / float64(daysLeft) * (1 + (p.weight-3)/2)))
	q = min(p.maxPerDay(), max(1, q))

	if !p.lastDay.Before(utils.AddDays(p.today, 1)) && remaining > 0 {
		need := remaining*p.sessionMin + (remaining-1)*p.shortBreak
		free := sumMinutes(freeBlocks(p.day, p.ledger.busy(), p.buffer, p.cfg, p.cursor))
		if need <= free {
			q = p.maxPerDay()
		}
	}
	return q
}

// conflict returns the busy interval reaching furthest that overlaps slot
// once expanded by the buffer.
func (p *planState) conflict(slot models.Interval) (models.Interval, bool) {
	buf := p.bufferDur()
	var hit models.Interval
	found := false
	for _, b := range p.ledger.busy() {
		if b.Expand(buf).Overlaps(slot) && (!found || b.End.After(hit.End)) {
			hit = b
			found = true
		}
	}
	return hit, found
}

func (p *planState) capExceeded() bool {
	d := p.item.Difficulty
	if c := p.cfg.MaxDailySessions; c > 0 && p.ledger.sessionCount(p.day)+1 > c {
		return true
	}
	if c := p.cfg.MaxDailyDifficulty; c > 0 && p.ledger.difficultyLoad(p.day)+d > c {
		return true
	}
	if c := p.cfg.MaxDailyEnergy; c > 0 && p.ledger.energyLoad(p.day)+d*p.sessionMin > c {
		return true
	}
	return false
}

// nextBreak returns the break that follows the session about to be accepted.
func (p *planState) nextBreak() int {
	n := max(1, p.cfg.SessionsBeforeLongBreak)
	brk := p.shortBreak
	if (p.breakCounter+1)%n == 0 {
		brk = p.longBreak
	}
	if p.cfg.FatigueBreaks {
		brk = scaleMinutes(brk, 1+float64(p.placedToday)*p.cfg.FatigueFactor)
	}
	return brk
}

func (p *planState) accept(slot models.Interval) {
	brk := p.nextBreak()
	p.ledger.accept(slot, time.Duration(brk)*time.Minute)
	p.cursor = slot.End.Add(time.Duration(brk+p.buffer) * time.Minute)
	p.placedToday++
	p.breakCounter = (p.breakCounter + 1) % max(1, p.cfg.SessionsBeforeLongBreak)
	logger.Debug("placed session",
		"start", slot.Start.Format(constants.DateTimeFormat),
		"end", slot.End.Format(constants.TimeFormat),
		"break", brk,
	)
}

// place runs the select-day / place-candidate / accept-or-advance loop until
// every session is placed.
func (p *planState) place() error {
	if err := p.nextDay(); err != nil {
		return err
	}

	for iter := 0; len(p.ledger.accepted) < p.needed; iter++ {
		if iter >= constants.MaxPlacementIterations {
			return infeasible(p.day, "no valid slot found after %d attempts", iter)
		}

		cand := p.cursor
		if p.placedToday == 0 {
			if pref := p.preferredStart(p.day); pref.After(cand) {
				cand = pref
			}
		}

		cand, skipDay := p.refine(cand)
		if !skipDay {
			var ok bool
			cand, ok = p.snap(cand)
			skipDay = !ok
		}
		if skipDay {
			if err := p.nextDay(); err != nil {
				return err
			}
			continue
		}

		slot := models.Interval{Start: cand, End: cand.Add(p.sessionLen)}

		if lunch, ok := lunchInterval(p.day, p.cfg); ok && slot.Overlaps(lunch) {
			p.advanceTo(lunch.End)
			continue
		}
		if slot.End.After(p.deadline) {
			return infeasible(p.day, "session would end after %s", p.lastDay.Format(constants.DateFormat))
		}
		if slot.End.After(p.workEnd(p.day)) {
			if err := p.nextDay(); err != nil {
				return err
			}
			continue
		}
		if hit, ok := p.conflict(slot); ok {
			p.advanceTo(hit.End.Add(p.bufferDur()))
			continue
		}
		if p.capExceeded() {
			logger.Debug("daily cap reached", "day", p.day.Format(constants.DateFormat))
			if err := p.nextDay(); err != nil {
				return err
			}
			continue
		}
		if p.placedToday >= p.quota {
			if p.isLastDay() && p.placedToday < p.maxPerDay() {
				p.quota = p.maxPerDay()
			} else {
				if err := p.nextDay(); err != nil {
					return err
				}
				continue
			}
		}

		p.accept(slot)
	}
	return nil
}
