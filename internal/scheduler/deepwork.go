package scheduler

import (
	"time"

	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/logger"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/utils"
)

func (p *planState) deepWorkEligible() bool {
	return p.cfg.DeepWorkThreshold > 0 && p.item.Difficulty >= p.cfg.DeepWorkThreshold
}

// planDeepWork packs every session into the largest free block of the first
// day that can hold them back to back, separated by short breaks only. Caps,
// quotas, long breaks and fatigue scaling do not apply. It reports false
// when no day qualifies.
func (p *planState) planDeepWork() bool {
	if !p.deepWorkEligible() {
		return false
	}
	start, err := p.selectDay()
	if err != nil {
		return false
	}

	gap := time.Duration(p.shortBreak+p.buffer) * time.Minute
	required := time.Duration(p.needed)*p.sessionLen + time.Duration(p.needed-1)*gap
	busy := p.ledger.busy()

	for _, day := range workDaysBetween(start, p.lastDay, p.cfg.WorkDays) {
		var from time.Time
		if day.Equal(p.today) {
			from = p.now
		}
		block, ok := largestBlock(freeBlocks(day, busy, p.buffer, p.cfg, from))
		if !ok || block.End.Sub(block.Start) < required {
			continue
		}

		begin := block.Start
		if pref := utils.AtHour(day, p.prefHour, 0); pref.After(begin) {
			begin = pref
		}
		if begin.Add(required).After(block.End) {
			begin = block.End.Add(-required)
		}

		p.day = day
		for i := 0; i < p.needed; i++ {
			s := begin.Add(time.Duration(i) * (p.sessionLen + gap))
			p.ledger.accept(models.Interval{Start: s, End: s.Add(p.sessionLen)}, time.Duration(p.shortBreak)*time.Minute)
		}
		logger.Debug("deep work block",
			"day", day.Format(constants.DateFormat),
			"start", begin.Format(constants.TimeFormat),
			"sessions", p.needed,
		)
		return true
	}
	return false
}
