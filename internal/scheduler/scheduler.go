// Package scheduler carves a work item into focus sessions around the
// intervals already committed on a calendar.
//
// Placement is a single forward greedy pass: pick a day, propose a start,
// refine it toward better hours, then accept it or advance past whatever
// rejected it. Plan is a pure function of the clock, the configuration and
// the calendar snapshot; it performs no I/O and keeps no state between calls.
package scheduler

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/logger"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/utils"
)

type Scheduler struct {
	clock func() time.Time
	newID func() string
}

type Option func(*Scheduler)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithIDGenerator replaces the UUID generator used for new rows.
func WithIDGenerator(gen func() string) Option {
	return func(s *Scheduler) {
		s.newID = gen
	}
}

func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock: time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan schedules item against cal. category may be nil. The returned error
// wraps ErrInfeasible when the item cannot finish by its due date.
func (s *Scheduler) Plan(item models.WorkItem, cal Calendar, category *models.Category, cfg config.Config) (models.PlanResult, error) {
	if item.DurationMin <= 0 {
		return models.PlanResult{}, fmt.Errorf("duration must be positive, got %d", item.DurationMin)
	}
	if item.Priority == 0 {
		item.Priority = constants.DefaultPriority
	}

	loc, err := cfg.Location()
	if err != nil {
		return models.PlanResult{}, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	now := utils.CeilMinute(s.clock().In(loc))
	today := utils.DateOf(now)
	y, m, d := item.DueDate.Date()
	lastDay := time.Date(y, m, d, 0, 0, 0, 0, loc)

	w := importance(item.Difficulty, item.Priority, urgency(lastDay, today), cfg)
	sessionMin := sessionLength(w, cfg)
	if sessionMin <= 0 {
		return models.PlanResult{}, fmt.Errorf("session length must be positive, got %d", sessionMin)
	}
	short, long := breakLengths(item.Difficulty, cfg)
	curve := effectiveCurve(category, cfg)

	p := &planState{
		cfg:        cfg,
		item:       item,
		category:   category,
		cal:        cal,
		ledger:     newLedger(cal, loc, item),
		now:        now,
		today:      today,
		lastDay:    lastDay,
		deadline:   utils.AddDays(lastDay, 1),
		weight:     w,
		sessionMin: sessionMin,
		sessionLen: time.Duration(sessionMin) * time.Minute,
		needed:     int(math.Ceil(float64(item.DurationMin) / float64(sessionMin))),
		shortBreak: short,
		longBreak:  long,
		buffer:     transitionBuffer(item.Difficulty, cfg),
		curve:      curve,
		frontier:   today,
		visited:    make(map[int64]bool),
	}
	p.prefHour = p.preferredHour()
	if cfg.IntelligentSlotSelection {
		history := cal.History()
		p.scorer = slotScorer{
			curve:          curve,
			rates:          completionRates(history, now, cfg.ProductivityHalfLifeDays, ""),
			weight:         cfg.ProductivityWeight,
			categoryWeight: cfg.CategoryProductivityWeight,
		}
		if item.CategoryID != "" {
			p.scorer.categoryRates = completionRates(history, now, cfg.ProductivityHalfLifeDays, item.CategoryID)
		}
	}

	logger.Debug("planning work item",
		"title", item.Title,
		"weight", fmt.Sprintf("%.2f", w),
		"session_min", sessionMin,
		"sessions", p.needed,
	)

	deep := p.planDeepWork()
	if !deep {
		if err := p.place(); err != nil {
			logger.Debug("plan infeasible", "title", item.Title, "err", err)
			return models.PlanResult{}, err
		}
	}

	return s.buildResult(p, deep), nil
}

func (s *Scheduler) buildResult(p *planState, deep bool) models.PlanResult {
	intervals := p.ledger.sessions()
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})

	task := models.Task{
		ID:          s.newID(),
		Title:       p.item.Title,
		Description: p.item.Description,
		Kind:        models.TaskKindFlexible,
		DueDate:     p.lastDay.Format(constants.DateFormat),
		CategoryID:  p.item.CategoryID,
		Difficulty:  p.item.Difficulty,
		DurationMin: p.item.DurationMin,
		Priority:    p.item.Priority,
		CreatedAt:   p.now,
	}
	if n := len(intervals); n > 0 {
		first, last := intervals[0], intervals[n-1]
		task.StartDate = first.Start.Format(constants.DateFormat)
		task.StartTime = first.Start.Format(constants.TimeFormat)
		task.EndDate = last.End.Format(constants.DateFormat)
		task.EndTime = last.End.Format(constants.TimeFormat)
	}

	result := models.PlanResult{
		Task:             task,
		Sessions:         make([]models.FocusSession, len(intervals)),
		Subtasks:         make([]models.Subtask, len(intervals)),
		DeepWork:         deep,
		SessionLengthMin: p.sessionMin,
		ImportanceWeight: p.weight,
	}
	for i, iv := range intervals {
		result.Sessions[i] = models.FocusSession{
			ID:     s.newID(),
			TaskID: task.ID,
			Start:  iv.Start,
			End:    iv.End,
		}
		result.Subtasks[i] = models.Subtask{
			ID:     s.newID(),
			TaskID: task.ID,
			Title:  fmt.Sprintf(constants.SubtaskTitleFormat, i+1),
		}
	}
	return result
}
