// Package planner runs one scheduling request end to end: resolve the
// configuration, snapshot the calendar, place the sessions and store them.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/julianstephens/focusplan/internal/calendar"
	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/logger"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/scheduler"
	"github.com/julianstephens/focusplan/internal/storage"
	"github.com/julianstephens/focusplan/internal/validation"
)

// ErrConflict is returned when a produced plan fails validation against
// the calendar it was planned on.
var ErrConflict = errors.New("plan conflicts with the calendar")

// Request is one plan call.
type Request struct {
	Item      models.WorkItem
	Overrides *config.Overrides
	// DryRun returns the plan without storing it.
	DryRun bool
}

type Service struct {
	store      storage.Provider
	scheduler  *scheduler.Scheduler
	lookup     config.LookupFunc
	beforeSave func() error
	// sem serializes snapshot, plan and save so concurrent callers never
	// plan against a calendar that is about to change.
	sem *semaphore.Weighted
}

type Option func(*Service)

// WithLookup sets the environment layer, normally os.LookupEnv.
func WithLookup(lookup config.LookupFunc) Option {
	return func(s *Service) {
		s.lookup = lookup
	}
}

// WithBeforeSave runs hook before a plan is written. A hook error aborts the save.
func WithBeforeSave(hook func() error) Option {
	return func(s *Service) {
		s.beforeSave = hook
	}
}

func New(store storage.Provider, sched *scheduler.Scheduler, opts ...Option) *Service {
	s := &Service{
		store:     store,
		scheduler: sched,
		sem:       semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config resolves defaults, stored settings, environment and overrides,
// and validates the result.
func (s *Service) Config(ov *config.Overrides) (config.Config, error) {
	stored, err := s.store.GetSettings()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load settings: %w", err)
	}
	cfg := config.Resolve(stored, s.lookup, ov)
	if err := validation.ValidateConfig(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// PlanTask schedules req.Item and, unless DryRun is set, stores the task
// with its sessions and subtasks.
func (s *Service) PlanTask(ctx context.Context, req Request) (models.PlanResult, error) {
	if err := validation.ValidateWorkItem(req.Item); err != nil {
		return models.PlanResult{}, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return models.PlanResult{}, err
	}
	defer s.sem.Release(1)

	started := time.Now()
	cfg, err := s.Config(req.Overrides)
	if err != nil {
		return models.PlanResult{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return models.PlanResult{}, fmt.Errorf("%w: invalid timezone %q", validation.ErrInvalid, cfg.Timezone)
	}

	var category *models.Category
	if req.Item.CategoryID != "" {
		c, err := s.store.GetCategory(req.Item.CategoryID)
		if err != nil {
			return models.PlanResult{}, err
		}
		category = &c
	}

	snap, err := calendar.Collect(s.store, loc)
	if err != nil {
		return models.PlanResult{}, err
	}

	result, err := s.scheduler.Plan(req.Item, snap, category, cfg)
	if err != nil {
		return models.PlanResult{}, err
	}

	if vr := validation.ValidatePlan(result, snap.BusyIntervals(), cfg); vr.HasConflicts() {
		logger.Error("plan failed validation", "title", req.Item.Title, "conflicts", len(vr.Conflicts))
		return models.PlanResult{}, fmt.Errorf("%w:\n%s", ErrConflict, vr.FormatReport())
	}

	if err := ctx.Err(); err != nil {
		return models.PlanResult{}, err
	}
	if !req.DryRun {
		if s.beforeSave != nil {
			if err := s.beforeSave(); err != nil {
				return models.PlanResult{}, fmt.Errorf("failed to prepare save: %w", err)
			}
		}
		if err := s.store.SavePlan(result); err != nil {
			return models.PlanResult{}, fmt.Errorf("failed to save plan: %w", err)
		}
	}

	logger.Info("task planned",
		"task", result.Task.ID,
		"sessions", len(result.Sessions),
		"deep_work", result.DeepWork,
		"dry_run", req.DryRun,
		"duration", time.Since(started).String(),
	)
	return result, nil
}
