package plans

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/planner"
	"github.com/julianstephens/focusplan/internal/tui"
)

type PlanCmd struct {
	Title       string `arg:"" optional:"" help:"Task title."`
	Description string `short:"D" help:"Task description."`
	Difficulty  int    `short:"d" help:"Estimated difficulty (1-5)." default:"3"`
	Duration    int    `short:"m" help:"Estimated duration in minutes."`
	Due         string `short:"u" help:"Due date (YYYY-MM-DD)."`
	Priority    int    `short:"p" help:"Priority (1-5, lower is more important)." default:"3"`
	Category    string `short:"c" help:"Category ID or name."`
	DryRun      bool   `help:"Show the plan without saving it."`
	Interactive bool   `short:"i" help:"Fill in the task with a form."`

	HighEnergyStart      *int     `help:"Start hour of the high-energy window." group:"Overrides"`
	HighEnergyEnd        *int     `help:"End hour of the high-energy window." group:"Overrides"`
	FatigueFactor        *float64 `help:"Break growth per session already worked today." group:"Overrides"`
	EnergyCurve          []int    `help:"24 comma-separated hourly energy values." sep:"," group:"Overrides"`
	EnergyDayWeight      *float64 `help:"Weight of day energy when ordering days." group:"Overrides"`
	CategoryDayWeight    *float64 `help:"Weight of same-category load when ordering days." group:"Overrides"`
	TransitionBuffer     *int     `help:"Minutes kept free around busy intervals." group:"Overrides"`
	IntelligentBuffer    *bool    `help:"Scale the transition buffer by difficulty." group:"Overrides"`
	ProductivityWeight   *float64 `help:"Weight of completed-session history." group:"Overrides"`
	ProductivityHalfLife *int     `help:"Half-life in days of productivity history." group:"Overrides"`
	CategoryProductivity *float64 `help:"Weight of same-category productivity history." group:"Overrides"`
}

func (c *PlanCmd) overrides() *config.Overrides {
	return &config.Overrides{
		HighEnergyStartHour:         c.HighEnergyStart,
		HighEnergyEndHour:           c.HighEnergyEnd,
		FatigueFactor:               c.FatigueFactor,
		EnergyCurve:                 c.EnergyCurve,
		EnergyDayOrderWeight:        c.EnergyDayWeight,
		CategoryDayWeight:           c.CategoryDayWeight,
		TransitionBufferMin:         c.TransitionBuffer,
		IntelligentTransitionBuffer: c.IntelligentBuffer,
		ProductivityWeight:          c.ProductivityWeight,
		ProductivityHalfLifeDays:    c.ProductivityHalfLife,
		CategoryProductivityWeight:  c.CategoryProductivity,
	}
}

// workItem builds the item from flags.
func (c *PlanCmd) workItem(ctx *cli.Context) (models.WorkItem, error) {
	if strings.TrimSpace(c.Title) == "" {
		return models.WorkItem{}, errors.New("a title is required (or use --interactive)")
	}
	if c.Due == "" {
		return models.WorkItem{}, errors.New("--due is required")
	}
	due, err := time.Parse(constants.DateFormat, c.Due)
	if err != nil {
		return models.WorkItem{}, fmt.Errorf("invalid due date %q (expected YYYY-MM-DD)", c.Due)
	}
	cat, err := ctx.ResolveCategory(c.Category)
	if err != nil {
		return models.WorkItem{}, err
	}
	return models.WorkItem{
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Difficulty:  c.Difficulty,
		Priority:    c.Priority,
		DurationMin: c.Duration,
		DueDate:     due,
		CategoryID:  cat.ID,
	}, nil
}

func (c *PlanCmd) interactiveItem(ctx *cli.Context) (models.WorkItem, error) {
	categories, err := ctx.Store.GetAllCategories()
	if err != nil {
		return models.WorkItem{}, err
	}
	fm := &tui.PlanFormModel{
		Title:       c.Title,
		Description: c.Description,
		Difficulty:  fmt.Sprint(c.Difficulty),
		Priority:    fmt.Sprint(c.Priority),
		Due:         c.Due,
	}
	if c.Duration > 0 {
		fm.Duration = fmt.Sprint(c.Duration)
	}
	if c.Category != "" {
		if cat, err := ctx.ResolveCategory(c.Category); err == nil {
			fm.CategoryID = cat.ID
		}
	}
	return tui.RunPlanForm(fm, categories)
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	var (
		item models.WorkItem
		err  error
	)
	if c.Interactive {
		item, err = c.interactiveItem(ctx)
	} else {
		item, err = c.workItem(ctx)
	}
	if err != nil {
		return err
	}

	result, err := ctx.Planner().PlanTask(context.Background(), planner.Request{
		Item:      item,
		Overrides: c.overrides(),
		DryRun:    c.DryRun,
	})
	if err != nil {
		return err
	}

	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	PrintPlan(result, loc)
	if c.DryRun {
		fmt.Println("\nDry run: nothing was saved.")
	} else {
		fmt.Printf("\nSaved task %s\n", result.Task.ID)
	}
	return nil
}

// PrintPlan writes the sessions of a plan grouped by day.
func PrintPlan(result models.PlanResult, loc *time.Location) {
	mode := ""
	if result.DeepWork {
		mode = ", deep work"
	}
	fmt.Printf("Planned %q: %d session(s) of %d min%s, due %s\n",
		result.Task.Title, len(result.Sessions), result.SessionLengthMin, mode, result.Task.DueDate)

	lastDay := ""
	for i, s := range result.Sessions {
		start, end := s.Start.In(loc), s.End.In(loc)
		day := start.Format("Mon " + constants.DateFormat)
		if day != lastDay {
			fmt.Printf("\n  %s\n", day)
			lastDay = day
		}
		title := fmt.Sprintf(constants.SubtaskTitleFormat, i+1)
		if i < len(result.Subtasks) {
			title = result.Subtasks[i].Title
		}
		fmt.Printf("    %s-%s  %s\n", start.Format(constants.TimeFormat), end.Format(constants.TimeFormat), title)
	}
}
