package tasks

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/utils"
	"github.com/julianstephens/focusplan/internal/validation"
)

// TaskAddCmd records a fixed task that blocks a time range.
type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Start       string `short:"s" required:"" help:"Start time (YYYY-MM-DD HH:MM or RFC3339)."`
	End         string `short:"e" required:"" help:"End time (YYYY-MM-DD HH:MM or RFC3339)."`
	Description string `short:"D" help:"Task description."`
	Category    string `short:"c" help:"Category ID or name."`
	Priority    int    `short:"p" help:"Priority (1-5)." default:"3"`
	Difficulty  int    `short:"d" help:"Difficulty (1-5)." default:"3"`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	start, err := utils.ParseDateTimeInLocation(c.Start, loc)
	if err != nil {
		return fmt.Errorf("%w: %v", validation.ErrInvalid, err)
	}
	end, err := utils.ParseDateTimeInLocation(c.End, loc)
	if err != nil {
		return fmt.Errorf("%w: %v", validation.ErrInvalid, err)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end must be after start", validation.ErrInvalid)
	}
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", validation.ErrInvalid)
	}
	if c.Priority < 1 || c.Priority > 5 || c.Difficulty < 1 || c.Difficulty > 5 {
		return fmt.Errorf("%w: priority and difficulty must be between 1 and 5", validation.ErrInvalid)
	}
	cat, err := ctx.ResolveCategory(c.Category)
	if err != nil {
		return err
	}

	task := fixedTask(title, start, end)
	task.ID = uuid.NewString()
	task.Description = c.Description
	task.CategoryID = cat.ID
	task.Priority = c.Priority
	task.Difficulty = c.Difficulty
	task.CreatedAt = time.Now().UTC()

	if err := ctx.Store.AddTask(task); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	fmt.Printf("✓ Added fixed task: %s (%s %s-%s)\n", task.Title, task.StartDate, task.StartTime, task.EndTime)
	fmt.Printf("  ID: %s\n", task.ID)
	ctx.WarnConflicts()
	return nil
}

// fixedTask fills the range fields from start and end, in their location.
func fixedTask(title string, start, end time.Time) models.Task {
	return models.Task{
		Title:       title,
		Kind:        models.TaskKindFixed,
		DueDate:     end.Format(constants.DateFormat),
		StartDate:   start.Format(constants.DateFormat),
		StartTime:   start.Format(constants.TimeFormat),
		EndDate:     end.Format(constants.DateFormat),
		EndTime:     end.Format(constants.TimeFormat),
		FixedStart:  &start,
		FixedEnd:    &end,
		DurationMin: int(end.Sub(start).Minutes()),
	}
}

type TaskListCmd struct {
	Kind string `help:"Only list tasks of this kind (flexible or fixed)."`
	Done bool   `help:"Include completed tasks."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	tasks, err := ctx.Store.GetAllTasks()
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}

	var shown []models.Task
	for _, t := range tasks {
		if c.Kind != "" && string(t.Kind) != c.Kind {
			continue
		}
		if !c.Done && t.Kind == models.TaskKindFlexible && t.CompletionPercent >= 100 {
			continue
		}
		shown = append(shown, t)
	}
	sort.SliceStable(shown, func(i, j int) bool {
		if shown[i].DueDate != shown[j].DueDate {
			return shown[i].DueDate < shown[j].DueDate
		}
		return shown[i].Priority < shown[j].Priority
	})

	if len(shown) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}
	fmt.Println("Tasks:")
	for _, t := range shown {
		fmt.Printf("  %s\n", summary(t))
		fmt.Printf("      ID: %s\n", t.ID)
	}
	return nil
}

func summary(t models.Task) string {
	if t.Kind == models.TaskKindFixed {
		return fmt.Sprintf("[fixed] %s  %s %s-%s", t.Title, t.StartDate, t.StartTime, t.EndTime)
	}
	return fmt.Sprintf("%s  due %s  p%d d%d  %d%%", t.Title, t.DueDate, t.Priority, t.Difficulty, t.CompletionPercent)
}

type TaskShowCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskShowCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}
	loc, err := ctx.Location()
	if err != nil {
		return err
	}

	fmt.Println(summary(task))
	if task.Description != "" {
		fmt.Printf("  %s\n", task.Description)
	}
	if task.Kind == models.TaskKindFixed {
		return nil
	}

	sessions, err := ctx.Store.GetFocusSessions(task.ID)
	if err != nil {
		return fmt.Errorf("failed to get focus sessions: %w", err)
	}
	subtasks, err := ctx.Store.GetSubtasks(task.ID)
	if err != nil {
		return fmt.Errorf("failed to get subtasks: %w", err)
	}

	fmt.Println("\nFocus sessions:")
	for _, s := range sessions {
		fmt.Printf("  %s %s %s-%s  %s\n", check(s.Completed),
			s.Start.In(loc).Format("Mon "+constants.DateFormat),
			s.Start.In(loc).Format(constants.TimeFormat), s.End.In(loc).Format(constants.TimeFormat), s.ID)
	}
	fmt.Println("\nSubtasks:")
	for _, st := range subtasks {
		fmt.Printf("  %s %s  %s\n", check(st.Completed), st.Title, st.ID)
	}
	return nil
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Store.GetTask(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find task with ID %s: %w", c.ID, err)
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Store.DeleteTask(c.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	fmt.Printf("Deleted task: %s (ID: %s)\n", task.Title, c.ID)
	return nil
}
