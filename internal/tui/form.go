package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/models"
)

// PlanFormModel holds the raw text of the interactive plan form.
type PlanFormModel struct {
	Title       string
	Description string
	Difficulty  string
	Duration    string
	Due         string
	Priority    string
	CategoryID  string
}

func intInRange(name string, lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("%s must be a number", name)
		}
		if n < lo || (hi > 0 && n > hi) {
			if hi > 0 {
				return fmt.Errorf("%s must be between %d and %d", name, lo, hi)
			}
			return fmt.Errorf("%s must be at least %d", name, lo)
		}
		return nil
	}
}

func validDate(s string) error {
	if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func notEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("title cannot be empty")
	}
	return nil
}

// NewPlanForm creates the form used by `plan --interactive`.
func NewPlanForm(fm *PlanFormModel, categories []models.Category) *huh.Form {
	options := []huh.Option[string]{huh.NewOption("None", "")}
	for _, c := range categories {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(notEmpty),
			huh.NewText().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[string]().
				Title("Category").
				Options(options...).
				Value(&fm.CategoryID),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Difficulty (1-5)").
				Value(&fm.Difficulty).
				Validate(intInRange("difficulty", 1, 5)),
			huh.NewInput().
				Title("Priority (1-5)").
				Description("1 is the most important").
				Value(&fm.Priority).
				Validate(intInRange("priority", 1, 5)),
			huh.NewInput().
				Title("Duration (min)").
				Value(&fm.Duration).
				Validate(intInRange("duration", 1, 0)),
			huh.NewInput().
				Title("Due date").
				Placeholder(constants.DateFormat).
				Value(&fm.Due).
				Validate(validDate),
		),
	).WithTheme(huh.ThemeDracula())
}

// WorkItem converts the submitted form.
func (fm PlanFormModel) WorkItem() (models.WorkItem, error) {
	for _, check := range []error{
		notEmpty(fm.Title),
		intInRange("difficulty", 1, 5)(fm.Difficulty),
		intInRange("priority", 1, 5)(fm.Priority),
		intInRange("duration", 1, 0)(fm.Duration),
		validDate(fm.Due),
	} {
		if check != nil {
			return models.WorkItem{}, check
		}
	}
	difficulty, _ := strconv.Atoi(strings.TrimSpace(fm.Difficulty))
	priority, _ := strconv.Atoi(strings.TrimSpace(fm.Priority))
	duration, _ := strconv.Atoi(strings.TrimSpace(fm.Duration))
	due, _ := time.Parse(constants.DateFormat, strings.TrimSpace(fm.Due))
	return models.WorkItem{
		Title:       strings.TrimSpace(fm.Title),
		Description: fm.Description,
		Difficulty:  difficulty,
		Priority:    priority,
		DurationMin: duration,
		DueDate:     due,
		CategoryID:  fm.CategoryID,
	}, nil
}

// RunPlanForm runs the form in the terminal and returns the work item.
func RunPlanForm(fm *PlanFormModel, categories []models.Category) (models.WorkItem, error) {
	if err := NewPlanForm(fm, categories).Run(); err != nil {
		return models.WorkItem{}, err
	}
	return fm.WorkItem()
}
