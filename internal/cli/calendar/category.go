package calendar

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/focusplan/internal/cli"
	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/validation"
)

type CategoryAddCmd struct {
	Name        string `arg:"" help:"Category name."`
	Color       string `help:"Display color." default:"#7D56F4"`
	StartHour   *int   `help:"Preferred start hour for sessions in this category."`
	EndHour     *int   `help:"Preferred end hour for sessions in this category."`
	EnergyCurve string `help:"24 comma-separated hourly energy values."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	cat := models.Category{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(c.Name),
		Color:              c.Color,
		PreferredStartHour: c.StartHour,
		PreferredEndHour:   c.EndHour,
	}
	if cat.Name == "" {
		return fmt.Errorf("%w: name is required", validation.ErrInvalid)
	}
	if err := checkHours(c.StartHour, c.EndHour); err != nil {
		return err
	}
	if c.EnergyCurve != "" {
		curve, err := config.ParseEnergyCurve(c.EnergyCurve)
		if err != nil {
			return fmt.Errorf("%w: %v", validation.ErrInvalid, err)
		}
		cat.EnergyCurve = curve
	}
	if existing, err := ctx.ResolveCategory(cat.Name); err == nil {
		return fmt.Errorf("%w: category %q already exists (ID: %s)", validation.ErrInvalid, existing.Name, existing.ID)
	}

	if err := ctx.Store.AddCategory(cat); err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	fmt.Printf("✓ Added category: %s\n", cat.Name)
	fmt.Printf("  ID: %s\n", cat.ID)
	return nil
}

func checkHours(start, end *int) error {
	for _, h := range []*int{start, end} {
		if h != nil && (*h < 0 || *h > 24) {
			return fmt.Errorf("%w: preferred hour %d must be between 0 and 24", validation.ErrInvalid, *h)
		}
	}
	if start != nil && end != nil && *end <= *start {
		return fmt.Errorf("%w: preferred end hour must be after start hour", validation.ErrInvalid)
	}
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	cats, err := ctx.Store.GetAllCategories()
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	if len(cats) == 0 {
		fmt.Println("No categories found.")
		return nil
	}
	fmt.Println("Categories:")
	for _, cat := range cats {
		hours := ""
		if cat.PreferredStartHour != nil && cat.PreferredEndHour != nil {
			hours = fmt.Sprintf(" [%02d:00-%02d:00]", *cat.PreferredStartHour, *cat.PreferredEndHour)
		}
		curve := ""
		if cat.HasEnergyCurve() {
			curve = " (custom energy curve)"
		}
		fmt.Printf("  %s%s%s\n", cat.Name, hours, curve)
		fmt.Printf("      ID: %s\n", cat.ID)
	}
	return nil
}

type CategoryDeleteCmd struct {
	Ref string `arg:"" help:"Category ID or name."`
}

func (c *CategoryDeleteCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.ResolveCategory(c.Ref)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteCategory(cat.ID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	fmt.Printf("Deleted category: %s (ID: %s)\n", cat.Name, cat.ID)
	return nil
}
