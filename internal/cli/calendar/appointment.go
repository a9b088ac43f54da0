package calendar

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

type AppointmentAddCmd struct {
	Title       string `arg:"" help:"Appointment title."`
	Start       string `short:"s" required:"" help:"Start time (YYYY-MM-DD HH:MM or RFC3339)."`
	End         string `short:"e" help:"End time (YYYY-MM-DD HH:MM or RFC3339)."`
	Duration    int    `short:"m" help:"Length in minutes, instead of --end."`
	Description string `short:"D" help:"Description."`
	Category    string `short:"c" help:"Category ID or name."`
	Timezone    string `short:"z" help:"Timezone of the given times (default: configured timezone)."`
}

// location picks the timezone the times were written in.
func location(ctx *cli.Context, tz string) (*time.Location, error) {
	if tz == "" {
		return ctx.Location()
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid timezone %q", validation.ErrInvalid, tz)
	}
	return loc, nil
}

func (c *AppointmentAddCmd) Run(ctx *cli.Context) error {
	loc, err := location(ctx, c.Timezone)
	if err != nil {
		return err
	}
	start, end, err := parseRange(c.Start, c.End, c.Duration, loc)
	if err != nil {
		return err
	}
	cat, err := ctx.ResolveCategory(c.Category)
	if err != nil {
		return err
	}

	appt := models.Appointment{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		CategoryID:  cat.ID,
		Start:       start,
		End:         end,
		Timezone:    loc.String(),
	}
	if appt.Title == "" {
		return fmt.Errorf("%w: title is required", validation.ErrInvalid)
	}
	if err := ctx.Store.AddAppointment(appt); err != nil {
		return fmt.Errorf("failed to add appointment: %w", err)
	}

	fmt.Printf("✓ Added appointment: %s (%s)\n", appt.Title, formatRange(appt.Start, appt.End, loc))
	fmt.Printf("  ID: %s\n", appt.ID)
	ctx.WarnConflicts()
	return nil
}

func parseRange(startStr, endStr string, minutes int, loc *time.Location) (time.Time, time.Time, error) {
	start, err := utils.ParseDateTimeInLocation(startStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", validation.ErrInvalid, err)
	}
	var end time.Time
	switch {
	case endStr != "" && minutes > 0:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: use either --end or --duration", validation.ErrInvalid)
	case endStr != "":
		end, err = utils.ParseDateTimeInLocation(endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", validation.ErrInvalid, err)
		}
	case minutes > 0:
		end = start.Add(time.Duration(minutes) * time.Minute)
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: --end or --duration is required", validation.ErrInvalid)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end must be after start", validation.ErrInvalid)
	}
	return start, end, nil
}

func formatRange(start, end time.Time, loc *time.Location) string {
	start, end = start.In(loc), end.In(loc)
	if utils.DateOf(start).Equal(utils.DateOf(end)) {
		return fmt.Sprintf("%s %s-%s", start.Format(constants.DateFormat), start.Format(constants.TimeFormat), end.Format(constants.TimeFormat))
	}
	return fmt.Sprintf("%s - %s", start.Format(constants.DateTimeFormat), end.Format(constants.DateTimeFormat))
}

type AppointmentListCmd struct {
	From string `help:"Only show appointments ending after this date (YYYY-MM-DD)."`
	All  bool   `short:"a" help:"Include past appointments."`
}

func (c *AppointmentListCmd) Run(ctx *cli.Context) error {
	loc, err := ctx.Location()
	if err != nil {
		return err
	}
	appts, err := ctx.Store.GetAllAppointments()
	if err != nil {
		return fmt.Errorf("failed to get appointments: %w", err)
	}

	var from time.Time
	switch {
	case c.From != "":
		from, err = utils.ParseDateInLocation(c.From, loc)
		if err != nil {
			return fmt.Errorf("%w: invalid date %q (expected YYYY-MM-DD)", validation.ErrInvalid, c.From)
		}
	case !c.All:
		from = utils.DateOf(time.Now().In(loc))
	}

	var shown []models.Appointment
	for _, a := range appts {
		if from.IsZero() || a.End.After(from) {
			shown = append(shown, a)
		}
	}
	sort.SliceStable(shown, func(i, j int) bool { return shown[i].Start.Before(shown[j].Start) })

	if len(shown) == 0 {
		fmt.Println("No appointments found.")
		return nil
	}
	fmt.Println("Appointments:")
	for _, a := range shown {
		fmt.Printf("  %s  %s\n", formatRange(a.Start, a.End, loc), a.Title)
		fmt.Printf("      ID: %s\n", a.ID)
	}
	return nil
}

type AppointmentEditCmd struct {
	ID       string  `arg:"" help:"Appointment ID."`
	Title    *string `help:"New title."`
	Start    string  `short:"s" help:"New start time."`
	End      string  `short:"e" help:"New end time."`
	Category *string `short:"c" help:"New category ID or name (empty to clear)."`
}

func (c *AppointmentEditCmd) Run(ctx *cli.Context) error {
	appt, err := ctx.Store.GetAppointment(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find appointment with ID %s: %w", c.ID, err)
	}
	loc, err := location(ctx, appt.Timezone)
	if err != nil {
		return err
	}

	if c.Title != nil {
		appt.Title = strings.TrimSpace(*c.Title)
	}
	// Moving the start keeps the length unless a new end is given.
	length := appt.End.Sub(appt.Start)
	if c.Start != "" {
		if appt.Start, err = utils.ParseDateTimeInLocation(c.Start, loc); err != nil {
			return fmt.Errorf("%w: %v", validation.ErrInvalid, err)
		}
		appt.End = appt.Start.Add(length)
	}
	if c.End != "" {
		if appt.End, err = utils.ParseDateTimeInLocation(c.End, loc); err != nil {
			return fmt.Errorf("%w: %v", validation.ErrInvalid, err)
		}
	}
	if c.Category != nil {
		cat, err := ctx.ResolveCategory(*c.Category)
		if err != nil {
			return err
		}
		appt.CategoryID = cat.ID
	}

	if appt.Title == "" {
		return fmt.Errorf("%w: title is required", validation.ErrInvalid)
	}
	if !appt.End.After(appt.Start) {
		return fmt.Errorf("%w: end must be after start", validation.ErrInvalid)
	}
	if err := ctx.Store.UpdateAppointment(appt); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	fmt.Printf("✓ Updated appointment: %s (%s)\n", appt.Title, formatRange(appt.Start, appt.End, loc))
	return nil
}

type AppointmentDeleteCmd struct {
	ID string `arg:"" help:"Appointment ID."`
}

func (c *AppointmentDeleteCmd) Run(ctx *cli.Context) error {
	appt, err := ctx.Store.GetAppointment(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find appointment with ID %s: %w", c.ID, err)
	}
	if err := ctx.Store.DeleteAppointment(c.ID); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	fmt.Printf("Deleted appointment: %s (ID: %s)\n", appt.Title, c.ID)
	return nil
}
