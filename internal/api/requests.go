package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/focusplan/internal/config"
	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/validation"
)

type CategoryCreate struct {
	Name               string `json:"name" binding:"required"`
	Color              string `json:"color"`
	PreferredStartHour *int   `json:"preferred_start_hour" binding:"omitempty,min=0,max=24"`
	PreferredEndHour   *int   `json:"preferred_end_hour" binding:"omitempty,min=0,max=24"`
	EnergyCurve        []int  `json:"energy_curve"`
}

func (r CategoryCreate) toCategory(id string) models.Category {
	return models.Category{
		ID:                 id,
		Name:               strings.TrimSpace(r.Name),
		Color:              r.Color,
		PreferredStartHour: r.PreferredStartHour,
		PreferredEndHour:   r.PreferredEndHour,
		EnergyCurve:        r.EnergyCurve,
	}
}

type AppointmentCreate struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	CategoryID  string    `json:"category_id"`
	Start       time.Time `json:"start_time" binding:"required"`
	End         time.Time `json:"end_time" binding:"required"`
	Timezone    string    `json:"timezone"`
}

func (r AppointmentCreate) toAppointment(id string) (models.Appointment, error) {
	if !r.End.After(r.Start) {
		return models.Appointment{}, fmt.Errorf("%w: end_time must be after start_time", validation.ErrInvalid)
	}
	return models.Appointment{
		ID:          id,
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Start:       r.Start,
		End:         r.End,
		Timezone:    r.Timezone,
	}, nil
}

// PlanTaskCreate is the body of POST /tasks/plan.
type PlanTaskCreate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Difficulty  int    `json:"estimated_difficulty"`
	DurationMin int    `json:"estimated_duration_minutes"`
	DueDate     string `json:"due_date" binding:"required"`
	Priority    int    `json:"priority"`
	CategoryID  string `json:"category_id"`

	HighEnergyStartHour         *int     `json:"high_energy_start_hour"`
	HighEnergyEndHour           *int     `json:"high_energy_end_hour"`
	FatigueFactor               *float64 `json:"fatigue_factor"`
	EnergyCurve                 []int    `json:"energy_curve"`
	EnergyDayOrderWeight        *float64 `json:"energy_day_order_weight"`
	CategoryDayWeight           *float64 `json:"category_day_weight"`
	TransitionBufferMin         *int     `json:"transition_buffer_minutes"`
	IntelligentTransitionBuffer *bool    `json:"intelligent_transition_buffer"`
	ProductivityWeight          *float64 `json:"productivity_history_weight"`
	ProductivityHalfLifeDays    *int     `json:"productivity_half_life_days"`
	CategoryProductivityWeight  *float64 `json:"category_productivity_weight"`
	SpacedRepetitionFactor      *float64 `json:"spaced_repetition_factor"`
	SessionCountWeight          *float64 `json:"session_count_weight"`
	DifficultyLoadWeight        *float64 `json:"difficulty_load_weight"`
	EnergyLoadWeight            *float64 `json:"energy_load_weight"`
}

func (r PlanTaskCreate) workItem() (models.WorkItem, error) {
	due, err := time.Parse(constants.DateFormat, strings.TrimSpace(r.DueDate))
	if err != nil {
		return models.WorkItem{}, fmt.Errorf("%w: due_date must be YYYY-MM-DD", validation.ErrInvalid)
	}
	return models.WorkItem{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Difficulty:  r.Difficulty,
		Priority:    r.Priority,
		DurationMin: r.DurationMin,
		DueDate:     due,
		CategoryID:  r.CategoryID,
	}, nil
}

func (r PlanTaskCreate) overrides() *config.Overrides {
	return &config.Overrides{
		HighEnergyStartHour:         r.HighEnergyStartHour,
		HighEnergyEndHour:           r.HighEnergyEndHour,
		FatigueFactor:               r.FatigueFactor,
		EnergyCurve:                 r.EnergyCurve,
		EnergyDayOrderWeight:        r.EnergyDayOrderWeight,
		CategoryDayWeight:           r.CategoryDayWeight,
		TransitionBufferMin:         r.TransitionBufferMin,
		IntelligentTransitionBuffer: r.IntelligentTransitionBuffer,
		ProductivityWeight:          r.ProductivityWeight,
		ProductivityHalfLifeDays:    r.ProductivityHalfLifeDays,
		CategoryProductivityWeight:  r.CategoryProductivityWeight,
		SpacedRepetitionFactor:      r.SpacedRepetitionFactor,
		SessionCountWeight:          r.SessionCountWeight,
		DifficultyLoadWeight:        r.DifficultyLoadWeight,
		EnergyLoadWeight:            r.EnergyLoadWeight,
	}
}

// TaskDetail is a task with its sessions and checklist.
type TaskDetail struct {
	Task          models.Task           `json:"task"`
	FocusSessions []models.FocusSession `json:"focus_sessions"`
	Subtasks      []models.Subtask      `json:"subtasks"`
}
