package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/focusplan/internal/constants"
)

// ErrInfeasible is returned when the work cannot be placed before its due date.
var ErrInfeasible = errors.New("cannot schedule before due date")

// SchedulingError describes why a plan was infeasible.
type SchedulingError struct {
	Reason string
	Day    time.Time
}

func (e *SchedulingError) Error() string {
	if e.Day.IsZero() {
		return fmt.Sprintf("%s: %s", ErrInfeasible, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrInfeasible, e.Reason, e.Day.Format(constants.DateFormat))
}

func (e *SchedulingError) Unwrap() error {
	return ErrInfeasible
}

func infeasible(day time.Time, format string, args ...interface{}) error {
	return &SchedulingError{Reason: fmt.Sprintf(format, args...), Day: day}
}

// Hint suggests how to make the request feasible.
func (e *SchedulingError) Hint() string {
	return "try a later due date or a shorter duration"
}
