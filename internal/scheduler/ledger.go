package scheduler

import (
	"time"

	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/models"
)

// Calendar is the read-only event snapshot the scheduler plans against.
type Calendar interface {
	BusyIntervals() []models.Interval
	SessionCount(day time.Time) int
	DifficultyLoad(day time.Time) int
	EnergyLoad(day time.Time) int
	CategoryMinutes(day time.Time, categoryID string) int
	CategoryIntervals(categoryID string) []models.Interval
	EarliestCategoryDay(before time.Time, categoryID string) (time.Time, bool)
	History() []models.SessionRecord
}

type acceptedSession struct {
	session models.Interval
	// busy covers the session and its trailing break.
	busy models.Interval
}

// ledger layers the sessions accepted during one plan call over the
// immutable calendar snapshot. It never writes to the snapshot.
type ledger struct {
	cal        Calendar
	base       []models.Interval
	loc        *time.Location
	difficulty int
	categoryID string
	accepted   []acceptedSession
}

func newLedger(cal Calendar, loc *time.Location, item models.WorkItem) *ledger {
	return &ledger{
		cal:        cal,
		base:       cal.BusyIntervals(),
		loc:        loc,
		difficulty: item.Difficulty,
		categoryID: item.CategoryID,
	}
}

func (l *ledger) accept(session models.Interval, breakLen time.Duration) {
	l.accepted = append(l.accepted, acceptedSession{
		session: session,
		busy:    models.Interval{Start: session.Start, End: session.End.Add(breakLen)},
	})
}

// busy returns the snapshot intervals followed by the accepted ones.
func (l *ledger) busy() []models.Interval {
	out := make([]models.Interval, 0, len(l.base)+len(l.accepted))
	out = append(out, l.base...)
	for _, a := range l.accepted {
		out = append(out, a.busy)
	}
	return out
}

func (l *ledger) sameDay(t, day time.Time) bool {
	return t.In(l.loc).Format(constants.DateFormat) == day.In(l.loc).Format(constants.DateFormat)
}

func (l *ledger) acceptedOn(day time.Time) []models.Interval {
	var out []models.Interval
	for _, a := range l.accepted {
		if l.sameDay(a.session.Start, day) {
			out = append(out, a.session)
		}
	}
	return out
}

func (l *ledger) sessionCount(day time.Time) int {
	return l.cal.SessionCount(day) + len(l.acceptedOn(day))
}

func (l *ledger) difficultyLoad(day time.Time) int {
	return l.cal.DifficultyLoad(day) + l.difficulty*len(l.acceptedOn(day))
}

func (l *ledger) energyLoad(day time.Time) int {
	total := l.cal.EnergyLoad(day)
	for _, s := range l.acceptedOn(day) {
		total += l.difficulty * s.Minutes()
	}
	return total
}

func (l *ledger) categoryMinutes(day time.Time, categoryID string) int {
	total := l.cal.CategoryMinutes(day, categoryID)
	if categoryID != "" && categoryID == l.categoryID {
		total += sumMinutes(l.acceptedOn(day))
	}
	return total
}

func (l *ledger) categoryIntervals(categoryID string) []models.Interval {
	out := l.cal.CategoryIntervals(categoryID)
	if categoryID != "" && categoryID == l.categoryID {
		for _, a := range l.accepted {
			out = append(out, a.session)
		}
	}
	return out
}

func (l *ledger) sessions() []models.Interval {
	out := make([]models.Interval, len(l.accepted))
	for i, a := range l.accepted {
		out[i] = a.session
	}
	return out
}
