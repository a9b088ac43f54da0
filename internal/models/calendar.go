package models

import "time"

type Category struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Color              string `json:"color"`
	PreferredStartHour *int   `json:"preferred_start_hour,omitempty"`
	PreferredEndHour   *int   `json:"preferred_end_hour,omitempty"`
	EnergyCurve        []int  `json:"energy_curve,omitempty"` // 24 entries, one per hour
}

// HasEnergyCurve reports whether the category overrides the energy curve.
func (c *Category) HasEnergyCurve() bool {
	return c != nil && len(c.EnergyCurve) == 24
}

type Appointment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	Start       time.Time `json:"start_time"`
	End         time.Time `json:"end_time"`
	Timezone    string    `json:"timezone,omitempty"`
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the two half-open ranges intersect.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Expand widens the interval by d on both sides.
func (i Interval) Expand(d time.Duration) Interval {
	return Interval{Start: i.Start.Add(-d), End: i.End.Add(d)}
}

// Minutes returns the length of the interval in whole minutes.
func (i Interval) Minutes() int {
	return int(i.End.Sub(i.Start).Minutes())
}

// SessionRecord is a past focus session used for productivity weighting.
type SessionRecord struct {
	Start      time.Time
	End        time.Time
	Completed  bool
	CategoryID string
}
