package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/focusplan/internal/logger"
)

// ErrUnknownKey is returned by Check for keys that are not settings.
var ErrUnknownKey = errors.New("unknown setting")

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Keys returns every setting key in display order.
func Keys() []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.key
	}
	return keys
}

// Check reports whether value is acceptable for key without applying it.
func Check(key, value string) error {
	i, ok := fieldIndex[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	c := Default()
	if err := fields[i].set(&c, value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// FromMap applies key/value settings on top of base. Unknown keys are
// ignored; malformed values keep the value from base and log a warning.
func FromMap(base Config, values map[string]string, source string) Config {
	c := base.Clone()
	for _, f := range fields {
		v, ok := values[f.key]
		if !ok {
			continue
		}
		if err := f.set(&c, v); err != nil {
			logger.Warn("ignoring malformed setting", "source", source, "key", f.key, "value", v, "err", err)
		}
	}
	return c
}

// FromEnv applies environment overrides on top of base. Each key is looked
// up upper-cased, e.g. SESSION_LENGTH_MINUTES.
func FromEnv(base Config, lookup LookupFunc) Config {
	if lookup == nil {
		return base.Clone()
	}
	values := make(map[string]string)
	for _, f := range fields {
		if v, ok := lookup(strings.ToUpper(f.key)); ok {
			values[f.key] = v
		}
	}
	return FromMap(base, values, "env")
}

// ToMap renders every setting in the key/value form FromMap accepts.
func ToMap(c Config) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.key] = f.get(&c)
	}
	return out
}

// Get returns the rendered value of one setting.
func Get(c Config, key string) (string, bool) {
	i, ok := fieldIndex[key]
	if !ok {
		return "", false
	}
	return fields[i].get(&c), true
}

// Overrides carries per-request values. Nil fields leave the resolved value
// in place.
type Overrides struct {
	HighEnergyStartHour         *int
	HighEnergyEndHour           *int
	FatigueFactor               *float64
	EnergyCurve                 []int
	EnergyDayOrderWeight        *float64
	CategoryDayWeight           *float64
	TransitionBufferMin         *int
	IntelligentTransitionBuffer *bool
	ProductivityWeight          *float64
	ProductivityHalfLifeDays    *int
	CategoryProductivityWeight  *float64

	SpacedRepetitionFactor *float64
	SessionCountWeight     *float64
	DifficultyLoadWeight   *float64
	EnergyLoadWeight       *float64
}

// Apply returns a copy of c with the non-nil overrides set.
func (o *Overrides) Apply(c Config) Config {
	out := c.Clone()
	if o == nil {
		return out
	}
	if o.HighEnergyStartHour != nil {
		out.HighEnergyStartHour = cloneInt(o.HighEnergyStartHour)
	}
	if o.HighEnergyEndHour != nil {
		out.HighEnergyEndHour = cloneInt(o.HighEnergyEndHour)
	}
	if o.FatigueFactor != nil {
		out.FatigueFactor = *o.FatigueFactor
	}
	if o.EnergyCurve != nil {
		if len(o.EnergyCurve) == 24 {
			out.EnergyCurve = append([]int(nil), o.EnergyCurve...)
		} else {
			logger.Warn("ignoring energy curve override", "len", len(o.EnergyCurve))
		}
	}
	if o.EnergyDayOrderWeight != nil {
		out.EnergyDayOrderWeight = *o.EnergyDayOrderWeight
	}
	if o.CategoryDayWeight != nil {
		out.CategoryDayWeight = *o.CategoryDayWeight
	}
	if o.TransitionBufferMin != nil {
		out.TransitionBufferMin = *o.TransitionBufferMin
	}
	if o.IntelligentTransitionBuffer != nil {
		out.IntelligentTransitionBuffer = *o.IntelligentTransitionBuffer
	}
	if o.ProductivityWeight != nil {
		out.ProductivityWeight = *o.ProductivityWeight
	}
	if o.ProductivityHalfLifeDays != nil {
		out.ProductivityHalfLifeDays = *o.ProductivityHalfLifeDays
	}
	if o.CategoryProductivityWeight != nil {
		out.CategoryProductivityWeight = *o.CategoryProductivityWeight
	}
	if o.SpacedRepetitionFactor != nil {
		out.Reserved.SpacedRepetitionFactor = *o.SpacedRepetitionFactor
	}
	if o.SessionCountWeight != nil {
		out.Reserved.SessionCountWeight = *o.SessionCountWeight
	}
	if o.DifficultyLoadWeight != nil {
		out.Reserved.DifficultyLoadWeight = *o.DifficultyLoadWeight
	}
	if o.EnergyLoadWeight != nil {
		out.Reserved.EnergyLoadWeight = *o.EnergyLoadWeight
	}
	return out
}

// Resolve layers defaults, stored settings, environment and overrides.
func Resolve(stored map[string]string, lookup LookupFunc, ov *Overrides) Config {
	c := Default()
	c = FromMap(c, stored, "store")
	c = FromEnv(c, lookup)
	return ov.Apply(c)
}
