package scheduler

import (
	"math"
	"time"

	"github.com/julianstephens/focusplan/internal/models"
)

// hourRates holds a recency-weighted completion rate per hour of day.
type hourRates [24]float64

// completionRates weighs each past session by 0.5^(ageDays/halfLife) and
// returns completed/total per start hour. An empty categoryID includes all
// sessions. Sessions starting at or after now are ignored.
func completionRates(history []models.SessionRecord, now time.Time, halfLifeDays int, categoryID string) hourRates {
	var done, total [24]float64
	for _, h := range history {
		if !h.Start.Before(now) {
			continue
		}
		if categoryID != "" && h.CategoryID != categoryID {
			continue
		}
		weight := 1.0
		if halfLifeDays > 0 {
			age := now.Sub(h.Start).Hours() / 24
			weight = math.Pow(0.5, age/float64(halfLifeDays))
		}
		hour := h.Start.In(now.Location()).Hour()
		total[hour] += weight
		if h.Completed {
			done[hour] += weight
		}
	}

	var rates hourRates
	for i := range rates {
		if total[i] > 0 {
			rates[i] = done[i] / total[i]
		}
	}
	return rates
}

// slotScorer scores an hour for intelligent slot selection.
type slotScorer struct {
	curve          []int
	rates          hourRates
	categoryRates  hourRates
	weight         float64
	categoryWeight float64
}

func (s slotScorer) score(hour int) float64 {
	base := 1.0
	if len(s.curve) == 24 {
		base = float64(s.curve[hour])
	}
	return base + s.weight*s.rates[hour] + s.categoryWeight*s.categoryRates[hour]
}

// slotScore sums the hour scores over every quantum starting inside slot.
func (s slotScorer) slotScore(slot models.Interval, quantum time.Duration) float64 {
	total := 0.0
	for t := slot.Start; t.Before(slot.End); t = t.Add(quantum) {
		total += s.score(t.Hour())
	}
	return total
}
