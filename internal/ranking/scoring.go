// Package ranking scores catalog cars against buyer preferences and ranks them.
package ranking

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/jonathan/car-advisor/internal/types"
)

// Component weights. Budget through features sum to 100 at full credit
// when both importance levels are "high".
const (
	budgetWeight   = 25.0
	bodyTypeWeight = 15.0
	fuelTypeWeight = 10.0
	seatingWeight  = 5.0
	featuresWeight = 10.0
	segmentBonus   = 5.0

	// belowMinBudgetCredit is the share of budgetWeight awarded to cars cheaper than budget.min.
	belowMinBudgetCredit = 0.8
	// maxOverBudget is the overage ratio at which budget credit reaches zero.
	maxOverBudget = 0.2
)

// Breakdown holds the points each component contributed to a score.
type Breakdown struct {
	Budget       float64 `json:"budget"`
	BodyType     float64 `json:"bodyType"`
	FuelType     float64 `json:"fuelType"`
	Efficiency   float64 `json:"efficiency"`
	Safety       float64 `json:"safety"`
	Seating      float64 `json:"seating"`
	Features     float64 `json:"features"`
	SegmentBonus float64 `json:"segmentBonus"`
	Achieved     float64 `json:"achieved"`
	Total        float64 `json:"total"`
}

// ScoreResult is the outcome of scoring one car.
type ScoreResult struct {
	MatchScore int       `json:"matchScore"`
	Reasons    []string  `json:"reasons"`
	Warnings   []string  `json:"warnings"`
	Breakdown  Breakdown `json:"breakdown"`
}

// scorer accumulates reasons and warnings in evaluation order.
type scorer struct {
	reasons  []string
	warnings []string
}

func (s *scorer) reason(format string, args ...any) {
	s.reasons = append(s.reasons, fmt.Sprintf(format, args...))
}

func (s *scorer) warn(format string, args ...any) {
	s.warnings = append(s.warnings, fmt.Sprintf(format, args...))
}

// Score computes the match score of car against prefs.
// prefs must already be valid (see ValidatePreferences); Score does not check it.
func Score(car *types.Car, prefs *types.UserPreferences) ScoreResult {
	s := &scorer{reasons: []string{}, warnings: []string{}}

	efficiencyWeight := importanceWeight(prefs.FuelEfficiency.Importance, 20, 15, 10)
	safetyWeight := importanceWeight(prefs.SafetyRating.Importance, 15, 10, 5)

	b := Breakdown{
		Budget:     s.budget(car, prefs),
		BodyType:   s.bodyType(car, prefs),
		FuelType:   s.fuelType(car, prefs),
		Efficiency: s.efficiency(car, prefs, efficiencyWeight),
		Safety:     s.safety(car, prefs, safetyWeight),
		Seating:    s.seating(car, prefs),
		Features:   s.features(car, prefs),
	}
	b.SegmentBonus = s.segment(car, prefs)
	b.Achieved = b.Budget + b.BodyType + b.FuelType + b.Efficiency + b.Safety + b.Seating + b.Features
	b.Total = budgetWeight + bodyTypeWeight + fuelTypeWeight + efficiencyWeight + safetyWeight + seatingWeight + featuresWeight

	normalized := math.Min(100, 100*b.Achieved/b.Total)
	final := math.Round(normalized + b.SegmentBonus)
	final = math.Max(0, math.Min(100, final))

	return ScoreResult{
		MatchScore: int(final),
		Reasons:    s.reasons,
		Warnings:   s.warnings,
		Breakdown:  b,
	}
}

// importanceWeight maps an importance level to its weight. Unknown levels count as low.
func importanceWeight(importance string, high, medium, low float64) float64 {
	switch importance {
	case types.ImportanceHigh:
		return high
	case types.ImportanceMedium:
		return medium
	default:
		return low
	}
}

func (s *scorer) budget(car *types.Car, prefs *types.UserPreferences) float64 {
	minB, maxB := prefs.Budget.Min, prefs.Budget.Max
	switch {
	case car.Price >= minB && car.Price <= maxB:
		s.reason("Within your budget of $%s - $%s", commaf(minB), commaf(maxB))
		return budgetWeight
	case car.Price < minB:
		s.reason("Very affordable option")
		return budgetWeight * belowMinBudgetCredit
	}

	over := car.Price - maxB
	ratio := math.Inf(1)
	if maxB > 0 {
		ratio = over / maxB
	}
	if ratio <= maxOverBudget {
		s.warn("%.1f%% over budget", ratio*100)
		return budgetWeight * (1 - ratio/maxOverBudget)
	}
	s.warn("Significantly over budget by $%s", commaf(over))
	return 0
}

func (s *scorer) bodyType(car *types.Car, prefs *types.UserPreferences) float64 {
	if !prefs.WantsBodyType(car.Type) {
		return 0
	}
	s.reason("Matches your preferred %s body style", car.Type)
	return bodyTypeWeight
}

func (s *scorer) fuelType(car *types.Car, prefs *types.UserPreferences) float64 {
	if !prefs.WantsFuelType(car.FuelType) {
		return 0
	}
	s.reason("Uses your preferred %s fuel type", car.FuelType)
	return fuelTypeWeight
}

func (s *scorer) efficiency(car *types.Car, prefs *types.UserPreferences, weight float64) float64 {
	minMPG := prefs.FuelEfficiency.Min
	if car.FuelEfficiency >= minMPG {
		bonus := math.Min((car.FuelEfficiency-minMPG)/10, 1)
		s.reason("Excellent fuel efficiency: %s MPG", num(car.FuelEfficiency))
		return weight * (1 + bonus*0.5)
	}
	deficit := minMPG - car.FuelEfficiency
	s.warn("Lower fuel efficiency than preferred (%s vs %s MPG)", num(car.FuelEfficiency), num(minMPG))
	return math.Max(0, weight*(1-deficit/20))
}

func (s *scorer) safety(car *types.Car, prefs *types.UserPreferences, weight float64) float64 {
	rating := float64(car.SafetyRating)
	if rating < prefs.SafetyRating.Min {
		s.warn("Safety rating below your minimum (%d vs %s stars)", car.SafetyRating, num(prefs.SafetyRating.Min))
		return 0
	}
	if car.SafetyRating == 5 {
		s.reason("Top 5-star safety rating")
	} else {
		s.reason("Good %d-star safety rating", car.SafetyRating)
	}
	return weight * rating / 5
}

func (s *scorer) seating(car *types.Car, prefs *types.UserPreferences) float64 {
	need := prefs.SeatingCapacity
	if car.SeatingCapacity < need {
		s.warn("Limited seating (%d vs %d needed)", car.SeatingCapacity, need)
		return 0
	}
	if car.SeatingCapacity > need {
		s.reason("Extra seating capacity (%d seats)", car.SeatingCapacity)
	} else {
		s.reason("Perfect seating capacity (%d seats)", car.SeatingCapacity)
	}
	return seatingWeight
}

func (s *scorer) features(car *types.Car, prefs *types.UserPreferences) float64 {
	if len(prefs.Features) == 0 {
		return 0
	}
	matched := featureOverlap(car, prefs)
	if matched == 0 {
		return 0
	}
	s.reason("Has %d of your desired features", matched)
	return featuresWeight * float64(matched) / float64(len(prefs.Features))
}

// featureOverlap counts car features that appear in the preferred set.
func featureOverlap(car *types.Car, prefs *types.UserPreferences) int {
	wanted := make(map[string]bool, len(prefs.Features))
	for _, f := range prefs.Features {
		wanted[f] = true
	}
	matched := 0
	for _, f := range car.Features {
		if wanted[f] {
			matched++
			delete(wanted, f)
		}
	}
	return matched
}

func (s *scorer) segment(car *types.Car, prefs *types.UserPreferences) float64 {
	switch car.Segment {
	case types.SegmentLuxury:
		if prefs.HasPriority(types.PriorityComfort, types.PriorityPrestige) {
			s.reason("Luxury segment matches your priorities")
			return segmentBonus
		}
	case types.SegmentEconomy:
		if prefs.HasPriority(types.PriorityValue, types.PriorityFuelEconomy) {
			s.reason("Economy segment offers great value")
			return segmentBonus
		}
	case types.SegmentSport:
		if prefs.HasPriority(types.PriorityPerformance, types.PriorityDrivingExperience) {
			s.reason("Sport segment delivers performance")
			return segmentBonus
		}
	case types.SegmentFamily:
		if prefs.HasPriority(types.PriorityPracticality, types.PrioritySafety) {
			s.reason("Family-oriented vehicle")
			return segmentBonus
		}
	}
	return 0
}

// commaf formats a dollar amount with thousands separators, dropping cents.
func commaf(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// num formats a number without a trailing ".0" for whole values.
func num(v float64) string {
	return humanize.Ftoa(v)
}
