package ranking

import (
	"math"

	"github.com/jonathan/car-advisor/internal/types"
)

// HybridScore blends vector similarity, feature overlap, budget position and
// ownership cost into a 0-100 score. It is reported alongside ensemble results
// and does not affect their order.
func HybridScore(car *types.Car, prefs *types.UserPreferences) float64 {
	similarity := CosineSimilarity(UserVector(prefs), CarVector(car)) * 40

	featureScore := 10.0
	if wanted := uniqueCount(prefs.Features); wanted > 0 {
		featureScore = float64(featureOverlap(car, prefs)) / float64(wanted) * 20
	}

	ownership := (float64(car.Reliability)/10 + maintenanceLevel(car.MaintenanceCost)) / 2 * 15

	return math.Min(100, similarity+featureScore+hybridBudget(car, prefs)+ownership)
}

// hybridBudget favours prices near the middle of the budget range.
func hybridBudget(car *types.Car, prefs *types.UserPreferences) float64 {
	minB, maxB := prefs.Budget.Min, prefs.Budget.Max
	switch {
	case car.Price >= minB && car.Price <= maxB:
		position := 0.5
		if span := maxB - minB; span > 0 {
			position = (car.Price - minB) / span
		}
		return 25 * (1 - math.Abs(position-0.5)*0.8)
	case car.Price < minB:
		return 20
	case maxB <= 0:
		return 0
	default:
		over := (car.Price - maxB) / maxB
		return math.Max(0, 25*(1-over*2))
	}
}

func maintenanceLevel(cost string) float64 {
	switch cost {
	case "low":
		return 1
	case "medium":
		return 0.7
	default:
		return 0.4
	}
}

func uniqueCount(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
