package ranking

import (
	"math"

	"github.com/jonathan/car-advisor/internal/types"
)

// Vector axes. UserVector and CarVector fill the same positions so cosine
// similarity compares like with like.
const (
	AxisValue = iota
	AxisEfficiency
	AxisSafety
	AxisPerformance
	AxisLuxury
	AxisPracticality
	AxisEnvironmental

	vectorSize
)

// Vector is a feature vector with every axis in [0,1].
type Vector [vectorSize]float64

// UserVector projects preferences onto the feature axes.
func UserVector(prefs *types.UserPreferences) Vector {
	var v Vector

	avgBudget := (prefs.Budget.Min + prefs.Budget.Max) / 2
	v[AxisValue] = math.Min(avgBudget/100000, 1)
	v[AxisEfficiency] = importanceLevel(prefs.FuelEfficiency.Importance)
	v[AxisSafety] = importanceLevel(prefs.SafetyRating.Importance)

	v[AxisPerformance] = 0.3
	if prefs.HasPriority(types.PriorityPerformance, types.PriorityDrivingExperience) {
		v[AxisPerformance] = 1
	}

	v[AxisLuxury] = 0.3
	if prefs.HasPriority(types.PriorityComfort, types.PriorityPrestige) {
		v[AxisLuxury] = 1
	}

	v[AxisPracticality] = 0.5
	if prefs.HasPriority(types.PriorityPracticality) || prefs.Usage == types.UsageFamily {
		v[AxisPracticality] = 1
	}

	v[AxisEnvironmental] = 0.3
	if prefs.WantsFuelType(types.FuelElectric) || prefs.WantsFuelType(types.FuelHybrid) {
		v[AxisEnvironmental] = 1
	}

	return v
}

// CarVector projects a car onto the feature axes.
func CarVector(car *types.Car) Vector {
	var v Vector

	v[AxisValue] = math.Max(0, 1-car.Price/80000)
	v[AxisEfficiency] = math.Min(car.FuelEfficiency/50, 1)
	v[AxisSafety] = float64(car.SafetyRating) / 5

	switch {
	case car.Segment == types.SegmentSport || car.Type == types.BodyCoupe:
		v[AxisPerformance] = 0.9
	case car.Type == types.BodySedan:
		v[AxisPerformance] = 0.5
	default:
		v[AxisPerformance] = 0.3
	}

	switch {
	case car.Segment == types.SegmentLuxury || car.Price > 50000:
		v[AxisLuxury] = 0.9
	case car.Segment == types.SegmentFamily:
		v[AxisLuxury] = 0.4
	default:
		v[AxisLuxury] = 0.2
	}

	v[AxisPracticality] = 0.4
	if car.SeatingCapacity >= 5 {
		v[AxisPracticality] = 0.8
	}

	switch car.FuelType {
	case types.FuelElectric:
		v[AxisEnvironmental] = 1
	case types.FuelHybrid:
		v[AxisEnvironmental] = 0.8
	default:
		v[AxisEnvironmental] = 0.2
	}

	return v
}

func importanceLevel(importance string) float64 {
	switch importance {
	case types.ImportanceHigh:
		return 1
	case types.ImportanceMedium:
		return 0.6
	default:
		return 0.3
	}
}
