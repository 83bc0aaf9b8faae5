package types

import "slices"

// Importance levels for fuel efficiency and safety requirements.
const (
	ImportanceLow    = "low"
	ImportanceMedium = "medium"
	ImportanceHigh   = "high"
)

// Priority tags accepted in UserPreferences.Priorities.
const (
	PriorityComfort           = "comfort"
	PriorityPrestige          = "prestige"
	PriorityValue             = "value"
	PriorityFuelEconomy       = "fuel_economy"
	PriorityPerformance       = "performance"
	PriorityDrivingExperience = "driving_experience"
	PriorityPracticality      = "practicality"
	PrioritySafety            = "safety"
	PriorityReliability       = "reliability"
	PriorityTechnology        = "technology"
)

// UsageFamily is the usage value that implies practicality.
const UsageFamily = "family_use"

// BudgetRange is an inclusive price range.
type BudgetRange struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gte=0,gtefield=Min"`
}

// Requirement is a minimum value paired with how much the user cares about it.
type Requirement struct {
	Min        float64 `json:"min" validate:"gte=0"`
	Importance string  `json:"importance" validate:"required,oneof=low medium high"`
}

// UserPreferences describes what the user wants from a car.
// A fresh value is built for every recommendation request.
type UserPreferences struct {
	Budget          BudgetRange `json:"budget"`
	FuelEfficiency  Requirement `json:"fuelEfficiency"`
	CarType         []string    `json:"carType" validate:"dive,oneof=sedan suv hatchback coupe truck convertible"`
	FuelType        []string    `json:"fuelType" validate:"dive,oneof=gasoline hybrid electric diesel"`
	SeatingCapacity int         `json:"seatingCapacity" validate:"gte=0,lte=9"`
	Transmission    []string    `json:"transmission" validate:"dive,oneof=manual automatic cvt"`
	Drivetrain      []string    `json:"drivetrain" validate:"dive,oneof=fwd rwd awd 4wd"`
	Features        []string    `json:"features"`
	SafetyRating    Requirement `json:"safetyRating"`
	Usage           string      `json:"usage,omitempty" validate:"omitempty,oneof=daily_commute weekend_trips family_use business recreation"`
	Experience      string      `json:"experience,omitempty" validate:"omitempty,oneof=first_time experienced enthusiast"`
	Priorities      []string    `json:"priorities" validate:"dive,oneof=comfort prestige value fuel_economy performance driving_experience practicality safety reliability technology"`
}

// HasPriority reports whether any of the given priority tags was selected.
func (p *UserPreferences) HasPriority(tags ...string) bool {
	for _, tag := range tags {
		if slices.Contains(p.Priorities, tag) {
			return true
		}
	}
	return false
}

// WantsBodyType reports whether the body type is in the preferred set.
func (p *UserPreferences) WantsBodyType(bodyType string) bool {
	return slices.Contains(p.CarType, bodyType)
}

// WantsFuelType reports whether the fuel type is in the preferred set.
func (p *UserPreferences) WantsFuelType(fuelType string) bool {
	return slices.Contains(p.FuelType, fuelType)
}
