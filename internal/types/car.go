// Package types provides type definitions for structured data used throughout the car-advisor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"slices"
	"strconv"
)

// Body types
const (
	BodySedan       = "sedan"
	BodySUV         = "suv"
	BodyHatchback   = "hatchback"
	BodyCoupe       = "coupe"
	BodyTruck       = "truck"
	BodyConvertible = "convertible"
)

// Fuel types
const (
	FuelGasoline = "gasoline"
	FuelHybrid   = "hybrid"
	FuelElectric = "electric"
	FuelDiesel   = "diesel"
)

// Market segments
const (
	SegmentLuxury  = "luxury"
	SegmentEconomy = "economy"
	SegmentSport   = "sport"
	SegmentFamily  = "family"
)

// Car is an immutable catalog record.
type Car struct {
	ID              string   `json:"id" yaml:"id" validate:"required"`
	Make            string   `json:"make" yaml:"make" validate:"required"`
	Model           string   `json:"model" yaml:"model" validate:"required"`
	Year            int      `json:"year" yaml:"year" validate:"gte=1990"`
	Price           float64  `json:"price" yaml:"price" validate:"gt=0"`
	Type            string   `json:"type" yaml:"type" validate:"oneof=sedan suv hatchback coupe truck convertible"`
	FuelType        string   `json:"fuelType" yaml:"fuelType" validate:"oneof=gasoline hybrid electric diesel"`
	FuelEfficiency  float64  `json:"fuelEfficiency" yaml:"fuelEfficiency" validate:"gt=0"` // mpg
	SafetyRating    int      `json:"safetyRating" yaml:"safetyRating" validate:"min=1,max=5"`
	SeatingCapacity int      `json:"seatingCapacity" yaml:"seatingCapacity" validate:"gte=2"`
	Transmission    string   `json:"transmission" yaml:"transmission" validate:"oneof=manual automatic cvt"`
	Drivetrain      string   `json:"drivetrain" yaml:"drivetrain" validate:"oneof=fwd rwd awd 4wd"`
	Features        []string `json:"features" yaml:"features"`
	Pros            []string `json:"pros" yaml:"pros"`
	Cons            []string `json:"cons" yaml:"cons"`
	Image           string   `json:"image,omitempty" yaml:"image"`
	Brand           string   `json:"brand" yaml:"brand"`
	Segment         string   `json:"segment" yaml:"segment" validate:"oneof=luxury economy sport family"`
	Reliability     int      `json:"reliability" yaml:"reliability" validate:"min=1,max=10"`
	MaintenanceCost string   `json:"maintenanceCost" yaml:"maintenanceCost" validate:"oneof=low medium high"`
	ResaleValue     int      `json:"resaleValue" yaml:"resaleValue" validate:"min=1,max=10"`
}

// DisplayName returns "Year Make Model".
func (c *Car) DisplayName() string {
	return strconv.Itoa(c.Year) + " " + c.Make + " " + c.Model
}

// HasFeature reports whether the car lists the given feature.
func (c *Car) HasFeature(feature string) bool {
	return slices.Contains(c.Features, feature)
}
