// Package catalog provides the read-only set of cars available for recommendation.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/car-advisor/internal/types"
	"github.com/jonathan/car-advisor/internal/validation"
	"gopkg.in/yaml.v3"
)

//go:embed cars.yaml
var builtinYAML []byte

// Provider supplies the current list of cars.
type Provider interface {
	Cars(ctx context.Context) ([]types.Car, error)
}

// Finder looks up a single car without listing the whole catalog.
type Finder interface {
	Car(ctx context.Context, id string) (types.Car, bool, error)
}

// Lookup returns the car with id from p, using p's Finder when it has one.
func Lookup(ctx context.Context, p Provider, id string) (types.Car, bool, error) {
	if f, ok := p.(Finder); ok {
		return f.Car(ctx, id)
	}
	cars, err := p.Cars(ctx)
	if err != nil {
		return types.Car{}, false, err
	}
	car, ok := FindByID(cars, id)
	return car, ok, nil
}

// List returns the cars from p matching f, in catalog order.
func List(ctx context.Context, p Provider, f CarFilter) ([]types.Car, error) {
	if c, ok := p.(*Catalog); ok {
		return c.Filter(f), nil
	}
	cars, err := p.Cars(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCars(cars, f), nil
}

// Catalog is an immutable set of validated cars.
type Catalog struct {
	cars []types.Car
	byID map[string]int
}

type catalogFile struct {
	Cars []types.Car `yaml:"cars"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the built-in catalog, parsed and validated on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Parse(builtinYAML)
	})
	return defaultCatalog, defaultErr
}

// Parse decodes a YAML catalog document and validates it.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(file.Cars)
}

// New validates cars and builds a catalog. Every record must satisfy the Car
// field constraints and IDs must be unique.
func New(cars []types.Car) (*Catalog, error) {
	c := &Catalog{
		cars: make([]types.Car, len(cars)),
		byID: make(map[string]int, len(cars)),
	}
	copy(c.cars, cars)

	for i := range c.cars {
		car := &c.cars[i]
		if err := validation.Struct(car); err != nil {
			return nil, fmt.Errorf("invalid car %q at index %d: %w", car.ID, i, err)
		}
		if prev, dup := c.byID[car.ID]; dup {
			return nil, fmt.Errorf("duplicate car id %q at index %d (first seen at %d)", car.ID, i, prev)
		}
		c.byID[car.ID] = i
	}
	return c, nil
}

// Cars returns a copy of the catalog. It implements Provider.
func (c *Catalog) Cars(_ context.Context) ([]types.Car, error) {
	return c.All(), nil
}

// All returns a copy of every car in catalog order.
func (c *Catalog) All() []types.Car {
	out := make([]types.Car, len(c.cars))
	copy(out, c.cars)
	return out
}

// Len returns the number of cars.
func (c *Catalog) Len() int {
	return len(c.cars)
}

// ByID returns the car with the given ID.
func (c *Catalog) ByID(id string) (types.Car, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.Car{}, false
	}
	return c.cars[i], true
}

// Car implements Finder.
func (c *Catalog) Car(_ context.Context, id string) (types.Car, bool, error) {
	car, ok := c.ByID(id)
	return car, ok, nil
}

// Filter returns the cars matching f in catalog order.
func (c *Catalog) Filter(f CarFilter) []types.Car {
	return FilterCars(c.cars, f)
}

// CarFilter selects cars for listing. Zero-valued fields match everything.
type CarFilter struct {
	Make     string
	Type     string
	FuelType string
	MinPrice float64
	MaxPrice float64
}

// Matches reports whether car satisfies the filter. Make matches case-insensitively.
func (f CarFilter) Matches(car *types.Car) bool {
	if f.Make != "" && !strings.EqualFold(f.Make, car.Make) {
		return false
	}
	if f.Type != "" && f.Type != car.Type {
		return false
	}
	if f.FuelType != "" && f.FuelType != car.FuelType {
		return false
	}
	if f.MinPrice > 0 && car.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && car.Price > f.MaxPrice {
		return false
	}
	return true
}

// FilterCars returns the cars matching f, preserving order. The result is never nil.
func FilterCars(cars []types.Car, f CarFilter) []types.Car {
	out := make([]types.Car, 0, len(cars))
	for i := range cars {
		if f.Matches(&cars[i]) {
			out = append(out, cars[i])
		}
	}
	return out
}

// FindByID searches cars for id.
func FindByID(cars []types.Car, id string) (types.Car, bool) {
	for i := range cars {
		if cars[i].ID == id {
			return cars[i], true
		}
	}
	return types.Car{}, false
}
