package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/car-advisor/internal/types"
)

const carColumns = `id, make, model, year, price::float8, body_type, fuel_type, fuel_efficiency,
	safety_rating, seating_capacity, transmission, drivetrain, features, pros, cons,
	image, brand, segment, reliability, maintenance_cost, resale_value`

// CarStore reads and writes catalog cars. It satisfies catalog.Source and
// catalog.CarGetter.
type CarStore struct {
	db *DB
}

// NewCarStore creates a store on db
func NewCarStore(db *DB) *CarStore {
	return &CarStore{db: db}
}

func scanCar(row pgx.Row) (*types.Car, error) {
	var c types.Car
	err := row.Scan(&c.ID, &c.Make, &c.Model, &c.Year, &c.Price, &c.Type, &c.FuelType, &c.FuelEfficiency,
		&c.SafetyRating, &c.SeatingCapacity, &c.Transmission, &c.Drivetrain, &c.Features, &c.Pros, &c.Cons,
		&c.Image, &c.Brand, &c.Segment, &c.Reliability, &c.MaintenanceCost, &c.ResaleValue)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCars returns every car ordered by id
func (s *CarStore) ListCars(ctx context.Context) ([]types.Car, error) {
	rows, err := s.db.pool.Query(ctx, `SELECT `+carColumns+` FROM cars ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer rows.Close()

	cars := make([]types.Car, 0)
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		cars = append(cars, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cars: %w", err)
	}
	return cars, nil
}

// GetCar retrieves a car by id. Returns nil, nil when no car matches.
func (s *CarStore) GetCar(ctx context.Context, id string) (*types.Car, error) {
	c, err := scanCar(s.db.pool.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return c, nil
}

// UpsertCars inserts or replaces cars in a single transaction
func (s *CarStore) UpsertCars(ctx context.Context, cars []types.Car) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for i := range cars {
		c := &cars[i]
		batch.Queue(
			`INSERT INTO cars (id, make, model, year, price, body_type, fuel_type, fuel_efficiency,
				safety_rating, seating_capacity, transmission, drivetrain, features, pros, cons,
				image, brand, segment, reliability, maintenance_cost, resale_value)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
			 ON CONFLICT (id) DO UPDATE SET
				make = EXCLUDED.make, model = EXCLUDED.model, year = EXCLUDED.year, price = EXCLUDED.price,
				body_type = EXCLUDED.body_type, fuel_type = EXCLUDED.fuel_type,
				fuel_efficiency = EXCLUDED.fuel_efficiency, safety_rating = EXCLUDED.safety_rating,
				seating_capacity = EXCLUDED.seating_capacity, transmission = EXCLUDED.transmission,
				drivetrain = EXCLUDED.drivetrain, features = EXCLUDED.features, pros = EXCLUDED.pros,
				cons = EXCLUDED.cons, image = EXCLUDED.image, brand = EXCLUDED.brand,
				segment = EXCLUDED.segment, reliability = EXCLUDED.reliability,
				maintenance_cost = EXCLUDED.maintenance_cost, resale_value = EXCLUDED.resale_value,
				updated_at = NOW()`,
			c.ID, c.Make, c.Model, c.Year, c.Price, c.Type, c.FuelType, c.FuelEfficiency,
			c.SafetyRating, c.SeatingCapacity, c.Transmission, c.Drivetrain,
			nonNil(c.Features), nonNil(c.Pros), nonNil(c.Cons),
			c.Image, c.Brand, c.Segment, c.Reliability, c.MaintenanceCost, c.ResaleValue,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range cars {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to upsert car %s: %w", cars[i].ID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cars: %w", err)
	}
	return nil
}

// DeleteCar removes a car by id
func (s *CarStore) DeleteCar(ctx context.Context, id string) error {
	if _, err := s.db.pool.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete car: %w", err)
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
