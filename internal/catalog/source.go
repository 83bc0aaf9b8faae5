package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/car-advisor/internal/cache"
	"github.com/jonathan/car-advisor/internal/types"
)

// DefaultCacheTTL is how long a fetched car list is reused.
const DefaultCacheTTL = 5 * time.Minute

const cacheKey = "catalog:cars"

// Source loads cars from an external store such as Postgres.
type Source interface {
	ListCars(ctx context.Context) ([]types.Car, error)
}

// CarGetter is a Source that can fetch one car by id. It returns nil, nil when
// no car matches.
type CarGetter interface {
	GetCar(ctx context.Context, id string) (*types.Car, error)
}

// CachedSource is a Provider that reads from a Source through a cache.
// Fetched records are validated before they are cached.
type CachedSource struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
}

// NewCachedSource wraps source. A non-positive ttl uses DefaultCacheTTL.
func NewCachedSource(source Source, c cache.Cache, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{source: source, cache: c, ttl: ttl}
}

// Cars implements Provider.
func (s *CachedSource) Cars(ctx context.Context) ([]types.Car, error) {
	cars, err := cache.GetOrCompute(ctx, s.cache, cacheKey, s.ttl, func(ctx context.Context) ([]types.Car, error) {
		cars, err := s.source.ListCars(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := New(cars); err != nil {
			return nil, err
		}
		return cars, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load cars: %w", err)
	}
	return cars, nil
}

// Car implements Finder. Sources that implement CarGetter are asked directly;
// otherwise the cached list is searched.
func (s *CachedSource) Car(ctx context.Context, id string) (types.Car, bool, error) {
	getter, ok := s.source.(CarGetter)
	if !ok {
		cars, err := s.Cars(ctx)
		if err != nil {
			return types.Car{}, false, err
		}
		car, found := FindByID(cars, id)
		return car, found, nil
	}

	car, err := getter.GetCar(ctx, id)
	if err != nil {
		return types.Car{}, false, fmt.Errorf("failed to load car %s: %w", id, err)
	}
	if car == nil {
		return types.Car{}, false, nil
	}
	if _, err := New([]types.Car{*car}); err != nil {
		return types.Car{}, false, err
	}
	return *car, true, nil
}

// Invalidate drops the cached car list.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, cacheKey)
}
