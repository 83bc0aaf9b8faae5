package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// FlightTimeout bounds a shared computation. Flights do not follow any single
// caller's cancellation, so this is their only deadline.
const FlightTimeout = 2 * time.Minute

// Outcome reports how Lookup produced its value.
type Outcome int

const (
	// Hit means the value was read from the cache.
	Hit Outcome = iota
	// Miss means this caller computed the value.
	Miss
	// Shared means this caller waited on another caller's computation.
	Shared
)

// String returns the metric label for o.
func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}

var group singleflight.Group

// GetOrCompute returns the cached value for key, or calls fn, stores its result
// for ttl and returns it. Concurrent callers for the same key share one call to fn.
// Cache read and write failures fall through to fn; errors from fn are returned and
// nothing is stored.
func GetOrCompute[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	v, _, err := Lookup(ctx, c, key, ttl, fn)
	return v, err
}

// Lookup is GetOrCompute that also reports where the value came from.
//
// fn runs detached from the caller's cancellation and bounded by FlightTimeout, so one
// caller giving up does not fail the others waiting on the same key. A cancelled caller
// returns ctx.Err() immediately while the flight finishes for everyone else.
func Lookup[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, Outcome, error) {
	var zero T

	if raw, err := c.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, Hit, nil
		}
	} else if !errors.Is(err, ErrCacheMiss) && ctx.Err() != nil {
		return zero, Miss, ctx.Err()
	}

	// Flights are scoped to the cache instance and result type.
	flight := fmt.Sprintf("%p|%T|%s", c, zero, key)
	leader := false
	ch := group.DoChan(flight, func() (any, error) {
		leader = true
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FlightTimeout)
		defer cancel()

		v, err := fn(fctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(v); err == nil {
			_ = c.Set(fctx, key, raw, ttl)
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, Miss, fmt.Errorf("compute %s: %w", key, ctx.Err())
	case res := <-ch:
		outcome := Shared
		if leader {
			outcome = Miss
		}
		if res.Err != nil {
			return zero, outcome, fmt.Errorf("compute %s: %w", key, res.Err)
		}
		v, ok := res.Val.(T)
		if !ok {
			return zero, outcome, fmt.Errorf("compute %s: unexpected result type %T", key, res.Val)
		}
		return v, outcome, nil
	}
}
