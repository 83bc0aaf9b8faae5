package ranking

import (
	"fmt"
	"math/rand/v2"

	"github.com/jonathan/car-advisor/internal/types"
)

// Ranking modes.
const (
	ModeSimple   = "simple"
	ModeEnsemble = "ensemble"
)

// ErrUnknownMode is returned by Rank for a mode other than ModeSimple or ModeEnsemble.
var ErrUnknownMode = fmt.Errorf("mode must be %q or %q", ModeSimple, ModeEnsemble)

// ValidMode reports whether mode names a ranking mode.
func ValidMode(mode string) bool {
	return mode == ModeSimple || mode == ModeEnsemble
}

// Rank runs the ranker selected by mode. rng only affects ModeEnsemble.
func Rank(cars []types.Car, prefs *types.UserPreferences, mode string, limit int, rng *rand.Rand) ([]types.CarRecommendation, error) {
	switch mode {
	case ModeSimple:
		return TopRecommendations(cars, prefs, limit)
	case ModeEnsemble:
		return Ensemble(cars, prefs, EnsembleOptions{Limit: limit, Rand: rng})
	default:
		return nil, fmt.Errorf("%w: got %q", ErrUnknownMode, mode)
	}
}

// SeededRand returns a deterministic source for seed.
func SeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
