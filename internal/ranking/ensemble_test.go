package ranking

import (
	"fmt"
	"testing"

	"github.com/jonathan/car-advisor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsemble_Properties(t *testing.T) {
	prefs := valuePrefs()
	cars := clusterFixture(25)
	cars = append(cars, mixedCatalog()...)

	for _, limit := range []int{1, 3, 5, 10, 50} {
		for seed := uint64(0); seed < 5; seed++ {
			t.Run(fmt.Sprintf("limit=%d/seed=%d", limit, seed), func(t *testing.T) {
				recs, err := Ensemble(cars, &prefs, EnsembleOptions{Limit: limit, Rand: seeded(seed)})
				require.NoError(t, err)

				assert.LessOrEqual(t, len(recs), limit)
				assertRanked(t, recs)
			})
		}
	}
}

func TestEnsemble_ContentEntriesAreAnnotated(t *testing.T) {
	prefs := valuePrefs()

	recs, err := Ensemble(mixedCatalog(), &prefs, EnsembleOptions{Limit: 10, Rand: seeded(3)})
	require.NoError(t, err)
	require.NotEmpty(t, recs)

	top := recs[0]
	assert.Equal(t, "economy-sedan", top.ID)
	require.NotNil(t, top.SimilarityScore)
	require.NotNil(t, top.HybridScore)
	assert.InDelta(t, 0.925, *top.SimilarityScore, 0.001)
	assert.InDelta(t, 85.5, *top.HybridScore, 0.01)
	assert.Contains(t, top.Reasons, "Excellent match for your preferences")
	assert.Contains(t, top.Reasons, "Excellent reliability score (8/10)")
	assert.Equal(t, []string{
		"Within your budget of $15,000 - $25,000",
		"Matches your preferred sedan body style",
	}, top.Reasons[:2])
}

func TestEnsemble_DiversePlaceholderForLowScorers(t *testing.T) {
	prefs := valuePrefs()
	good := economySedan()
	other := economySedan()
	other.ID = "second"
	cars := []types.Car{good, other, poorMatch()}

	recs, err := Ensemble(cars, &prefs, EnsembleOptions{Limit: 10, Rand: seeded(1)})
	require.NoError(t, err)

	require.Len(t, recs, 3)
	last := recs[2]
	assert.Equal(t, "poor-truck", last.ID)
	assert.LessOrEqual(t, last.MatchScore, EnsembleMinScore)
	assert.Equal(t, []string{diverseReason}, last.Reasons)
	assert.Empty(t, last.Warnings)
	assert.Nil(t, last.SimilarityScore)
}

func TestEnsemble_Warnings(t *testing.T) {
	prefs := valuePrefs()
	car := economySedan()
	car.Reliability = 4

	recs, err := Ensemble([]types.Car{car}, &prefs, EnsembleOptions{Limit: 3, Rand: seeded(1)})
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Warnings, "Below-average reliability (4/10)")
}

func TestEnsemble_EcoAndPerformanceReasons(t *testing.T) {
	prefs := valuePrefs()
	prefs.FuelType = []string{types.FuelElectric}
	prefs.Priorities = []string{types.PriorityPerformance}
	car := economySedan()
	car.FuelType = types.FuelElectric
	car.Type = types.BodyCoupe
	car.Segment = types.SegmentSport

	recs, err := Ensemble([]types.Car{car}, &prefs, EnsembleOptions{Limit: 1, Rand: seeded(1)})
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Contains(t, recs[0].Reasons, "Eco-friendly choice matching your environmental priorities")
	assert.Contains(t, recs[0].Reasons, "High-performance vehicle for driving enthusiasts")
}

func TestEnsemble_ReproducibleWithSeed(t *testing.T) {
	prefs := valuePrefs()
	cars := clusterFixture(30)

	first, err := Ensemble(cars, &prefs, EnsembleOptions{Limit: 6, Rand: seeded(9)})
	require.NoError(t, err)
	second, err := Ensemble(cars, &prefs, EnsembleOptions{Limit: 6, Rand: seeded(9)})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEnsemble_DefaultLimit(t *testing.T) {
	prefs := valuePrefs()

	recs, err := Ensemble(clusterFixture(40), &prefs, EnsembleOptions{Rand: seeded(2)})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(recs), DefaultEnsembleLimit)
}
