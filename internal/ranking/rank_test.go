package ranking

import (
	"errors"
	"testing"

	"github.com/jonathan/car-advisor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// poorMatch is a car that fails nearly every preference in valuePrefs.
func poorMatch() types.Car {
	car := economySedan()
	car.ID = "poor-truck"
	car.Price = 200000
	car.Type = types.BodyTruck
	car.FuelType = types.FuelDiesel
	car.FuelEfficiency = 10
	car.SafetyRating = 2
	car.SeatingCapacity = 2
	car.Segment = types.SegmentSport
	car.Reliability = 5
	car.MaintenanceCost = "high"
	return car
}

func mixedCatalog() []types.Car {
	a := economySedan()

	b := economySedan()
	b.ID = "pricey-sedan"
	b.Price = 27500

	c := economySedan()
	c.ID = "family-suv"
	c.Type = types.BodySUV
	c.Segment = types.SegmentFamily
	c.SeatingCapacity = 7
	c.Price = 24000

	d := economySedan()
	d.ID = "cheap-hatch"
	d.Type = types.BodyHatchback
	d.Price = 12000
	d.FuelEfficiency = 40

	return []types.Car{poorMatch(), b, a, c, d}
}

func assertRanked(t *testing.T, recs []types.CarRecommendation) {
	t.Helper()
	seen := make(map[string]bool)
	for i, rec := range recs {
		assert.False(t, seen[rec.ID], "duplicate %s", rec.ID)
		seen[rec.ID] = true
		if i > 0 {
			assert.GreaterOrEqual(t, recs[i-1].MatchScore, rec.MatchScore, "sorted at %d", i)
		}
	}
}

func TestRecommend(t *testing.T) {
	prefs := valuePrefs()

	recs, err := Recommend(mixedCatalog(), &prefs)
	require.NoError(t, err)

	assertRanked(t, recs)
	require.Len(t, recs, 4)
	assert.Equal(t, "economy-sedan", recs[0].ID)
	for _, rec := range recs {
		assert.Greater(t, rec.MatchScore, SimpleMinScore)
		assert.NotEqual(t, "poor-truck", rec.ID)
		assert.Nil(t, rec.SimilarityScore)
	}
}

func TestRecommend_NoMatchesIsEmptyNotError(t *testing.T) {
	prefs := valuePrefs()

	recs, err := Recommend([]types.Car{poorMatch()}, &prefs)
	require.NoError(t, err)

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommend_StableForEqualScores(t *testing.T) {
	first := economySedan()
	second := economySedan()
	second.ID = "twin"
	prefs := valuePrefs()

	recs, err := Recommend([]types.Car{first, second}, &prefs)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "economy-sedan", recs[0].ID)
	assert.Equal(t, "twin", recs[1].ID)
}

func TestTopRecommendations(t *testing.T) {
	prefs := valuePrefs()

	for _, limit := range []int{1, 2, 4, 10} {
		recs, err := TopRecommendations(mixedCatalog(), &prefs, limit)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(recs), limit)
		assertRanked(t, recs)
	}
}

func TestRankingInputErrors(t *testing.T) {
	prefs := valuePrefs()
	bad := valuePrefs()
	bad.Budget = types.BudgetRange{Min: 30000, Max: 10000}

	_, err := Recommend(nil, &prefs)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = TopRecommendations(mixedCatalog(), &prefs, 0)
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = Ensemble(mixedCatalog(), &prefs, EnsembleOptions{Limit: -1})
	assert.ErrorIs(t, err, ErrInvalidLimit)

	_, err = Recommend(mixedCatalog(), &bad)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "budget.max", verr.Fields[0].Field)
}

func TestValidatePreferences(t *testing.T) {
	tests := []struct {
		name      string
		edit      func(p *types.UserPreferences)
		wantField string
	}{
		{"valid", func(p *types.UserPreferences) {}, ""},
		{"negative min", func(p *types.UserPreferences) { p.Budget.Min = -1 }, "budget.min"},
		{"max below min", func(p *types.UserPreferences) { p.Budget.Max = 100 }, "budget.max"},
		{"unknown importance", func(p *types.UserPreferences) { p.SafetyRating.Importance = "critical" }, "safetyRating.importance"},
		{"unknown body type", func(p *types.UserPreferences) { p.CarType = []string{"minivan"} }, "carType[0]"},
		{"unknown priority", func(p *types.UserPreferences) { p.Priorities = []string{"speed"} }, "priorities[0]"},
		{"unknown usage", func(p *types.UserPreferences) { p.Usage = "racing" }, "usage"},
		{"negative seating", func(p *types.UserPreferences) { p.SeatingCapacity = -1 }, "seatingCapacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := valuePrefs()
			tt.edit(&prefs)

			err := ValidatePreferences(&prefs)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Fields)
			assert.Equal(t, tt.wantField, verr.Fields[0].Field)
		})
	}

	assert.Error(t, ValidatePreferences(nil))
}
