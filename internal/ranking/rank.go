package ranking

import (
	"sort"

	"github.com/jonathan/car-advisor/internal/types"
)

// Score cutoffs. A car must score strictly above the cutoff to be kept.
const (
	SimpleMinScore   = 20
	EnsembleMinScore = 30
)

// Recommend scores every car, keeps those above SimpleMinScore and returns them
// sorted by match score, highest first. No qualifying cars yields an empty slice.
func Recommend(cars []types.Car, prefs *types.UserPreferences) ([]types.CarRecommendation, error) {
	if err := validateInput(cars, prefs); err != nil {
		return nil, err
	}

	recs := make([]types.CarRecommendation, 0, len(cars))
	for i := range cars {
		rec := recommendation(&cars[i], Score(&cars[i], prefs))
		if rec.MatchScore > SimpleMinScore {
			recs = append(recs, rec)
		}
	}

	sortByScore(recs)
	return recs, nil
}

// TopRecommendations returns at most limit results of Recommend.
func TopRecommendations(cars []types.Car, prefs *types.UserPreferences, limit int) ([]types.CarRecommendation, error) {
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	recs, err := Recommend(cars, prefs)
	if err != nil {
		return nil, err
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func recommendation(car *types.Car, result ScoreResult) types.CarRecommendation {
	return types.CarRecommendation{
		Car:        *car,
		MatchScore: result.MatchScore,
		Reasons:    result.Reasons,
		Warnings:   result.Warnings,
	}
}

// sortByScore orders by match score descending; equal scores keep their input order.
func sortByScore(recs []types.CarRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].MatchScore > recs[j].MatchScore
	})
}
