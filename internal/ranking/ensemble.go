package ranking

import (
	"fmt"
	"math/rand/v2"

	"github.com/jonathan/car-advisor/internal/types"
)

const (
	// ensembleClusters is the number of price/efficiency groups used for diversity.
	ensembleClusters = 3
	// DefaultEnsembleLimit applies when EnsembleOptions.Limit is zero.
	DefaultEnsembleLimit = 10

	diverseReason = "Diverse recommendation from similar vehicle cluster"
)

// EnsembleOptions configures Ensemble.
type EnsembleOptions struct {
	// Limit caps the number of results. Zero means DefaultEnsembleLimit.
	Limit int
	// Rand seeds centroid selection. Nil uses a time-seeded source.
	Rand *rand.Rand
}

// Ensemble blends a content-based pass with one pick list per price/efficiency
// cluster, removes duplicates (content-based entries win) and returns the top
// results by match score.
func Ensemble(cars []types.Car, prefs *types.UserPreferences, opts EnsembleOptions) ([]types.CarRecommendation, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultEnsembleLimit
	}
	if err := validateLimit(limit); err != nil {
		return nil, err
	}
	if err := validateInput(cars, prefs); err != nil {
		return nil, err
	}

	contentBased, byID := contentPass(cars, prefs)

	perCluster := (limit + ensembleClusters - 1) / ensembleClusters
	var diverse []types.CarRecommendation
	for _, group := range Cluster(cars, ensembleClusters, opts.Rand) {
		picks := make([]types.CarRecommendation, 0, len(group))
		for i := range group {
			if rec, ok := byID[group[i].ID]; ok {
				picks = append(picks, rec)
				continue
			}
			result := Score(&group[i], prefs)
			picks = append(picks, types.CarRecommendation{
				Car:        group[i],
				MatchScore: result.MatchScore,
				Reasons:    []string{diverseReason},
				Warnings:   []string{},
			})
		}
		sortByScore(picks)
		if len(picks) > perCluster {
			picks = picks[:perCluster]
		}
		diverse = append(diverse, picks...)
	}

	combined := make([]types.CarRecommendation, 0, len(contentBased)+len(diverse))
	seen := make(map[string]bool, len(cars))
	for _, rec := range append(contentBased, diverse...) {
		if seen[rec.ID] {
			continue
		}
		seen[rec.ID] = true
		combined = append(combined, rec)
	}

	sortByScore(combined)
	if len(combined) > limit {
		combined = combined[:limit]
	}
	return combined, nil
}

// contentPass scores every car, keeps those above EnsembleMinScore and annotates
// them with similarity and hybrid scores.
func contentPass(cars []types.Car, prefs *types.UserPreferences) ([]types.CarRecommendation, map[string]types.CarRecommendation) {
	user := UserVector(prefs)

	recs := make([]types.CarRecommendation, 0, len(cars))
	byID := make(map[string]types.CarRecommendation, len(cars))
	for i := range cars {
		car := &cars[i]
		rec := recommendation(car, Score(car, prefs))
		if rec.MatchScore <= EnsembleMinScore {
			continue
		}

		carVec := CarVector(car)
		similarity := CosineSimilarity(user, carVec)
		hybrid := HybridScore(car, prefs)
		rec.SimilarityScore = &similarity
		rec.HybridScore = &hybrid
		rec.Reasons, rec.Warnings = annotate(rec.Reasons, rec.Warnings, car, user, carVec, similarity)

		recs = append(recs, rec)
		byID[car.ID] = rec
	}

	sortByScore(recs)
	return recs, byID
}

// annotate appends similarity-derived reasons and warnings.
func annotate(reasons, warnings []string, car *types.Car, user, carVec Vector, similarity float64) ([]string, []string) {
	switch {
	case similarity > 0.8:
		reasons = append(reasons, "Excellent match for your preferences")
	case similarity > 0.6:
		reasons = append(reasons, "Good alignment with your needs")
	}
	if user[AxisEnvironmental] > 0.7 && carVec[AxisEnvironmental] > 0.7 {
		reasons = append(reasons, "Eco-friendly choice matching your environmental priorities")
	}
	if user[AxisPerformance] > 0.7 && carVec[AxisPerformance] > 0.7 {
		reasons = append(reasons, "High-performance vehicle for driving enthusiasts")
	}
	switch {
	case car.Reliability >= 8:
		reasons = append(reasons, fmt.Sprintf("Excellent reliability score (%d/10)", car.Reliability))
	case car.Reliability < 6:
		warnings = append(warnings, fmt.Sprintf("Below-average reliability (%d/10)", car.Reliability))
	}
	return reasons, warnings
}
