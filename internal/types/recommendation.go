package types

// CarRecommendation is a catalog car scored against a set of preferences.
type CarRecommendation struct {
	Car
	MatchScore int      `json:"matchScore"`
	Reasons    []string `json:"reasons"`
	Warnings   []string `json:"warnings"`

	// Set only by the ensemble ranker.
	SimilarityScore *float64 `json:"similarityScore,omitempty"`
	HybridScore     *float64 `json:"hybridScore,omitempty"`
}
