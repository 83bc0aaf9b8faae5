package server

import (
	"math/rand/v2"
	"net/http"

	"github.com/jonathan/car-advisor/internal/metrics"
	"github.com/jonathan/car-advisor/internal/ranking"
	"github.com/jonathan/car-advisor/internal/types"
	"github.com/jonathan/car-advisor/internal/validation"
)

// RecommendationRequest is the body of POST /api/recommendations
type RecommendationRequest struct {
	Preferences *types.UserPreferences `json:"preferences"`
	Mode        string                 `json:"mode,omitempty"`
	Limit       int                    `json:"limit,omitempty"`
	// Seed makes ensemble clustering reproducible.
	Seed *uint64 `json:"seed,omitempty"`
}

// RecommendationResponse is the response for POST /api/recommendations
type RecommendationResponse struct {
	Recommendations []types.CarRecommendation `json:"recommendations"`
	Count           int                       `json:"count"`
	Mode            string                    `json:"mode"`
}

// handleRecommendations ranks the catalog against the submitted preferences
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	mode, limit, err := s.normalizeRanking(&req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cars, err := s.cars.Cars(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var rng *rand.Rand
	if req.Seed != nil {
		rng = ranking.SeededRand(*req.Seed)
	}
	recs, err := ranking.Rank(cars, req.Preferences, mode, limit, rng)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []types.CarRecommendation{}
	}

	metrics.RecommendationsServed.WithLabelValues(mode).Inc()
	metrics.RecommendationResults.WithLabelValues(mode).Observe(float64(len(recs)))

	s.jsonResponse(w, http.StatusOK, RecommendationResponse{
		Recommendations: recs,
		Count:           len(recs),
		Mode:            mode,
	})
}

// normalizeRanking applies defaults and clamps the limit to MaxLimit.
func (s *Server) normalizeRanking(req *RecommendationRequest) (string, int, error) {
	verr := &validation.Error{}

	mode := req.Mode
	if mode == "" {
		mode = s.cfg.DefaultMode
	}
	if !ranking.ValidMode(mode) {
		verr.Add("mode", "oneof", "must be one of: simple ensemble")
	}

	limit := req.Limit
	switch {
	case limit < 0:
		verr.Add("limit", "gte", "must be greater than or equal to 0")
	case limit == 0:
		limit = s.cfg.DefaultLimit
	case limit > s.cfg.MaxLimit:
		limit = s.cfg.MaxLimit
	}

	if len(verr.Fields) > 0 {
		return "", 0, verr
	}
	return mode, limit, nil
}
