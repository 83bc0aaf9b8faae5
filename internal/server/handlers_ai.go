package server

import (
	"context"
	"net/http"
)

// handleChat answers a free-form advisor question
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	serveAI(s, w, r, s.advisor.Chat)
}

// handleCompare compares two to five cars
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	serveAI(s, w, r, s.advisor.Compare)
}

// handleQuestionnaire generates the next questionnaire questions
func (s *Server) handleQuestionnaire(w http.ResponseWriter, r *http.Request) {
	serveAI(s, w, r, s.advisor.Questionnaire)
}

// handleAdvisorRecommendations asks the advisor for picks from a buyer profile
func (s *Server) handleAdvisorRecommendations(w http.ResponseWriter, r *http.Request) {
	serveAI(s, w, r, s.advisor.Recommend)
}

// serveAI decodes Req, calls the advisor and writes its reply. Advisor fallbacks are
// ordinary 200 replies; only validation and upstream errors become error responses.
func serveAI[Req, Resp any](s *Server, w http.ResponseWriter, r *http.Request, call func(context.Context, *Req) (*Resp, error)) {
	var req Req
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := call(r.Context(), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
