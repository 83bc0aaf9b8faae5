package advisor

import (
	"context"
	"strings"

	"github.com/jonathan/car-advisor/internal/llm"
	"github.com/jonathan/car-advisor/internal/types"
	"github.com/jonathan/car-advisor/internal/validation"
	schemafiles "github.com/jonathan/car-advisor/schemas"
)

const recommendFallbackAdvice = "I apologize, but I'm having trouble processing your request right now. " +
	"Please try again or contact support."

// Recommend asks the model for 3-5 personalized picks. An unreachable model
// yields ErrUpstream; an unusable reply yields no picks and an apology.
func (s *Service) Recommend(ctx context.Context, req *types.AdvisorRecommendationRequest) (*types.AdvisorRecommendationResponse, error) {
	if req == nil {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "preferences", Tag: "required", Message: "is required"}}}
	}
	err := validate(req, func(verr *validation.Error) {
		checkBudget(verr, "preferences.budget", req.Preferences.Budget.Min, req.Preferences.Budget.Max)
	})
	if err != nil {
		return nil, err
	}

	p := req.Preferences
	prompt, err := s.render("recommendations", map[string]string{
		"Budget":            s.cfg.Currency + " " + formatBudget(p.Budget),
		"BodyTypes":         joinOr(p.BodyType, "Any"),
		"FuelTypes":         joinOr(p.FuelType, "Any"),
		"Transmission":      orDefault(p.Transmission, "Any"),
		"Features":          joinOr(p.Features, "Standard features"),
		"PrimaryUse":        orDefault(p.PrimaryUse, "General driving"),
		"DrivingExperience": orDefault(p.DrivingExperience, "Not specified"),
		"PhysicalNeeds":     joinOr(p.PhysicalNeeds, "None specified"),
		"Location":          orDefault(p.Location, s.cfg.Market),
		"Answers":           formatAnswered(req.PreviousAnswers),
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, upstream("recommendations", err)
	}

	resp := &types.AdvisorRecommendationResponse{}
	if err := s.decode(schemafiles.Recommendations, raw, resp); err != nil {
		fellBack(ctx, "recommendations", "invalid_response", err)
		resp = &types.AdvisorRecommendationResponse{
			Recommendations:  []types.AdvisorPick{},
			AdditionalAdvice: recommendFallbackAdvice,
			NextSteps:        []string{},
			Error:            invalidResponseError,
		}
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []types.AdvisorPick{}
	}
	if resp.NextSteps == nil {
		resp.NextSteps = []string{}
	}
	resp.RequestID = s.newID()
	return resp, nil
}

func formatAnswered(answers []types.AnsweredQuestion) string {
	if len(answers) == 0 {
		return "None"
	}
	blocks := make([]string, len(answers))
	for i, qa := range answers {
		blocks[i] = "Q: " + qa.Question + "\nA: " + qa.Answer
	}
	return strings.Join(blocks, "\n\n")
}
