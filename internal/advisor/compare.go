package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jonathan/car-advisor/internal/llm"
	"github.com/jonathan/car-advisor/internal/types"
	"github.com/jonathan/car-advisor/internal/validation"
	schemafiles "github.com/jonathan/car-advisor/schemas"
)

const (
	compareFallbackMessage = "I apologize, but I'm having trouble generating the comparison right now. Please try again."
	invalidResponseError   = "Invalid AI response format"
	defaultFocus           = "Overall comparison for senior buyers"
)

// Compare asks the model for a structured comparison of 2 to 5 cars.
// An unreachable model yields ErrUpstream; an unusable reply yields a
// fallback comparison with Error set.
func (s *Service) Compare(ctx context.Context, req *types.CompareRequest) (*types.ComparisonResponse, error) {
	if req == nil {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "cars", Tag: "required", Message: "is required"}}}
	}
	err := validate(req, func(verr *validation.Error) {
		if req.UserContext != nil && req.UserContext.Budget != nil {
			checkBudget(verr, "userContext.budget", req.UserContext.Budget.Min, req.UserContext.Budget.Max)
		}
	})
	if err != nil {
		return nil, err
	}

	prompt, err := s.render("compare", map[string]string{
		"Cars":        formatCarList(req.Cars),
		"UserContext": s.formatCompareContext(req.UserContext),
		"FocusAreas":  joinOr(req.FocusAreas, defaultFocus),
	})
	if err != nil {
		return nil, err
	}

	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, upstream("compare", err)
	}

	resp := &types.ComparisonResponse{}
	if err := s.decode(schemafiles.Compare, raw, resp); err != nil {
		fellBack(ctx, "compare", "invalid_response", err)
		resp = &types.ComparisonResponse{
			Comparison: types.CarComparison{OverallRecommendation: compareFallbackMessage},
			Error:      invalidResponseError,
		}
	}
	resp.RequestID = s.newID()
	return resp, nil
}

func formatCarList(cars []types.CarRef) string {
	lines := make([]string, len(cars))
	for i, car := range cars {
		lines[i] = fmt.Sprintf("%d. %s", i+1, car.DisplayName())
	}
	return strings.Join(lines, "\n")
}

func (s *Service) formatCompareContext(uc *types.CompareContext) string {
	if uc == nil {
		return "Not provided"
	}

	var lines []string
	if uc.Budget != nil {
		lines = append(lines, "Budget: "+formatBudget(*uc.Budget))
	}
	if uc.PrimaryUse != "" {
		lines = append(lines, "Primary Use: "+uc.PrimaryUse)
	}
	if len(uc.SeniorNeeds) > 0 {
		lines = append(lines, "Senior-specific needs: "+strings.Join(uc.SeniorNeeds, ", "))
	}
	if uc.Location != "" {
		lines = append(lines, "Location: "+uc.Location)
	}
	if len(lines) == 0 {
		return "Not provided"
	}
	return strings.Join(lines, "\n")
}

func formatBudget(b types.Budget) string {
	return humanize.Commaf(b.Min) + " - " + humanize.Commaf(b.Max)
}
