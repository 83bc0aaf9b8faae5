package advisor

import (
	"context"
	"strings"

	"github.com/jonathan/car-advisor/internal/llm"
	"github.com/jonathan/car-advisor/internal/types"
	"github.com/jonathan/car-advisor/internal/validation"
	schemafiles "github.com/jonathan/car-advisor/schemas"
)

// Questionnaire generates the next batch of questions for a stage. Any model
// failure degrades to a fixed question set for that stage.
func (s *Service) Questionnaire(ctx context.Context, req *types.QuestionnaireRequest) (*types.QuestionnaireResponse, error) {
	if req == nil {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "stage", Tag: "required", Message: "is required"}}}
	}
	err := validate(req, func(verr *validation.Error) {
		if req.CurrentContext != nil && req.CurrentContext.Budget != nil {
			checkBudget(verr, "currentContext.budget", req.CurrentContext.Budget.Min, req.CurrentContext.Budget.Max)
		}
	})
	if err != nil {
		return nil, err
	}

	var prompt string
	if req.Stage == types.StageInitial {
		prompt, err = s.render("questionnaire-initial", nil)
	} else {
		prompt, err = s.render("questionnaire-followup", map[string]string{
			"Answers": formatAnswers(req.PreviousAnswers),
			"Context": questionnaireContext(req.CurrentContext),
		})
	}
	if err != nil {
		return nil, err
	}

	resp := &types.QuestionnaireResponse{}
	raw, err := s.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		fellBack(ctx, "questionnaire", "llm_error", err)
		resp = FallbackQuestions(req.Stage)
	} else if err := s.decode(schemafiles.Questionnaire, raw, resp); err != nil {
		fellBack(ctx, "questionnaire", "invalid_response", err)
		resp = FallbackQuestions(req.Stage)
	}
	resp.RequestID = s.newID()
	return resp, nil
}

// FallbackQuestions returns the canned question set for a stage.
func FallbackQuestions(stage string) *types.QuestionnaireResponse {
	if stage != types.StageInitial {
		return &types.QuestionnaireResponse{
			Questions:       []types.Question{},
			AnalysisInsight: "Please try again to get personalized follow-up questions",
			NextSteps:       "We'll analyze your preferences to suggest the best cars",
			Fallback:        true,
		}
	}

	return &types.QuestionnaireResponse{
		Questions: []types.Question{
			{
				ID:       "budget_range",
				Question: "What is your comfortable budget for your new car?",
				Type:     "radio",
				Options: []types.QuestionOption{
					{Value: "3-5", Label: "₹3-5 Lakhs"},
					{Value: "5-8", Label: "₹5-8 Lakhs"},
					{Value: "8-15", Label: "₹8-15 Lakhs"},
					{Value: "15+", Label: "Above ₹15 Lakhs"},
				},
				Required: true,
				HelpText: "Consider the total on-road price",
			},
		},
		ProgressInfo: &types.ProgressInfo{
			CurrentStep:       1,
			TotalSteps:        6,
			CompletionMessage: "Let's find the perfect car for you",
		},
		Fallback: true,
	}
}

func formatAnswers(answers []types.QuestionAnswer) string {
	if len(answers) == 0 {
		return "None"
	}
	blocks := make([]string, len(answers))
	for i, qa := range answers {
		blocks[i] = "Q: " + qa.Question + "\nA: " + qa.Answer
	}
	return strings.Join(blocks, "\n\n")
}

func questionnaireContext(qc *types.QuestionnaireContext) string {
	if qc == nil {
		return "None"
	}
	return toJSON(qc)
}
