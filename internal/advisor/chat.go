package advisor

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonathan/car-advisor/internal/llm"
	"github.com/jonathan/car-advisor/internal/logging"
	"github.com/jonathan/car-advisor/internal/types"
	"github.com/jonathan/car-advisor/internal/validation"
)

const chatFallbackMessage = "I apologize, but I'm having trouble processing your question right now. " +
	"Please try asking again or rephrase your question."

var recommendationPattern = regexp.MustCompile(`(?i)recommend|suggest|consider|look at|try|best.*car`)

// ContainsRecommendations reports whether a reply reads like it suggests cars.
func ContainsRecommendations(reply string) bool {
	return recommendationPattern.MatchString(reply)
}

// Chat answers one user message in the context of the recent conversation.
// Model failures are not returned as errors: the reply is a fallback with Error set.
func (s *Service) Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	if req == nil {
		return nil, &validation.Error{Fields: []validation.FieldError{{Field: "message", Tag: "required", Message: "is required"}}}
	}
	if err := validate(req, nil); err != nil {
		return nil, err
	}

	prompt, err := s.chatPrompt(req)
	if err != nil {
		return nil, err
	}

	resp := &types.ChatResponse{RequestID: s.newID()}

	reply, err := s.client.GenerateContent(ctx, prompt, llm.TierStandard)
	reply = strings.TrimSpace(reply)
	switch {
	case err != nil:
		fellBack(ctx, "chat", "llm_error", err)
	case reply == "":
		fellBack(ctx, "chat", "empty_response", nil)
	default:
		resp.Message = reply
		resp.ContainsRecommendations = ContainsRecommendations(reply)
		resp.Timestamp = s.timestamp()
		logging.Ctx(ctx).Debug().
			Int("history", len(req.ConversationHistory)).
			Bool("contains_recommendations", resp.ContainsRecommendations).
			Msg("chat reply generated")
		return resp, nil
	}

	resp.Message = chatFallbackMessage
	resp.Error = true
	resp.Timestamp = s.timestamp()
	return resp, nil
}

func (s *Service) chatPrompt(req *types.ChatRequest) (string, error) {
	data := map[string]string{
		"Message":     req.Message,
		"History":     formatHistory(recentHistory(req.ConversationHistory, s.cfg.HistoryLimit)),
		"UserContext": "",
		"CurrentCars": "",
	}
	if req.Context != nil {
		if len(req.Context.UserPreferences) > 0 {
			data["UserContext"] = "USER CONTEXT: " + toJSON(req.Context.UserPreferences)
		}
		if len(req.Context.CurrentCars) > 0 {
			data["CurrentCars"] = "CARS BEING CONSIDERED: " + toJSON(req.Context.CurrentCars)
		}
	}
	return s.render("chat-system", data)
}

// recentHistory returns the last limit messages.
func recentHistory(history []types.ChatMessage, limit int) []types.ChatMessage {
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

func formatHistory(history []types.ChatMessage) string {
	var sb strings.Builder
	for _, m := range history {
		sb.WriteString(m.Role)
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(m.Content))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
