package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/car-advisor/internal/llm"
	"github.com/jonathan/car-advisor/internal/llm/llmtest"
	"github.com/jonathan/car-advisor/internal/ranking"
	"github.com/jonathan/car-advisor/internal/types"
)

const prefsJSON = `{
	"budget": {"min": 20000, "max": 35000},
	"fuelEfficiency": {"min": 25, "importance": "medium"},
	"carType": ["sedan", "hatchback"],
	"fuelType": ["gasoline", "hybrid"],
	"seatingCapacity": 5,
	"transmission": [],
	"drivetrain": [],
	"features": ["apple_carplay"],
	"safetyRating": {"min": 4, "importance": "high"},
	"priorities": ["reliability", "fuel_economy"]
}`

func TestListCars(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodGet, "/api/cars", "")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[CarListResponse](t, rec)
	assert.Equal(t, 15, resp.Count)
	assert.Len(t, resp.Cars, resp.Count)
}

func TestListCars_Filters(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodGet, "/api/cars?type=suv&fuelType=electric", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[CarListResponse](t, rec)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "hyundai-ioniq5-2024", resp.Cars[0].ID)

	rec = do(t, s, http.MethodGet, "/api/cars?make=ford&maxPrice=35000", "")
	resp = decodeBody[CarListResponse](t, rec)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "ford-mustang-2024", resp.Cars[0].ID)

	rec = do(t, s, http.MethodGet, "/api/cars?make=Yugo", "")
	resp = decodeBody[CarListResponse](t, rec)
	assert.Zero(t, resp.Count)
	assert.NotNil(t, resp.Cars)
}

func TestListCars_InvalidPrice(t *testing.T) {
	s := newTestServer(t, nil, nil)

	tests := map[string]string{
		"not a number":   "/api/cars?minPrice=cheap",
		"negative":       "/api/cars?maxPrice=-1",
		"inverted range": "/api/cars?minPrice=40000&maxPrice=20000",
	}
	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, path, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)

			body := decodeBody[errorReply](t, rec)
			assert.Equal(t, "validation failed", body.Error)
			assert.NotEmpty(t, body.Details)
		})
	}
}

func TestGetCar(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodGet, "/api/cars/tesla-model-3-2024", "")
	require.Equal(t, http.StatusOK, rec.Code)
	car := decodeBody[types.Car](t, rec)
	assert.Equal(t, "Tesla", car.Make)
	assert.Equal(t, types.FuelElectric, car.FuelType)

	rec = do(t, s, http.MethodGet, "/api/cars/delorean-dmc12", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "car not found: delorean-dmc12", decodeBody[errorReply](t, rec).Error)
}

func TestRecommendations_Simple(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := do(t, s, http.MethodPost, "/api/recommendations", `{"preferences": `+prefsJSON+`, "limit": 3}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[RecommendationResponse](t, rec)
	assert.Equal(t, ranking.ModeSimple, resp.Mode)
	require.NotEmpty(t, resp.Recommendations)
	assert.LessOrEqual(t, resp.Count, 3)
	assert.Len(t, resp.Recommendations, resp.Count)

	for i := 1; i < len(resp.Recommendations); i++ {
		assert.GreaterOrEqual(t, resp.Recommendations[i-1].MatchScore, resp.Recommendations[i].MatchScore)
	}
	for _, r := range resp.Recommendations {
		assert.Nil(t, r.SimilarityScore, "simple mode has no similarity score")
	}
}

func TestRecommendations_DefaultAndMaxLimit(t *testing.T) {
	s := newTestServer(t, nil, nil)

	lenient := `{"budget": {"min": 0, "max": 100000}, "fuelEfficiency": {"min": 0, "importance": "low"},
		"safetyRating": {"min": 0, "importance": "low"}}`

	rec := do(t, s, http.MethodPost, "/api/recommendations", `{"preferences": `+lenient+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.LessOrEqual(t, decodeBody[RecommendationResponse](t, rec).Count, 5)

	rec = do(t, s, http.MethodPost, "/api/recommendations", `{"preferences": `+lenient+`, "limit": 500}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.LessOrEqual(t, decodeBody[RecommendationResponse](t, rec).Count, 10)
}

func TestRecommendations_EnsembleSeeded(t *testing.T) {
	s := newTestServer(t, nil, nil)
	body := `{"preferences": ` + prefsJSON + `, "mode": "ensemble", "limit": 6, "seed": 42}`

	first := do(t, s, http.MethodPost, "/api/recommendations", body)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := do(t, s, http.MethodPost, "/api/recommendations", body)

	a := decodeBody[RecommendationResponse](t, first)
	b := decodeBody[RecommendationResponse](t, second)
	assert.Equal(t, ranking.ModeEnsemble, a.Mode)
	assert.LessOrEqual(t, a.Count, 6)
	assert.Equal(t, ids(a.Recommendations), ids(b.Recommendations))
}

func TestRecommendations_Errors(t *testing.T) {
	s := newTestServer(t, nil, nil)

	tests := []struct {
		name   string
		body   string
		status int
		errMsg string
	}{
		{name: "malformed body", body: `{"preferences": `, status: http.StatusBadRequest, errMsg: "invalid request body"},
		{name: "missing preferences", body: `{}`, status: http.StatusBadRequest, errMsg: "validation failed"},
		{
			name:   "bad importance",
			body:   `{"preferences": {"budget": {"min": 0, "max": 1}, "fuelEfficiency": {"importance": "urgent"}, "safetyRating": {"importance": "low"}}}`,
			status: http.StatusBadRequest,
			errMsg: "validation failed",
		},
		{name: "unknown mode", body: `{"preferences": ` + prefsJSON + `, "mode": "magic"}`, status: http.StatusBadRequest, errMsg: "validation failed"},
		{name: "negative limit", body: `{"preferences": ` + prefsJSON + `, "limit": -2}`, status: http.StatusBadRequest, errMsg: "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/recommendations", tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, decodeBody[errorReply](t, rec).Error, tt.errMsg)
		})
	}
}

func TestAI_Unavailable(t *testing.T) {
	s := newTestServer(t, nil, nil)

	for _, path := range []string{"/api/ai/chat", "/api/ai/compare", "/api/ai/questionnaire", "/api/ai/recommendations"} {
		rec := do(t, s, http.MethodPost, path, `{}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		body := decodeBody[errorReply](t, rec)
		assert.Equal(t, "ai_unavailable", body.Error, path)
		require.Len(t, body.Details, 1, path)
		assert.Equal(t, "llm", body.Details[0]["field"])
		assert.Equal(t, "configured", body.Details[0]["tag"])
	}
}

func TestAI_Chat(t *testing.T) {
	fake := &llmtest.Fake{Reply: "I recommend the Honda City for its easy entry."}
	s := newTestServer(t, newFakeAdvisor(t, fake), nil)

	rec := do(t, s, http.MethodPost, "/api/ai/chat", `{"message": "Which sedan suits my parents?",
		"conversationHistory": [{"role": "user", "content": "Hi"}]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[types.ChatResponse](t, rec)
	assert.Equal(t, "I recommend the Honda City for its easy entry.", resp.Message)
	assert.True(t, resp.ContainsRecommendations)
	assert.False(t, resp.Error)
	assert.Contains(t, fake.LastPrompt(), "Which sedan suits my parents?")
}

func TestAI_ChatFallbackIsOK(t *testing.T) {
	s := newTestServer(t, newFakeAdvisor(t, &llmtest.Fake{Err: errors.New("quota exceeded")}), nil)

	rec := do(t, s, http.MethodPost, "/api/ai/chat", `{"message": "Hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[types.ChatResponse](t, rec).Error)
}

func TestAI_ChatValidation(t *testing.T) {
	s := newTestServer(t, newFakeAdvisor(t, &llmtest.Fake{Reply: "hi"}), nil)

	rec := do(t, s, http.MethodPost, "/api/ai/chat", `{"message": ""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[errorReply](t, rec)
	require.NotEmpty(t, body.Details)
	assert.Equal(t, "message", body.Details[0]["field"])
}

func TestAI_CompareUpstreamFailure(t *testing.T) {
	s := newTestServer(t, newFakeAdvisor(t, &llmtest.Fake{Err: llm.ErrCircuitOpen}), nil)

	rec := do(t, s, http.MethodPost, "/api/ai/compare",
		`{"cars": [{"brand": "Honda", "model": "City"}, {"brand": "Hyundai", "model": "Verna"}]}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "AI service unavailable", decodeBody[errorReply](t, rec).Error)
}

func TestAI_CompareNeedsTwoCars(t *testing.T) {
	s := newTestServer(t, newFakeAdvisor(t, &llmtest.Fake{Reply: "{}"}), nil)

	rec := do(t, s, http.MethodPost, "/api/ai/compare", `{"cars": [{"brand": "Honda", "model": "City"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAI_QuestionnaireFallback(t *testing.T) {
	s := newTestServer(t, newFakeAdvisor(t, &llmtest.Fake{Reply: "not json"}), nil)

	rec := do(t, s, http.MethodPost, "/api/ai/questionnaire", `{"stage": "initial"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[types.QuestionnaireResponse](t, rec)
	assert.True(t, resp.Fallback)
	assert.NotEmpty(t, resp.Questions)
}

func TestAI_AdvisorRecommendations(t *testing.T) {
	reply := `{
		"recommendations": [
			{"brand": "Toyota", "model": "Innova Hycross", "variant": "VX", "priceRange": {"min": 1900000, "max": 2500000},
			 "whyRecommended": "Easy entry", "seniorFriendlyFeatures": ["High seating"], "pros": ["Hybrid"], "cons": ["Large"],
			 "keySpecs": {"engine": "2.0 hybrid", "fuelEconomy": "21 kmpl", "safetyRating": "5 stars", "warranty": "3 years"}}
		],
		"additionalAdvice": "Test drive on your usual roads.",
		"nextSteps": ["Book a test drive"]
	}`
	s := newTestServer(t, newFakeAdvisor(t, &llmtest.Fake{Reply: reply}), nil)

	rec := do(t, s, http.MethodPost, "/api/ai/recommendations",
		`{"preferences": {"budget": {"min": 1500000, "max": 2500000}, "bodyType": ["suv"]}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[types.AdvisorRecommendationResponse](t, rec)
	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "Innova Hycross", resp.Recommendations[0].Model)
	assert.Equal(t, []string{"Book a test drive"}, resp.NextSteps)
}

func ids(recs []types.CarRecommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
