package types

// ChatMessage is one turn of an advisor conversation.
type ChatMessage struct {
	Role      string `json:"role" validate:"required,oneof=user assistant"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ChatContext carries optional state from the client into the chat prompt.
type ChatContext struct {
	UserPreferences map[string]any   `json:"userPreferences,omitempty"`
	CurrentCars     []map[string]any `json:"currentCars,omitempty"`
}

// ChatRequest is the body of POST /api/ai/chat.
type ChatRequest struct {
	Message             string        `json:"message" validate:"required,min=1,max=1000"`
	ConversationHistory []ChatMessage `json:"conversationHistory,omitempty" validate:"dive"`
	Context             *ChatContext  `json:"context,omitempty"`
}

// ChatResponse is the advisor reply. Error is set when the reply is a fallback.
type ChatResponse struct {
	Message                 string `json:"message"`
	ContainsRecommendations bool   `json:"containsRecommendations"`
	Timestamp               string `json:"timestamp"`
	Error                   bool   `json:"error,omitempty"`
	RequestID               string `json:"requestId,omitempty"`
}

// CarRef names a car by brand and model.
type CarRef struct {
	Brand   string `json:"brand" validate:"required"`
	Model   string `json:"model" validate:"required"`
	Variant string `json:"variant,omitempty"`
}

// DisplayName returns "Brand Model[ Variant]".
func (c CarRef) DisplayName() string {
	name := c.Brand + " " + c.Model
	if c.Variant != "" {
		name += " " + c.Variant
	}
	return name
}

// Budget is an optional price range supplied with AI requests.
type Budget struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gte=0"`
}

// CompareContext describes the buyer for a comparison.
type CompareContext struct {
	Budget      *Budget  `json:"budget,omitempty"`
	PrimaryUse  string   `json:"primaryUse,omitempty"`
	SeniorNeeds []string `json:"seniorNeeds,omitempty"`
	Location    string   `json:"location,omitempty"`
}

// CompareRequest is the body of POST /api/ai/compare.
type CompareRequest struct {
	Cars        []CarRef        `json:"cars" validate:"required,min=2,max=5,dive"`
	UserContext *CompareContext `json:"userContext,omitempty"`
	FocusAreas  []string        `json:"focusAreas,omitempty"`
}

// PriceComparison is one row of a price comparison.
type PriceComparison struct {
	Car           string  `json:"car"`
	StartingPrice float64 `json:"startingPrice"`
	OnRoadPrice   float64 `json:"onRoadPrice"`
	ValueRating   string  `json:"valueRating"`
}

// FeatureRating rates one car on one feature.
type FeatureRating struct {
	Car     string `json:"car"`
	Rating  string `json:"rating"`
	Details string `json:"details"`
}

// FeatureComparison compares cars on a single feature.
type FeatureComparison struct {
	Feature string          `json:"feature"`
	Cars    []FeatureRating `json:"cars"`
}

// SafetyComparison summarizes the safety kit of a car.
type SafetyComparison struct {
	Car          string   `json:"car"`
	Airbags      int      `json:"airbags"`
	SafetyRating string   `json:"safetyRating"`
	KeyFeatures  []string `json:"keyFeatures"`
}

// ComfortComparison summarizes the comfort highlights of a car.
type ComfortComparison struct {
	Car           string   `json:"car"`
	Highlights    []string `json:"highlights"`
	SeniorBenefit string   `json:"seniorBenefit"`
}

// FeatureBreakdown groups the per-feature comparisons.
type FeatureBreakdown struct {
	SeniorFriendlyFeatures []FeatureComparison `json:"seniorFriendlyFeatures"`
	SafetyFeatures         []SafetyComparison  `json:"safetyFeatures"`
	ComfortFeatures        []ComfortComparison `json:"comfortFeatures"`
}

// ProsAndCons lists the trade-offs of one car.
type ProsAndCons struct {
	Car            string   `json:"car"`
	ProsForSeniors []string `json:"prosForSeniors"`
	ConsForSeniors []string `json:"consForSeniors"`
	BestFor        string   `json:"bestFor"`
}

// CarComparison is the comparison body generated by the advisor.
type CarComparison struct {
	OverallRecommendation string            `json:"overallRecommendation"`
	PriceComparison       []PriceComparison `json:"priceComparison,omitempty"`
	FeatureComparison     *FeatureBreakdown `json:"featureComparison,omitempty"`
	ProsAndCons           []ProsAndCons     `json:"prosAndCons,omitempty"`
}

// Alternative is a runner-up car and when to prefer it.
type Alternative struct {
	Car          string `json:"car"`
	WhenToChoose string `json:"whenToChoose"`
}

// ComparisonVerdict names the winning car.
type ComparisonVerdict struct {
	Winner       string        `json:"winner"`
	Reasoning    string        `json:"reasoning"`
	Alternatives []Alternative `json:"alternatives"`
}

// BuyingAdvice is practical purchase guidance.
type BuyingAdvice struct {
	TestDriveChecklist []string `json:"testDriveChecklist"`
	NegotiationTips    []string `json:"negotiationTips"`
	FinancingOptions   []string `json:"financingOptions"`
	DealershipNotes    string   `json:"dealershipNotes"`
}

// ComparisonResponse is the reply of POST /api/ai/compare.
type ComparisonResponse struct {
	Comparison     CarComparison      `json:"comparison"`
	Recommendation *ComparisonVerdict `json:"recommendation,omitempty"`
	BuyingAdvice   *BuyingAdvice      `json:"buyingAdvice,omitempty"`
	Error          string             `json:"error,omitempty"`
	RequestID      string             `json:"requestId,omitempty"`
}

// Questionnaire stages.
const (
	StageInitial  = "initial"
	StageFollowup = "followup"
)

// QuestionAnswer is a previously answered questionnaire question.
type QuestionAnswer struct {
	QuestionID string `json:"questionId"`
	Question   string `json:"question" validate:"required"`
	Answer     string `json:"answer"`
	AnswerType string `json:"answerType"`
}

// QuestionnaireContext is what is already known about the buyer.
type QuestionnaireContext struct {
	Budget      *Budget        `json:"budget,omitempty"`
	Preferences map[string]any `json:"preferences,omitempty"`
}

// QuestionnaireRequest is the body of POST /api/ai/questionnaire.
type QuestionnaireRequest struct {
	Stage           string                `json:"stage" validate:"required,oneof=initial followup"`
	PreviousAnswers []QuestionAnswer      `json:"previousAnswers,omitempty" validate:"dive"`
	CurrentContext  *QuestionnaireContext `json:"currentContext,omitempty"`
}

// QuestionOption is one selectable answer.
type QuestionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is a generated questionnaire question.
type Question struct {
	ID       string           `json:"id"`
	Question string           `json:"question"`
	Type     string           `json:"type"`
	Options  []QuestionOption `json:"options,omitempty"`
	Required bool             `json:"required"`
	HelpText string           `json:"helpText,omitempty"`
	Min      *float64         `json:"min,omitempty"`
	Max      *float64         `json:"max,omitempty"`
}

// ProgressInfo tells the client where it is in the questionnaire.
type ProgressInfo struct {
	CurrentStep       int    `json:"currentStep"`
	TotalSteps        int    `json:"totalSteps"`
	CompletionMessage string `json:"completionMessage"`
}

// QuestionnaireResponse is the reply of POST /api/ai/questionnaire.
type QuestionnaireResponse struct {
	Questions       []Question    `json:"questions"`
	ProgressInfo    *ProgressInfo `json:"progressInfo,omitempty"`
	AnalysisInsight string        `json:"analysisInsight,omitempty"`
	NextSteps       string        `json:"nextSteps,omitempty"`
	Fallback        bool          `json:"fallback,omitempty"`
	RequestID       string        `json:"requestId,omitempty"`
}

// BuyerProfile is the loose preference shape sent to the advisor recommender.
type BuyerProfile struct {
	Budget            Budget   `json:"budget"`
	BodyType          []string `json:"bodyType,omitempty"`
	FuelType          []string `json:"fuelType,omitempty"`
	Transmission      string   `json:"transmission,omitempty"`
	Features          []string `json:"features,omitempty"`
	PrimaryUse        string   `json:"primaryUse,omitempty"`
	DrivingExperience string   `json:"drivingExperience,omitempty"`
	PhysicalNeeds     []string `json:"physicalNeeds,omitempty"`
	Location          string   `json:"location,omitempty"`
}

// AnsweredQuestion is a question/answer pair without metadata.
type AnsweredQuestion struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"`
}

// AdvisorRecommendationRequest is the body of POST /api/ai/recommendations.
type AdvisorRecommendationRequest struct {
	Preferences     BuyerProfile       `json:"preferences"`
	PreviousAnswers []AnsweredQuestion `json:"previousAnswers,omitempty" validate:"dive"`
}

// PriceRange is a min/max price.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// KeySpecs are headline specifications of a recommended car.
type KeySpecs struct {
	Engine       string `json:"engine"`
	FuelEconomy  string `json:"fuelEconomy"`
	SafetyRating string `json:"safetyRating"`
	Warranty     string `json:"warranty"`
}

// AdvisorPick is one car suggested by the advisor.
type AdvisorPick struct {
	Brand                  string     `json:"brand"`
	Model                  string     `json:"model"`
	Variant                string     `json:"variant"`
	PriceRange             PriceRange `json:"priceRange"`
	WhyRecommended         string     `json:"whyRecommended"`
	SeniorFriendlyFeatures []string   `json:"seniorFriendlyFeatures"`
	Pros                   []string   `json:"pros"`
	Cons                   []string   `json:"cons"`
	KeySpecs               KeySpecs   `json:"keySpecs"`
	AvailabilityNotes      string     `json:"availabilityNotes,omitempty"`
}

// AdvisorRecommendationResponse is the reply of POST /api/ai/recommendations.
type AdvisorRecommendationResponse struct {
	Recommendations  []AdvisorPick `json:"recommendations"`
	AdditionalAdvice string        `json:"additionalAdvice"`
	NextSteps        []string      `json:"nextSteps"`
	Error            string        `json:"error,omitempty"`
	RequestID        string        `json:"requestId,omitempty"`
}
