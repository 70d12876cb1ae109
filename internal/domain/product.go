package domain

// Product represents one supplement product collected from web search.
// Optional fields are pointers; nil means the source did not disclose the value.
type Product struct {
	Name             string   `json:"product_name"`
	Brand            *string  `json:"brand,omitempty"`
	KeyIngredient    *string  `json:"key_ingredient,omitempty"`
	IngredientAmount *float64 `json:"ingredient_amount,omitempty"`
	IngredientUnit   *string  `json:"ingredient_unit,omitempty"`
	PricePerMonthKRW *int     `json:"price_per_month_krw,omitempty"`
	CapsuleType      *string  `json:"capsule_type,omitempty"`
	CapsuleCount     *int     `json:"capsule_count,omitempty"`
	DailyDose        *string  `json:"daily_dose,omitempty"`
	PurchaseURL      *string  `json:"purchase_url,omitempty"`
}

// ProductInsight holds qualitative review/trust data for a single product,
// keyed informally by product name
type ProductInsight struct {
	ProductName     string   `json:"product_name"`
	Pros            []string `json:"pros"`
	Cons            []string `json:"cons"`
	BrandTrustScore *int     `json:"brand_trust_score_0to100,omitempty"`
	ReviewSentiment *int     `json:"review_sentiment_0to100,omitempty"`
	SafetyFlags     []string `json:"safety_flags"`
	Notes           *string  `json:"notes,omitempty"`
}

// RankedProduct is one entry of the final user-facing ranking
type RankedProduct struct {
	Rank    int             `json:"rank"`
	Product Product         `json:"product"`
	Insight *ProductInsight `json:"insight"`
	Score   float64         `json:"score"`
	Summary *string         `json:"summary,omitempty"`
}

// RecommendResult is the outbound recommendation payload (at most 3 entries)
type RecommendResult struct {
	Ranked              []RankedProduct `json:"ranked"`
	FinalAdviceMarkdown *string         `json:"final_advice_markdown,omitempty"`
}

// ClarifyRequest carries the initial user intake
type ClarifyRequest struct {
	SupplementType    string `json:"supplement_type" binding:"required"`
	BudgetKRWPerMonth *int   `json:"budget_krw_per_month"`
	TargetAndConcerns string `json:"target_and_concerns" binding:"required"`
}

// ClarifyQuestion is one follow-up question proposed by the advice model
type ClarifyQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Kind     string   `json:"kind"` // "text" or "single_choice"
	Options  []string `json:"options,omitempty"`
}

// ClarifyResponse wraps the clarifying questions (possibly empty)
type ClarifyResponse struct {
	Questions []ClarifyQuestion `json:"questions"`
}

// RecommendRequest is the clarify intake plus the user's answers.
// Only the "preference" answer influences scoring weights.
type RecommendRequest struct {
	ClarifyRequest
	Answers map[string]any `json:"answers"`
}
