package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ssenti/levit-3/internal/domain"
	"github.com/ssenti/levit-3/internal/infrastructure/llm"
)

const (
	defaultModel = "gemini-2.5-flash"

	maxClarifyQuestions = 2
)

// Client handles communication with the Gemini API for advice synthesis:
// clarifying questions before a recommendation and summaries after one.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// ClarifyQuestions asks the model to design up to 2 clarifying questions for
// the intake. Malformed model output degrades to no questions, not an error.
func (c *Client) ClarifyQuestions(ctx context.Context, req *domain.ClarifyRequest) ([]domain.ClarifyQuestion, error) {
	prompt, err := buildClarifyPrompt(req)
	if err != nil {
		return nil, err
	}

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseClarifyQuestions(text), nil
}

// SummarizeRanking asks the model for per-rank summaries plus overall advice.
// Malformed model output degrades to no summaries, not an error.
func (c *Client) SummarizeRanking(ctx context.Context, req *domain.RecommendRequest, ranked []domain.RankedProduct) (map[int]string, string, error) {
	prompt, err := buildSummaryPrompt(req, ranked)
	if err != nil {
		return nil, "", err
	}

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, "", err
	}

	summaries, advice := parseSummaries(text)
	return summaries, advice, nil
}

// generate runs one content generation call and returns the response text
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// buildClarifyPrompt embeds the intake and the output schema into one prompt
func buildClarifyPrompt(req *domain.ClarifyRequest) (string, error) {
	payload := map[string]any{
		"supplement_type":      req.SupplementType,
		"budget_krw_per_month": req.BudgetKRWPerMonth,
		"target_and_concerns":  req.TargetAndConcerns,
		"instructions": "사용자가 입력한 정보만으로 충분하면 추가 질문 없이 빈 목록을 반환하세요.\n" +
			"최대 2개의 질문만, JSON 형식으로 반환하세요. 질문 타입은 text 또는 single_choice를 사용하세요.\n" +
			"가능하면 두 번째 질문은 선호도(가성비 vs 원료/브랜드 신뢰도)를 single_choice로 제시하세요.",
		"output_schema": map[string]any{
			"questions": []map[string]any{
				{
					"id":       "string",
					"question": "string",
					"kind":     "text | single_choice",
					"options":  []string{"string"},
				},
			},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode clarify payload: %w", err)
	}
	return "다음 데이터를 참고하여 Clarifying 질문을 한국어로 설계하고, JSON만 출력하세요.\n" + string(data), nil
}

// parseClarifyQuestions extracts and normalizes the question list.
// IDs default to q1, q2; kind defaults to "text"; at most 2 questions.
func parseClarifyQuestions(content string) []domain.ClarifyQuestion {
	var payload struct {
		Questions []struct {
			ID       any      `json:"id"`
			Question string   `json:"question"`
			Kind     string   `json:"kind"`
			Options  []string `json:"options"`
		} `json:"questions"`
	}
	if err := llm.DecodeObject(content, &payload); err != nil {
		return nil
	}

	questions := make([]domain.ClarifyQuestion, 0, maxClarifyQuestions)
	for i, q := range payload.Questions {
		if i >= maxClarifyQuestions {
			break
		}

		id := fmt.Sprintf("q%d", i+1)
		if q.ID != nil {
			id = fmt.Sprintf("%v", q.ID)
		}
		kind := q.Kind
		if kind == "" {
			kind = "text"
		}

		questions = append(questions, domain.ClarifyQuestion{
			ID:       id,
			Question: strings.TrimSpace(q.Question),
			Kind:     kind,
			Options:  q.Options,
		})
	}
	return questions
}

// buildSummaryPrompt embeds the user context and the ranking into one prompt
func buildSummaryPrompt(req *domain.RecommendRequest, ranked []domain.RankedProduct) (string, error) {
	payload := map[string]any{
		"user":   req,
		"ranked": ranked,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode summary payload: %w", err)
	}
	return "한국 35~50세 여성의 구매 맥락에 맞춰 아래 데이터를 바탕으로 각 제품의 핵심 스펙과 추천 이유를 2-3줄로 간결 요약하세요.\n" +
		"포맷: JSON { ranked: [ { rank, summary_kr } ], final_advice_markdown }\n" + string(data), nil
}

// parseSummaries extracts per-rank summaries and the overall advice markdown
func parseSummaries(content string) (map[int]string, string) {
	var payload struct {
		Ranked []struct {
			Rank      int    `json:"rank"`
			SummaryKR string `json:"summary_kr"`
		} `json:"ranked"`
		FinalAdviceMarkdown string `json:"final_advice_markdown"`
	}
	if err := llm.DecodeObject(content, &payload); err != nil {
		return nil, ""
	}

	summaries := make(map[int]string, len(payload.Ranked))
	for _, item := range payload.Ranked {
		summary := strings.TrimSpace(item.SummaryKR)
		if item.Rank > 0 && summary != "" {
			summaries[item.Rank] = summary
		}
	}
	return summaries, payload.FinalAdviceMarkdown
}
