package perplexity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ssenti/levit-3/internal/infrastructure/llm"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.perplexity.ai"
	defaultModel   = "sonar"

	systemPrompt = "Be precise and concise. Return ONLY strict minified JSON with no code fences."
)

// Client handles communication with the Perplexity chat completions API.
// It serves both collection roles: product search and qualitative insights.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Perplexity API client.
// requestsPerMinute bounds outbound call rate; zero picks a safe default.
func NewClient(apiKey, baseURL, model string, requestsPerMinute int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if requestsPerMinute <= 0 {
		requestsPerMinute = 20
	}

	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 2)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: limiter,
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// chat completions wire types
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// SearchProducts asks the web-search model for representative products in
// the given supplement category and returns the raw product records.
func (c *Client) SearchProducts(ctx context.Context, supplementType string) ([]map[string]any, error) {
	obj, err := c.chatJSON(ctx, buildProductPrompt(supplementType))
	if err != nil {
		return nil, err
	}

	items, ok := obj["products"]
	if !ok {
		items = obj["items"]
	}
	return llm.RecordsFromList(items), nil
}

// FetchInsights asks the web-search model for review and brand-trust data on
// the named products and returns the raw insight records.
func (c *Client) FetchInsights(ctx context.Context, productNames []string) ([]map[string]any, error) {
	obj, err := c.chatJSON(ctx, buildInsightPrompt(productNames))
	if err != nil {
		return nil, err
	}
	return llm.RecordsFromList(obj["insights"]), nil
}

// chatJSON sends one chat completion request and parses the JSON object from
// the response content. Transient failures retry up to 3 times with backoff.
func (c *Client) chatJSON(ctx context.Context, prompt string) (map[string]any, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.doRequest(ctx, payload)
		if err != nil {
			log.Printf("[PERPLEXITY] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
			continue
		}

		var chatResp chatResponse
		if err := json.Unmarshal(body, &chatResp); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if len(chatResp.Choices) == 0 {
			return nil, fmt.Errorf("response contained no choices")
		}

		content := chatResp.Choices[0].Message.Content
		if c.debug {
			log.Printf("[PERPLEXITY] Response content: %s", content)
		}

		var obj map[string]any
		if err := llm.DecodeObject(content, &obj); err != nil {
			return nil, fmt.Errorf("invalid JSON from model: %w", err)
		}
		return obj, nil
	}

	log.Printf("[PERPLEXITY] All retries failed")
	return nil, lastErr
}

// doRequest executes one chat completion POST and returns the response body
func (c *Client) doRequest(ctx context.Context, payload []byte) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(body), 500))
	}
	return body, nil
}

// exponentialBackoff returns the wait time before the next retry attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// buildProductPrompt instructs the model to return 10 purchasable products
// for the Korean market as bare JSON matching the product schema
func buildProductPrompt(supplementType string) string {
	return fmt.Sprintf(
		"한국 시장 기준 '%s' 대표 제품 10개를 추천용으로 선정. "+
			"아래 JSON 스키마로만 출력: {\n"+
			"  \"products\": [ {\"product_name\": str, \"brand\": str, \"key_ingredient\": str|null, "+
			"\"ingredient_amount\": number|null, \"ingredient_unit\": str|null, "+
			"\"price_per_month_krw\": int|null, \"capsule_type\": str|null, \"capsule_count\": int|null, "+
			"\"daily_dose\": str|null, \"purchase_url\": str|null } ]\n}"+
			"\n주의: 숫자만, 단위 제거, 한국에서 구매 가능 제품 위주.",
		supplementType,
	)
}

// buildInsightPrompt instructs the model to summarize Korean user reviews and
// brand credibility for the named products as bare JSON
func buildInsightPrompt(productNames []string) string {
	return fmt.Sprintf(
		"다음 제품들에 대해 한국 실사용 후기와 브랜드 신뢰도 공신력 자료를 요약하여 JSON만 출력. 제품: %s.\n"+
			"스키마: {\n  \"insights\": [ { \"product_name\": str, \"pros\": [str], \"cons\": [str], "+
			"\"brand_trust_score_0to100\": int, \"review_sentiment_0to100\": int, "+
			"\"safety_flags\": [str], \"notes\": str|null } ]\n}",
		strings.Join(productNames, ", "),
	)
}
