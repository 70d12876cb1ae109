package perplexity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-api-key", "https://api.example.com", "sonar-pro", 30)

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.Equal(t, "sonar-pro", client.model)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("test-api-key", "", "", 0)

	assert.Equal(t, defaultBaseURL, client.baseURL)
	assert.Equal(t, defaultModel, client.model)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// chatServer returns a mock chat completions endpoint whose single choice
// carries the given content string
func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%s}}]}`, mustQuote(content))
	}))
}

func mustQuote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

func TestSearchProducts_Success(t *testing.T) {
	content := `{"products":[{"product_name":"오메가3 골드","price_per_month_krw":15000},{"product_name":"알티지 오메가3"}]}`
	server := chatServer(t, content)
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "sonar", 600)
	records, err := client.SearchProducts(context.Background(), "오메가3")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "오메가3 골드", records[0]["product_name"])
}

func TestSearchProducts_ItemsKeyFallback(t *testing.T) {
	content := `{"items":[{"product_name":"루테인"}]}`
	server := chatServer(t, content)
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "sonar", 600)
	records, err := client.SearchProducts(context.Background(), "루테인")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "루테인", records[0]["product_name"])
}

func TestSearchProducts_FencedContent(t *testing.T) {
	content := "```json\n{\"products\":[{\"product_name\":\"A\"}]}\n```"
	server := chatServer(t, content)
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "sonar", 600)
	records, err := client.SearchProducts(context.Background(), "오메가3")

	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSearchProducts_NonJSONContent(t *testing.T) {
	server := chatServer(t, "I could not find any products for that query.")
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "sonar", 600)
	records, err := client.SearchProducts(context.Background(), "오메가3")

	assert.Nil(t, records)
	assert.Error(t, err)
}

func TestSearchProducts_MissingProductsKey(t *testing.T) {
	server := chatServer(t, `{"unexpected":"shape"}`)
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "sonar", 600)
	records, err := client.SearchProducts(context.Background(), "오메가3")

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSearchProducts_RetriesOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"{\"products\":[{\"product_name\":\"A\"}]}"}}]}`)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "sonar", 600)
	records, err := client.SearchProducts(context.Background(), "오메가3")

	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 3, attempts)
}

func TestSearchProducts_AllRetriesFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "sonar", 600)
	_, err := client.SearchProducts(context.Background(), "오메가3")

	assert.Error(t, err)
}

func TestFetchInsights_Success(t *testing.T) {
	content := `{"insights":[{"product_name":"오메가3 골드","pros":["순도"],"brand_trust_score_0to100":85}]}`
	server := chatServer(t, content)
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "sonar", 600)
	records, err := client.FetchInsights(context.Background(), []string{"오메가3 골드"})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "오메가3 골드", records[0]["product_name"])
}

func TestFetchInsights_MalformedList(t *testing.T) {
	server := chatServer(t, `{"insights":"none found"}`)
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "sonar", 600)
	records, err := client.FetchInsights(context.Background(), []string{"A"})

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestChatJSON_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	client := NewClient("test-api-key", server.URL, "sonar", 600)
	_, err := client.SearchProducts(context.Background(), "오메가3")

	assert.Error(t, err)
}
