package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductSearcher collects raw product records for a supplement category.
// Records stay loosely typed on purpose: the upstream model returns
// possibly-malformed JSON and coercion happens in the usecase layer.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, supplementType string) ([]map[string]any, error)
}

// InsightFetcher collects raw qualitative insight records for the named products
type InsightFetcher interface {
	FetchInsights(ctx context.Context, productNames []string) ([]map[string]any, error)
}

// AdviceSynthesizer produces clarifying questions and ranking summaries
// from the advice model
type AdviceSynthesizer interface {
	ClarifyQuestions(ctx context.Context, req *ClarifyRequest) ([]ClarifyQuestion, error)

	// SummarizeRanking returns per-rank summaries keyed by rank plus an
	// overall advice markdown string. Either may be empty.
	SummarizeRanking(ctx context.Context, req *RecommendRequest, ranked []RankedProduct) (map[int]string, string, error)
}
