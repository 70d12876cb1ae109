package usecase

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/ssenti/levit-3/internal/domain"
)

// Package-level compiled regex pattern for cache keys
var nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9가-힣\s]`)

// RecommendServiceConfig holds configuration for the recommend service
type RecommendServiceConfig struct {
	CacheTTL time.Duration
	Matcher  NameMatcher
}

// RecommendService runs the full recommendation pipeline: product search,
// coercion, budget filtering, preliminary selection, qualitative enrichment,
// final ranking, and summary synthesis.
type RecommendService struct {
	cache    domain.CacheRepository
	searcher domain.ProductSearcher
	insights domain.InsightFetcher
	advisor  domain.AdviceSynthesizer
	matcher  NameMatcher
	cacheTTL time.Duration
}

// NewRecommendService creates a recommend service with dependencies
func NewRecommendService(
	cache domain.CacheRepository,
	searcher domain.ProductSearcher,
	insights domain.InsightFetcher,
	advisor domain.AdviceSynthesizer,
	config RecommendServiceConfig,
) *RecommendService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	matcher := config.Matcher
	if matcher == nil {
		matcher = ExactMatcher{}
	}

	return &RecommendService{
		cache:    cache,
		searcher: searcher,
		insights: insights,
		advisor:  advisor,
		matcher:  matcher,
		cacheTTL: cacheTTL,
	}
}

// Clarify asks the advice model for up to two clarifying questions
func (s *RecommendService) Clarify(ctx context.Context, req *domain.ClarifyRequest) (*domain.ClarifyResponse, error) {
	if req == nil || req.SupplementType == "" {
		return nil, domain.ErrInvalidRequest
	}

	questions, err := s.advisor.ClarifyQuestions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAdviceFailed, err)
	}
	if questions == nil {
		questions = []domain.ClarifyQuestion{}
	}
	return &domain.ClarifyResponse{Questions: questions}, nil
}

// Recommend produces the ranked top-3 recommendation for the request.
// Only total absence of usable product data is fatal; enrichment and summary
// failures degrade to missing signals and missing summaries respectively.
func (s *RecommendService) Recommend(ctx context.Context, req *domain.RecommendRequest) (*domain.RecommendResult, error) {
	if req == nil || req.SupplementType == "" {
		return nil, domain.ErrInvalidRequest
	}

	records, err := s.collectRecords(ctx, req.SupplementType)
	if err != nil {
		return nil, err
	}

	products, err := CoerceProducts(records)
	if err != nil {
		return nil, err
	}
	log.Printf("[RECOMMEND] Collected %d products for %q", len(products), req.SupplementType)

	products = FilterByBudget(products, req.BudgetKRWPerMonth)
	weights := InferWeights(req.Answers)

	enriched := SelectForEnrichment(products)
	names := make([]string, 0, len(enriched))
	for _, p := range enriched {
		names = append(names, p.Name)
	}

	insights := s.fetchInsights(ctx, names)
	matched := MatchInsights(products, insights, s.matcher)

	ranked := RankProducts(products, matched, weights)

	result := &domain.RecommendResult{Ranked: ranked}
	s.attachSummaries(ctx, req, result)
	return result, nil
}

// collectRecords returns raw product records, served from cache when the
// same supplement category was searched recently
func (s *RecommendService) collectRecords(ctx context.Context, supplementType string) ([]map[string]any, error) {
	cacheKey := productCacheKey(supplementType)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		if records := toRecords(cached); len(records) > 0 {
			log.Printf("[RECOMMEND] Cache hit for %q (%d records)", supplementType, len(records))
			return records, nil
		}
	}

	records, err := s.searcher.SearchProducts(ctx, supplementType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}

	if len(records) > 0 {
		if err := s.cache.Set(ctx, cacheKey, records, s.cacheTTL); err != nil {
			log.Printf("[RECOMMEND] Failed to cache products for %q: %v", supplementType, err)
		}
	}
	return records, nil
}

// fetchInsights collects qualitative insight records for the preliminary
// selection. Any failure or malformed payload degrades to no insights so the
// ranking can still complete.
func (s *RecommendService) fetchInsights(ctx context.Context, names []string) []domain.ProductInsight {
	if len(names) == 0 {
		return nil
	}

	records, err := s.insights.FetchInsights(ctx, names)
	if err != nil {
		log.Printf("[RECOMMEND] Insight fetch failed, ranking without trust/review signals: %v", err)
		return nil
	}
	return ParseInsights(records)
}

// attachSummaries asks the advice model for per-rank summaries and overall
// advice. Failures are absorbed; the ranking itself stands without them.
func (s *RecommendService) attachSummaries(ctx context.Context, req *domain.RecommendRequest, result *domain.RecommendResult) {
	if len(result.Ranked) == 0 {
		return
	}

	summaries, advice, err := s.advisor.SummarizeRanking(ctx, req, result.Ranked)
	if err != nil {
		log.Printf("[RECOMMEND] Summary synthesis failed: %v", err)
		return
	}

	for i := range result.Ranked {
		if summary, ok := summaries[result.Ranked[i].Rank]; ok && summary != "" {
			s := summary
			result.Ranked[i].Summary = &s
		}
	}
	if advice != "" {
		result.FinalAdviceMarkdown = &advice
	}
}

// productCacheKey normalizes the supplement category into a cache key.
// Format: "products:{normalized_category}"
func productCacheKey(supplementType string) string {
	key := strings.ToLower(supplementType)
	key = nonAlphanumericRegex.ReplaceAllString(key, "")
	key = strings.Join(strings.Fields(key), " ")
	return fmt.Sprintf("products:%s", key)
}

// toRecords recovers record maps from a cached value. The cache JSON
// round-trips values, so lists come back as []interface{}.
func toRecords(v interface{}) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []interface{}:
		records := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				records = append(records, m)
			}
		}
		return records
	}
	return nil
}
