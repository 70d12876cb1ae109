package usecase

import (
	"math"
	"sort"

	"github.com/ssenti/levit-3/internal/domain"
)

// Ranking bounds
const (
	topN        = 3  // entries in the final ranking and in the enrichment set
	maxProducts = 10 // budget-filter fallback keeps at most this many
)

// Scoring mixes
const (
	prelimPotencyWeight = 0.7 // preliminary score: potency share
	prelimPriceWeight   = 0.3 // preliminary score: price share
	finalPriceWeight    = 0.6 // value signal: price share
	finalPotencyWeight  = 0.4 // value signal: potency share
	neutralPriceScore   = 0.5 // inverted price score for products with no price
)

// FilterByBudget retains products priced within the monthly budget. Products
// with no disclosed price get the benefit of the doubt. When the filter would
// eliminate everything, it is discarded and a bounded prefix of the original
// set is returned instead of an empty result.
func FilterByBudget(products []domain.Product, budget *int) []domain.Product {
	if budget == nil || *budget <= 0 {
		return products
	}

	kept := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.PricePerMonthKRW == nil || *p.PricePerMonthKRW <= *budget {
			kept = append(kept, p)
		}
	}

	if len(kept) == 0 {
		if len(products) > maxProducts {
			return products[:maxProducts]
		}
		return products
	}
	return kept
}

// potencyScores normalizes ingredient amounts over the product set.
// A missing amount is fed in as a present zero, not excluded from the range.
func potencyScores(products []domain.Product) []float64 {
	vals := make([]*float64, len(products))
	for i, p := range products {
		amount := 0.0
		if p.IngredientAmount != nil {
			amount = *p.IngredientAmount
		}
		v := amount
		vals[i] = &v
	}
	return Normalize(vals)
}

// priceScores normalizes monthly prices over the product set and inverts the
// result so cheaper products score higher. Products with no price enter the
// range as zero and are then forced to a neutral 0.5, a deliberate soft
// preference for listings that do not disclose a price.
func priceScores(products []domain.Product) []float64 {
	raw := make([]*float64, len(products))
	for i, p := range products {
		v := 0.0
		if p.PricePerMonthKRW != nil {
			v = float64(*p.PricePerMonthKRW)
		}
		raw[i] = &v
	}
	norm := Normalize(raw)

	scores := make([]float64, len(products))
	for i, p := range products {
		if p.PricePerMonthKRW == nil {
			scores[i] = neutralPriceScore
			continue
		}
		scores[i] = 1.0 - norm[i]
	}
	return scores
}

// SelectForEnrichment picks the products worth the expensive qualitative
// enrichment call: the stable top 3 by a cheap potency-vs-price score.
// Ties keep the original input order.
func SelectForEnrichment(products []domain.Product) []domain.Product {
	potency := potencyScores(products)
	price := priceScores(products)

	scores := make([]float64, len(products))
	for i := range products {
		scores[i] = prelimPotencyWeight*potency[i] + prelimPriceWeight*price[i]
	}

	order := sortedIndices(scores)
	n := topN
	if len(order) < n {
		n = len(order)
	}

	selected := make([]domain.Product, 0, n)
	for _, i := range order[:n] {
		selected = append(selected, products[i])
	}
	return selected
}

// NameMatcher decides whether an insight record belongs to a product.
// The default is exact case-sensitive equality; this is the extension point
// for case-insensitive or fuzzy joining should the upstream sources ever
// disagree on naming.
type NameMatcher interface {
	Match(productName, insightName string) bool
}

// ExactMatcher matches names by exact case-sensitive string equality
type ExactMatcher struct{}

// Match implements NameMatcher
func (ExactMatcher) Match(productName, insightName string) bool {
	return productName == insightName
}

// MatchInsights attaches insights to products positionally. Unmatched
// products stay nil; unmatched insights are silently dropped.
func MatchInsights(products []domain.Product, insights []domain.ProductInsight, matcher NameMatcher) []*domain.ProductInsight {
	if matcher == nil {
		matcher = ExactMatcher{}
	}

	out := make([]*domain.ProductInsight, len(products))
	for i, p := range products {
		for j := range insights {
			if matcher.Match(p.Name, insights[j].ProductName) {
				out[i] = &insights[j]
				break
			}
		}
	}
	return out
}

// RankProducts computes the authoritative ranking over the full product set.
// insights must be positional (as returned by MatchInsights); a nil entry
// excludes that product's trust/review values from the normalization range
// rather than forcing them to zero.
func RankProducts(products []domain.Product, insights []*domain.ProductInsight, w Weights) []domain.RankedProduct {
	if len(insights) != len(products) {
		padded := make([]*domain.ProductInsight, len(products))
		copy(padded, insights)
		insights = padded
	}

	potency := potencyScores(products)
	price := priceScores(products)

	trustVals := make([]*float64, len(products))
	reviewVals := make([]*float64, len(products))
	for i, ins := range insights {
		if ins == nil {
			continue
		}
		if ins.BrandTrustScore != nil {
			v := float64(*ins.BrandTrustScore)
			trustVals[i] = &v
		}
		if ins.ReviewSentiment != nil {
			v := float64(*ins.ReviewSentiment)
			reviewVals[i] = &v
		}
	}
	trust := Normalize(trustVals)
	review := Normalize(reviewVals)

	scores := make([]float64, len(products))
	for i := range products {
		value := finalPriceWeight*price[i] + finalPotencyWeight*potency[i]
		scores[i] = w.Value*value + w.Trust*trust[i] + w.Review*review[i]
	}

	order := sortedIndices(scores)
	n := topN
	if len(order) < n {
		n = len(order)
	}

	ranked := make([]domain.RankedProduct, 0, n)
	for rank, i := range order[:n] {
		ranked = append(ranked, domain.RankedProduct{
			Rank:    rank + 1,
			Product: products[i],
			Insight: insights[i],
			Score:   roundScore(scores[i]),
		})
	}
	return ranked
}

// sortedIndices returns index order by descending score; the stable sort
// keeps original input order for equal scores
func sortedIndices(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order
}

// roundScore rounds to 4 decimal places for the outbound payload
func roundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}
