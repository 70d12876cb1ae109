package usecase

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/ssenti/levit-3/internal/domain"
)

// placeholderName is used when a record carries no name-like field at all
const placeholderName = "unknown"

// CoerceProducts converts raw search-model records into Product entities.
// Each record first goes through a strict decode; on failure every field is
// soft-coerced individually, so any mapping yields some product and parse
// errors never reach the caller. Only an empty input fails.
func CoerceProducts(records []map[string]any) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		if p, ok := strictProduct(rec); ok {
			products = append(products, p)
			continue
		}
		products = append(products, softProduct(rec))
	}

	if len(products) == 0 {
		return nil, domain.ErrCollectionFailed
	}
	return products, nil
}

// strictProduct attempts a typed decode of the record.
// Numeric fields must be non-negative; violations route the record to soft
// coercion where the offending fields become absent.
func strictProduct(rec map[string]any) (domain.Product, bool) {
	data, err := json.Marshal(rec)
	if err != nil {
		return domain.Product{}, false
	}
	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil || p.Name == "" {
		return domain.Product{}, false
	}
	if p.IngredientAmount != nil && (*p.IngredientAmount < 0 || math.IsNaN(*p.IngredientAmount) || math.IsInf(*p.IngredientAmount, 0)) {
		return domain.Product{}, false
	}
	if p.PricePerMonthKRW != nil && *p.PricePerMonthKRW < 0 {
		return domain.Product{}, false
	}
	if p.CapsuleCount != nil && *p.CapsuleCount < 0 {
		return domain.Product{}, false
	}
	return p, true
}

// softProduct coerces every field individually, defaulting to nil on failure
func softProduct(rec map[string]any) domain.Product {
	p := domain.Product{Name: placeholderName}
	if name := stringField(rec, "product_name"); name != nil {
		p.Name = *name
	} else if name := stringField(rec, "name"); name != nil {
		p.Name = *name
	}

	p.Brand = stringField(rec, "brand")
	p.KeyIngredient = stringField(rec, "key_ingredient")
	p.IngredientAmount = floatField(rec, "ingredient_amount")
	p.IngredientUnit = stringField(rec, "ingredient_unit")
	p.PricePerMonthKRW = intField(rec, "price_per_month_krw")
	p.CapsuleType = stringField(rec, "capsule_type")
	p.CapsuleCount = intField(rec, "capsule_count")
	p.DailyDose = stringField(rec, "daily_dose")
	p.PurchaseURL = stringField(rec, "purchase_url")
	return p
}

// ParseInsights converts raw enrichment records into ProductInsight entities.
// Records that do not decode or lack a product name are silently skipped;
// a wholly malformed payload simply yields no insights.
func ParseInsights(records []map[string]any) []domain.ProductInsight {
	insights := make([]domain.ProductInsight, 0, len(records))
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		var ins domain.ProductInsight
		if err := json.Unmarshal(data, &ins); err != nil || ins.ProductName == "" {
			continue
		}
		insights = append(insights, ins)
	}
	return insights
}

// stringField returns the field as a string, or nil when absent or unusable
func stringField(rec map[string]any, key string) *string {
	v, ok := rec[key]
	if !ok || v == nil {
		return nil
	}
	switch s := v.(type) {
	case string:
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return &s
	case float64:
		str := strconv.FormatFloat(s, 'f', -1, 64)
		return &str
	}
	return nil
}

// floatField parses a numeric field with comma-stripping and whitespace
// trimming. Negative and non-finite results count as unusable.
func floatField(rec map[string]any, key string) *float64 {
	v, ok := rec[key]
	if !ok || v == nil {
		return nil
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case string:
		s := strings.NewReplacer(",", "", "_", "").Replace(strings.TrimSpace(n))
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return &f
}

// intField is floatField truncated to an integer
func intField(rec map[string]any, key string) *int {
	f := floatField(rec, key)
	if f == nil {
		return nil
	}
	i := int(*f)
	return &i
}
