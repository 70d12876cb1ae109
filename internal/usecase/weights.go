package usecase

import (
	"fmt"
	"strings"
)

// Weights holds the scoring weights for the three final-ranking signals.
// Each bucket is designed to sum to roughly 1.0; this is not enforced.
type Weights struct {
	Value  float64
	Trust  float64
	Review float64
}

// Preference buckets, first match wins
var (
	valueWeights    = Weights{Value: 0.5, Trust: 0.3, Review: 0.2}
	trustWeights    = Weights{Value: 0.25, Trust: 0.5, Review: 0.25}
	balancedWeights = Weights{Value: 0.34, Trust: 0.33, Review: 0.33}
)

// InferWeights derives scoring weights from the free-form answers mapping.
// Only the "preference" answer is consulted; it may be Korean or English and
// is matched case-insensitively. Anything unrecognized falls back to the
// balanced bucket.
func InferWeights(answers map[string]any) Weights {
	pref := "balanced"
	if answers != nil {
		if v, ok := answers["preference"]; ok && v != nil {
			pref = fmt.Sprintf("%v", v)
		}
	}
	pref = strings.ToLower(pref)

	switch {
	case strings.Contains(pref, "가성비") || strings.Contains(pref, "value"):
		return valueWeights
	case strings.Contains(pref, "신뢰") || strings.Contains(pref, "trust") || strings.Contains(pref, "브랜드"):
		return trustWeights
	}
	return balancedWeights
}
