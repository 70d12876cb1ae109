package usecase

import "math"

// Normalize maps a sequence of optional values onto [0,1] via min-max scaling.
// Nil and non-finite entries are excluded from the range and map to 0.0, but
// keep their position so output length always equals input length.
// When every valid value is identical, valid positions map to 1.0 (a single
// disclosed value is treated as maximal).
func Normalize(values []*float64) []float64 {
	out := make([]float64, len(values))

	var min, max float64
	found := false
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		if !found {
			min, max = *v, *v
			found = true
			continue
		}
		if *v < min {
			min = *v
		}
		if *v > max {
			max = *v
		}
	}

	if !found {
		return out
	}

	if math.Abs(max-min) < 1e-9 {
		for i, v := range values {
			if isFinite(v) {
				out[i] = 1.0
			}
		}
		return out
	}

	for i, v := range values {
		if isFinite(v) {
			out[i] = (*v - min) / (max - min)
		}
	}
	return out
}

// isFinite reports whether v holds a usable number
func isFinite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
