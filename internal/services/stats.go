package services

import (
	"fmt"
	"math"
	"sort"

	"eps-portal/internal/apperrors"
)

// summary holds the statistics stored for a set of index values.
type summary struct {
	Min    float64
	Max    float64
	Median float64
}

// summarize computes min, max and median of values. NaN values, which come
// from pixels outside the AOI, are skipped.
func summarize(values []float64) (summary, error) {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return summary{}, fmt.Errorf("%w: no valid values", apperrors.ErrValidation)
	}

	sort.Float64s(clean)

	n := len(clean)
	median := clean[n/2]
	if n%2 == 0 {
		median = (clean[n/2-1] + clean[n/2]) / 2
	}

	return summary{Min: clean[0], Max: clean[n-1], Median: median}, nil
}
