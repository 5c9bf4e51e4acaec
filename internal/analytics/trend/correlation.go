package trend

import (
	"fmt"
	"math"

	"github.com/soltixdb/finlytics/internal/analytics"
	"gonum.org/v1/gonum/stat"
)

// Correlation returns the Pearson correlation of a and b over the positions
// where both are observed. Different lengths are a usage error. Fewer than
// two complete pairs give the undefined sentinel.
func Correlation(a, b analytics.Series) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", analytics.ErrLengthMismatch, len(a), len(b))
	}

	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(b))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}

	if len(x) < 2 {
		return analytics.Undefined(), nil
	}
	return stat.Correlation(x, y, nil), nil
}
