package anomaly

import (
	"math"

	"github.com/soltixdb/finlytics/internal/analytics"
)

// AnomalyType represents the type of anomaly detected
type AnomalyType string

const (
	AnomalyTypeNone  AnomalyType = ""      // Not anomalous
	AnomalyTypeSpike AnomalyType = "spike" // Far above the mean
	AnomalyTypeDrop  AnomalyType = "drop"  // Far below the mean
)

// DefaultThreshold is the |z| above which a value is flagged
const DefaultThreshold = 2.0

// Flag is the detection result for one observed position
type Flag struct {
	Position  int         // Position in the original series
	Value     float64     // Observed value
	ZScore    float64     // Standard score against the observed values
	Anomalous bool        // |ZScore| > threshold
	Type      AnomalyType // Spike or drop when anomalous
}

// IdentifyAnomalies flags observed values whose z-score magnitude exceeds
// threshold. Missing positions are dropped before the mean and population
// standard deviation are computed, and the result has one Flag per remaining
// position in the original order. A constant series has undefined z-scores
// and flags nothing.
func IdentifyAnomalies(s analytics.Series, threshold float64) []Flag {
	values, positions := s.Observed()
	scores := ZScores(values)

	flags := make([]Flag, len(values))
	for i, z := range scores {
		flags[i] = Flag{
			Position: positions[i],
			Value:    values[i],
			ZScore:   z,
		}
		if math.Abs(z) > threshold {
			flags[i].Anomalous = true
			if z > 0 {
				flags[i].Type = AnomalyTypeSpike
			} else {
				flags[i].Type = AnomalyTypeDrop
			}
		}
	}
	return flags
}

// Anomalies returns only the flagged entries
func Anomalies(flags []Flag) []Flag {
	var out []Flag
	for _, f := range flags {
		if f.Anomalous {
			out = append(out, f)
		}
	}
	return out
}
