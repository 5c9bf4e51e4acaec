package anomaly

import (
	"math"
	"testing"

	"github.com/soltixdb/finlytics/internal/analytics"
)

func TestIdentifyAnomalies_Spike(t *testing.T) {
	flags := IdentifyAnomalies(analytics.Series{1, 2, 3, 4, 5, 20}, DefaultThreshold)

	if len(flags) != 6 {
		t.Fatalf("Expected 6 flags, got %d", len(flags))
	}
	for i, f := range flags[:5] {
		if f.Anomalous {
			t.Errorf("Position %d should not be anomalous (z=%v)", i, f.ZScore)
		}
	}

	last := flags[5]
	if !last.Anomalous {
		t.Fatalf("Expected last position to be anomalous (z=%v)", last.ZScore)
	}
	if last.Type != AnomalyTypeSpike {
		t.Errorf("Expected anomaly type Spike, got %s", last.Type)
	}
	if last.Position != 5 || last.Value != 20 {
		t.Errorf("Unexpected flag %+v", last)
	}
}

func TestIdentifyAnomalies_Drop(t *testing.T) {
	values := analytics.Series{50, 50, 50, 50, 50, 50, 0, 50, 50, 50}
	anomalies := Anomalies(IdentifyAnomalies(values, DefaultThreshold))

	if len(anomalies) != 1 {
		t.Fatalf("Expected exactly one anomaly, got %d", len(anomalies))
	}
	if anomalies[0].Position != 6 {
		t.Errorf("Expected drop at position 6, got %d", anomalies[0].Position)
	}
	if anomalies[0].Type != AnomalyTypeDrop {
		t.Errorf("Expected anomaly type Drop, got %s", anomalies[0].Type)
	}
}

func TestIdentifyAnomalies_AlignedToObservedPositions(t *testing.T) {
	nan := math.NaN()
	flags := IdentifyAnomalies(analytics.Series{nan, 1, 2, nan, 3, 4, 5, 20}, DefaultThreshold)

	wantPositions := []int{1, 2, 4, 5, 6, 7}
	if len(flags) != len(wantPositions) {
		t.Fatalf("Expected %d flags, got %d", len(wantPositions), len(flags))
	}
	for i, pos := range wantPositions {
		if flags[i].Position != pos {
			t.Errorf("Flag %d: expected position %d, got %d", i, pos, flags[i].Position)
		}
	}
	if !flags[len(flags)-1].Anomalous {
		t.Error("Expected position 7 to be anomalous")
	}
}

func TestIdentifyAnomalies_ConstantSeries(t *testing.T) {
	flags := IdentifyAnomalies(analytics.Series{10, 10, 10, 10}, DefaultThreshold)

	for _, f := range flags {
		if f.Anomalous {
			t.Errorf("Constant series should not be flagged: %+v", f)
		}
		if !analytics.IsUndefined(f.ZScore) {
			t.Errorf("Expected undefined z-score, got %v", f.ZScore)
		}
	}
}

func TestIdentifyAnomalies_Empty(t *testing.T) {
	if flags := IdentifyAnomalies(analytics.Series{}, DefaultThreshold); len(flags) != 0 {
		t.Errorf("Expected no flags, got %d", len(flags))
	}
	if flags := IdentifyAnomalies(analytics.Series{math.NaN()}, DefaultThreshold); len(flags) != 0 {
		t.Errorf("Expected no flags for all-missing series, got %d", len(flags))
	}
}

func TestIdentifyAnomalies_VeryHighThreshold(t *testing.T) {
	flags := IdentifyAnomalies(analytics.Series{1, 2, 3, 4, 5, 20}, 100)
	if len(Anomalies(flags)) != 0 {
		t.Error("Expected no anomalies with a very high threshold")
	}
}

func TestCalculateZScore(t *testing.T) {
	if z := CalculateZScore(15, 10, 2.5); z != 2 {
		t.Errorf("Expected z-score 2, got %v", z)
	}
	if z := CalculateZScore(15, 10, 0); !analytics.IsUndefined(z) {
		t.Errorf("Expected undefined z-score for zero spread, got %v", z)
	}
}

func TestZScores_PopulationSpread(t *testing.T) {
	// mean 5, population std 2
	scores := ZScores([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	want := []float64{-1.5, -0.5, -0.5, -0.5, 0, 0, 1, 2}
	for i := range want {
		if math.Abs(scores[i]-want[i]) > 1e-12 {
			t.Errorf("Score %d: expected %v, got %v", i, want[i], scores[i])
		}
	}
}
