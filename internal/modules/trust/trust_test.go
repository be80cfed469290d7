package trust

import (
	"math"
	"testing"
)

func TestTotalScoreWeights(t *testing.T) {
	// quality dominates: 0.6/0.2/0.2
	got := TotalScore(1, 0, 0, false)
	if math.Abs(got-0.6) > 1e-9 {
		t.Errorf("quality-only total = %v, want 0.6", got)
	}

	got = TotalScore(0.5, 0.5, 0.5, false)
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("uniform 0.5 total = %v, want 0.5", got)
	}
}

func TestTotalScoreImageBonusCanExceedOne(t *testing.T) {
	got := TotalScore(1, 1, 1, true)
	if math.Abs(got-1.1) > 1e-9 {
		t.Errorf("perfect scores with image = %v, want 1.1", got)
	}
}

func TestDeltaForTiers(t *testing.T) {
	cases := []struct {
		total float64
		want  int
	}{
		{0.8, 3},  // bottom of top tier
		{0.9, 4},
		{1.0, 5},
		{1.1, 6},  // image bonus overshoot, not re-clamped
		{0.79, 3}, // round(1 + 1.9) = 3
		{0.6, 1},
		{0.7, 2},
		{0.4, 1},  // round(0.8)
		{0.5, 1},
		{0.45, 1},
		{0.41, 1},
		{0.39, -1},
		{0.0, -1},
	}
	for _, c := range cases {
		if got := DeltaFor(c.total); got != c.want {
			t.Errorf("DeltaFor(%v) = %d, want %d", c.total, got, c.want)
		}
	}
}

func TestClampTrustScore(t *testing.T) {
	if got := ClampTrustScore(104); got != 100 {
		t.Errorf("clamp(104) = %d, want 100", got)
	}
	if got := ClampTrustScore(-1); got != 0 {
		t.Errorf("clamp(-1) = %d, want 0", got)
	}
	if got := ClampTrustScore(57); got != 57 {
		t.Errorf("clamp(57) = %d, want 57", got)
	}
}
