// Package trust turns an action's quality assessment into a bounded
// adjustment of the owner's trust score and token balance.
package trust

import "math"

const (
	qualityWeight   = 0.6
	sentimentWeight = 0.2
	relevanceWeight = 0.2

	imageBonus = 0.1

	MinTrustScore = 0
	MaxTrustScore = 100
)

// TotalScore blends the three normalized assessment scores, quality
// dominating, plus a flat bonus when photographic proof was attached.
// The result may exceed 1.0 (quality 1.0 with the image bonus); the tier
// lookup is applied to it as-is.
func TotalScore(quality, sentiment, relevance float64, imageProvided bool) float64 {
	base := quality*qualityWeight + sentiment*sentimentWeight + relevance*relevanceWeight
	if imageProvided {
		return base + imageBonus
	}
	return base
}

// DeltaFor maps a total score onto a trust-score delta:
//
//	>= 0.8       +3 to +5 (and beyond with the image bonus)
//	[0.6, 0.8)   +1 to +3
//	[0.4, 0.6)    0 to +1
//	<  0.4       -1 flat penalty
func DeltaFor(totalScore float64) int {
	switch {
	case totalScore >= 0.8:
		return int(math.Round(3 + (totalScore-0.8)*10))
	case totalScore >= 0.6:
		return int(math.Round(1 + (totalScore-0.6)*10))
	case totalScore >= 0.4:
		return int(math.Round(totalScore * 2))
	default:
		return -1
	}
}

// ClampTrustScore bounds a trust score into [0,100].
func ClampTrustScore(score int) int {
	if score < MinTrustScore {
		return MinTrustScore
	}
	if score > MaxTrustScore {
		return MaxTrustScore
	}
	return score
}
