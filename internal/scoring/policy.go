// Package scoring holds the survival score weighting and tier boundaries.
//
// Every project is scored on six levers in [0,10]. The survival score is the
// weighted sum of those levers and maps onto a letter tier from S down to F.
package scoring

import (
	"math"

	"survival-index/internal/common"
	"survival-index/internal/domain"
)

// Weights for each lever in the survival score. They sum to 1.0.
const (
	WeightInsightCompression  = 0.20
	WeightSubstrateEfficiency = 0.18
	WeightBroadUtility        = 0.22
	WeightAwareness           = 0.15
	WeightAgentFriction       = 0.15
	WeightHumanCoefficient    = 0.10
)

// Weight returns the weight of a single lever, or 0 for an unknown lever.
func Weight(l domain.Lever) float64 {
	switch l {
	case domain.LeverInsightCompression:
		return WeightInsightCompression
	case domain.LeverSubstrateEfficiency:
		return WeightSubstrateEfficiency
	case domain.LeverBroadUtility:
		return WeightBroadUtility
	case domain.LeverAwareness:
		return WeightAwareness
	case domain.LeverAgentFriction:
		return WeightAgentFriction
	case domain.LeverHumanCoefficient:
		return WeightHumanCoefficient
	default:
		return 0
	}
}

// WeightedScore returns the weighted sum of the lever scores.
// A NaN or infinite lever is rejected with a VALIDATION_ERROR; range checks are
// the caller's job.
func WeightedScore(s domain.LeverScores) (float64, error) {
	var sum float64
	for _, l := range domain.Levers {
		v := s.Get(l)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, common.Validation("lever %s is not a finite number", l)
		}
		sum += v * Weight(l)
	}
	return sum, nil
}

// TierFor converts a survival score to a tier. Lower bounds are inclusive.
func TierFor(score float64) domain.Tier {
	switch {
	case score >= 9.0:
		return domain.TierS
	case score >= 8.0:
		return domain.TierA
	case score >= 7.0:
		return domain.TierB
	case score >= 6.0:
		return domain.TierC
	case score >= 5.0:
		return domain.TierD
	default:
		return domain.TierF
	}
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
