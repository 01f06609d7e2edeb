// Package risk converts activity estimations into a 0–100 attention
// score. Confidence discounts severity — it never inflates it.
package risk

import (
	"math"
	"time"

	"surfwatch/internal/model"
)

// baseScores is the fixed per-level severity base.
var baseScores = map[model.ActivityLevel]int{
	model.LevelTransaction: 70,
	model.LevelUGC:         45,
	model.LevelAccount:     30,
	model.LevelView:        5,
}

// Score computes round(clamp(base × confidence, 0, 100)). Unrecognized
// levels fall back to the VIEW base; out-of-range confidence is capped,
// not rejected. The result is always an integer in [0,100].
func Score(level model.ActivityLevel, confidence float64) int {
	base, ok := baseScores[level]
	if !ok {
		base = baseScores[model.LevelView]
	}

	if math.IsNaN(confidence) || confidence < 0 {
		confidence = 0
	} else if confidence > 1 {
		confidence = 1
	}

	s := math.Round(float64(base) * confidence)
	if s < 0 {
		s = 0
	}
	if s > 100 {
		s = 100
	}
	return int(s)
}

// Record derives a RiskRecord from an estimation, stamped at the given
// time.
func Record(est model.ActivityEstimation, at time.Time) model.RiskRecord {
	return model.RiskRecord{
		Score:      Score(est.Level, est.Confidence),
		Confidence: clamp01(est.Confidence),
		Reasons:    est.Reasons,
		UpdatedAt:  at,
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
