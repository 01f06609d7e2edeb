// Package decide turns level, score, confidence, relationship context,
// visit frequency, and pin status into one management recommendation.
package decide

import "surfwatch/internal/model"

// Thresholds are the tunable decision boundaries.
type Thresholds struct {
	// SuggestConfidence is the minimum confidence for a SUGGESTED verdict.
	SuggestConfidence float64 `yaml:"suggest_confidence"`
	// ReviewConfidence is the minimum confidence for NEEDS_REVIEW on a
	// non-VIEW level.
	ReviewConfidence float64 `yaml:"review_confidence"`
	// SuggestScoreMin gates ACCOUNT promotion to SUGGESTED when no
	// federation relationship was detected.
	SuggestScoreMin int `yaml:"suggest_score_min"`
	// FrequencyReview is the visit count above which any domain merits
	// review, even passive browsing.
	FrequencyReview int `yaml:"frequency_review"`
}

// DefaultThresholds returns the built-in decision boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SuggestConfidence: 0.80,
		ReviewConfidence:  0.60,
		SuggestScoreMin:   20,
		FrequencyReview:   50,
	}
}

// Input carries everything the decision engine consults.
type Input struct {
	Level           model.ActivityLevel
	Score           int
	Confidence      float64
	HasRelationship bool
	VisitCount      int
	Pinned          bool
}

// Decide evaluates the ordered decision list — a priority cascade, first
// matching rule wins, not independent rule voting:
//
//  1. user pin → PINNED, unconditionally
//  2. high confidence + (TRANSACTION, or ACCOUNT with a detected
//     relationship or a minimum score) → SUGGESTED
//  3. non-VIEW with medium confidence or high frequency → NEEDS_REVIEW
//  4. VIEW with high frequency → NEEDS_REVIEW
//  5. otherwise → NONE
//
// The ACCOUNT guard in rule 2 exists because a bare login-looking URL
// with no corroborating relationship and a low score is likely noise.
func Decide(in Input, t Thresholds) model.ManagementState {
	if in.Pinned {
		return model.StatePinned
	}

	if in.Confidence >= t.SuggestConfidence {
		switch in.Level {
		case model.LevelTransaction:
			return model.StateSuggested
		case model.LevelAccount:
			if in.HasRelationship || in.Score >= t.SuggestScoreMin {
				return model.StateSuggested
			}
		}
	}

	if in.Level != model.LevelView &&
		(in.Confidence >= t.ReviewConfidence || in.VisitCount > t.FrequencyReview) {
		return model.StateNeedsReview
	}

	if in.Level == model.LevelView && in.VisitCount > t.FrequencyReview {
		return model.StateNeedsReview
	}

	return model.StateNone
}
