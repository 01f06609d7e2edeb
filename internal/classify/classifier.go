// Package classify is the orchestrating front door of the estimation
// core: it validates incoming signal codes, derives URL evidence, and
// produces an ActivityEstimation via the evidence engine.
package classify

import (
	"sync/atomic"

	"surfwatch/internal/evidence"
	"surfwatch/internal/model"
	"surfwatch/internal/signal"
)

// DefaultPrecedence is the level evaluation order, highest severity
// first. The highest matching category wins — classification is
// single-valued, never a blend. The ordering is policy, not algorithm:
// deployments can override it through configuration.
var DefaultPrecedence = []model.ActivityLevel{
	model.LevelTransaction,
	model.LevelUGC,
	model.LevelAccount,
}

// Classifier turns a URL plus externally supplied signal codes into an
// ActivityEstimation. Classify is pure and synchronous — identical
// inputs always produce identical outputs.
type Classifier struct {
	precedence []model.ActivityLevel
	dropped    atomic.Int64
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithPrecedence overrides the level evaluation order (highest severity
// first; LevelView is always the implicit last resort).
func WithPrecedence(order []model.ActivityLevel) Option {
	return func(c *Classifier) {
		if len(order) > 0 {
			c.precedence = order
		}
	}
}

// New creates a Classifier with the default precedence.
func New(opts ...Option) *Classifier {
	c := &Classifier{precedence: DefaultPrecedence}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify validates explicit signals against the vocabulary, merges
// them with URL-derived signals, and returns the estimation. Unknown
// codes are dropped and counted, never an error.
func (c *Classifier) Classify(url string, explicit []model.SignalCode) model.ActivityEstimation {
	valid, dropped := signal.Filter(explicit)
	if len(dropped) > 0 {
		c.dropped.Add(int64(len(dropped)))
	}

	merged := append(signal.DetectURL(url), valid...)

	for _, level := range c.precedence {
		supporting := supportersOf(merged, level)
		if len(supporting) == 0 {
			continue
		}
		confidence, reasons := evidence.Aggregate(supporting)
		return model.ActivityEstimation{
			Level:      level,
			Confidence: confidence,
			Reasons:    reasons,
		}
	}

	// Nothing matched: passive viewing at baseline confidence.
	return model.ActivityEstimation{
		Level:      model.LevelView,
		Confidence: signal.Baseline,
		Reasons:    []model.SignalCode{},
	}
}

// DroppedCount returns how many unknown signal codes have been filtered
// out since creation. Surfaced as a diagnostic, not a failure.
func (c *Classifier) DroppedCount() int64 {
	return c.dropped.Load()
}

func supportersOf(codes []model.SignalCode, level model.ActivityLevel) []model.SignalCode {
	var out []model.SignalCode
	for _, code := range codes {
		if cat, ok := signal.CategoryOf(code); ok && cat == level {
			out = append(out, code)
		}
	}
	return out
}
