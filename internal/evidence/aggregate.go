// Package evidence turns a set of signal codes into a bounded confidence
// value. Strong (structural/URL/relationship) evidence is additive by
// weight; auxiliary (content-derived) evidence is clamped per signal and
// in total, and alone can never exceed the no-strong-evidence ceiling.
package evidence

import (
	"surfwatch/internal/model"
	"surfwatch/internal/signal"
)

// Aggregate computes the confidence for a set of signals and the reasons
// that contributed, in first-encounter order. Duplicate codes count once.
// The result is always in [0,1].
func Aggregate(signals []model.SignalCode) (float64, []model.SignalCode) {
	seen := make(map[model.SignalCode]bool, len(signals))
	reasons := make([]model.SignalCode, 0, len(signals))

	strong := 0.0
	aux := 0.0
	for _, code := range signals {
		if seen[code] || !signal.Known(code) {
			continue
		}
		seen[code] = true
		reasons = append(reasons, code)

		if w, ok := signal.Weight(code); ok {
			strong += w
			continue
		}
		aux += clamp(signal.AuxPerSignal, signal.AuxPerSignalMin, signal.AuxPerSignalMax)
	}

	if aux > signal.AuxTotalCap {
		aux = signal.AuxTotalCap
	}

	confidence := clamp(strong+aux, 0, 1)

	// Auxiliary evidence alone never produces a high-confidence verdict.
	if strong == 0 && confidence > signal.CapWithoutStrong {
		confidence = signal.CapWithoutStrong
	}

	return confidence, reasons
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
