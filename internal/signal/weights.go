package signal

import "surfwatch/internal/model"

// evidenceWeights maps each strong signal to its additive confidence
// contribution. A code absent from this table is auxiliary: its
// contribution is governed by the Aux constants instead. Content-derived
// codes are deliberately never listed here.
var evidenceWeights = map[model.SignalCode]float64{
	RelTemporalChain: 0.50,
	URLOAuthParams:   0.45,
	URLPaymentPath:   0.45,
	RelRedirectMatch: 0.40,
	URLLoginPath:     0.35,
	RelKnownIdP:      0.35,
	URLEditorPath:    0.30,
	URLSignupPath:    0.30,
	URLAccountPath:   0.25,
	RelOpenerMatch:   0.25,
}

// Aux bounds for content-derived (auxiliary) evidence.
const (
	// AuxPerSignal is the nominal contribution of one auxiliary signal.
	AuxPerSignal = 0.15
	// AuxPerSignalMin and AuxPerSignalMax clamp each signal's contribution.
	AuxPerSignalMin = 0.05
	AuxPerSignalMax = 0.20
	// AuxTotalCap bounds the combined auxiliary contribution.
	AuxTotalCap = 0.30
	// CapWithoutStrong is the confidence ceiling when no strong evidence
	// is present. Content signals alone can corroborate, never convict.
	CapWithoutStrong = 0.60
	// Baseline is the confidence reported for a pattern-free VIEW result.
	Baseline = 0.10
)

// Weight returns the strong-evidence weight for a code, and whether the
// code is strong at all.
func Weight(code model.SignalCode) (float64, bool) {
	w, ok := evidenceWeights[code]
	return w, ok
}

// IsStrong reports whether the code carries structural evidence weight.
func IsStrong(code model.SignalCode) bool {
	_, ok := evidenceWeights[code]
	return ok
}
