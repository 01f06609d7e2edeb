package model

import "encoding/json"

// ActivityLevel classifies how sensitive a user's interaction with a
// domain is. Ordinal: View is the lowest severity, Transaction the highest.
type ActivityLevel int

const (
	LevelView        ActivityLevel = 0
	LevelAccount     ActivityLevel = 1
	LevelUGC         ActivityLevel = 2
	LevelTransaction ActivityLevel = 3
)

func (l ActivityLevel) String() string {
	switch l {
	case LevelView:
		return "VIEW"
	case LevelAccount:
		return "ACCOUNT"
	case LevelUGC:
		return "UGC"
	case LevelTransaction:
		return "TRANSACTION"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a string to an ActivityLevel. Unknown values fall back
// to LevelView — the lowest severity, never an error.
func ParseLevel(s string) ActivityLevel {
	switch s {
	case "ACCOUNT":
		return LevelAccount
	case "UGC":
		return LevelUGC
	case "TRANSACTION":
		return LevelTransaction
	default:
		return LevelView
	}
}

// MarshalJSON serializes the level by name so stored and served state
// is self-describing.
func (l ActivityLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts the level name, or a bare number for records
// written before levels were name-serialized. Unknown input falls back
// to LevelView.
func (l *ActivityLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = ParseLevel(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		*l = LevelView
		return nil
	}
	if n < int(LevelView) || n > int(LevelTransaction) {
		*l = LevelView
		return nil
	}
	*l = ActivityLevel(n)
	return nil
}

// Levels lists all activity levels in ascending severity order.
func Levels() []ActivityLevel {
	return []ActivityLevel{LevelView, LevelAccount, LevelUGC, LevelTransaction}
}

// ManagementState is the UI-facing recommendation for a domain,
// ordered by attention required. Pinned is a user override, not a
// computed severity.
type ManagementState string

const (
	StateNone        ManagementState = "none"
	StateNeedsReview ManagementState = "needs_review"
	StateSuggested   ManagementState = "suggested"
	StatePinned      ManagementState = "pinned"
)

// ParseState maps a string to a ManagementState. Unknown values fall
// back to StateNone.
func ParseState(s string) ManagementState {
	switch ManagementState(s) {
	case StateNeedsReview, StateSuggested, StatePinned:
		return ManagementState(s)
	default:
		return StateNone
	}
}
