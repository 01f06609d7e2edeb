package model

import "time"

// SignalCode is an opaque code drawn from the closed vocabulary owned by
// internal/signal. Unknown codes are never valid inputs to scoring.
type SignalCode string

// ActivityEstimation is the output of one classification event.
// Produced fresh per event; never mutated after creation.
type ActivityEstimation struct {
	Level      ActivityLevel `json:"level"`
	Confidence float64       `json:"confidence"`
	Reasons    []SignalCode  `json:"reasons"`
}

// DomainActivityState is the per-domain aggregate kept in storage.
// The core only produces the ActivityEstimation that drives its update.
type DomainActivityState struct {
	Domain            string                `json:"domain"`
	LastLevel         ActivityLevel         `json:"last_level"`
	LastSeen          time.Time             `json:"last_seen"`
	VisitCounts       map[ActivityLevel]int `json:"-"`
	LastAccountAt     time.Time             `json:"last_account_at,omitzero"`
	LastTransactionAt time.Time             `json:"last_transaction_at,omitzero"`

	// RawCounts is the JSON shape of VisitCounts, keyed by level name so
	// stored state survives level renumbering.
	RawCounts map[string]int `json:"visit_counts"`
}

// NewDomainActivityState returns an initialized aggregate for a domain.
func NewDomainActivityState(domain string) *DomainActivityState {
	return &DomainActivityState{
		Domain:      domain,
		VisitCounts: make(map[ActivityLevel]int),
		RawCounts:   make(map[string]int),
	}
}

// Touch records one observed estimation at the given time.
func (s *DomainActivityState) Touch(est ActivityEstimation, at time.Time) {
	if s.VisitCounts == nil {
		s.VisitCounts = make(map[ActivityLevel]int)
	}
	s.VisitCounts[est.Level]++
	s.LastLevel = est.Level
	s.LastSeen = at
	switch est.Level {
	case LevelAccount:
		s.LastAccountAt = at
	case LevelTransaction:
		s.LastTransactionAt = at
	}
	s.syncRawCounts()
}

// TotalVisits returns the visit count summed across all levels.
func (s *DomainActivityState) TotalVisits() int {
	total := 0
	for _, n := range s.VisitCounts {
		total += n
	}
	return total
}

func (s *DomainActivityState) syncRawCounts() {
	if s.RawCounts == nil {
		s.RawCounts = make(map[string]int)
	}
	for l, n := range s.VisitCounts {
		s.RawCounts[l.String()] = n
	}
}

// RestoreCounts rebuilds VisitCounts from RawCounts after JSON decoding.
func (s *DomainActivityState) RestoreCounts() {
	s.VisitCounts = make(map[ActivityLevel]int, len(s.RawCounts))
	for name, n := range s.RawCounts {
		s.VisitCounts[ParseLevel(name)] += n
	}
}

// RiskRecord is the numeric attention score derived from an estimation.
type RiskRecord struct {
	Score      int          `json:"score"`
	Confidence float64      `json:"confidence"`
	Reasons    []SignalCode `json:"reasons"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// RelationshipCandidate holds inferred federation endpoints. Both fields
// are registrable (eTLD+1) domains, never full URLs. A round-trip is only
// meaningful when both are present and differ.
type RelationshipCandidate struct {
	RP  string `json:"rp,omitempty"`
	IdP string `json:"idp,omitempty"`
}

// Complete reports whether both endpoints are present and distinct.
func (c RelationshipCandidate) Complete() bool {
	return c.RP != "" && c.IdP != "" && c.RP != c.IdP
}

// SessionEvent is one observed navigation in a tab lineage.
type SessionEvent struct {
	Domain    string    `json:"domain"`
	Timestamp time.Time `json:"ts"`
	EventType string    `json:"event_type"`
}

// SessionContext is the ordered event history for a single tab lineage,
// oldest first. Read-only from the core's perspective.
type SessionContext []SessionEvent

// UserOverride is external per-domain state. The core consults only
// Pinned; the remaining fields belong to downstream presentation.
type UserOverride struct {
	Pinned      bool      `json:"pinned"`
	Whitelisted bool      `json:"whitelisted"`
	Ignored     bool      `json:"ignored"`
	Category    string    `json:"category,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NavigationEvent is what the host navigation sensor delivers on a page load.
type NavigationEvent struct {
	TabID       string    `json:"tab_id"`
	OpenerTabID string    `json:"opener_tab_id,omitempty"`
	URL         string    `json:"url"`
	Timestamp   time.Time `json:"ts"`
}

// SignalMessage is what the content-probing collaborator delivers.
// Signals must be validated against the vocabulary before use.
type SignalMessage struct {
	TabID     string       `json:"tab_id"`
	URL       string       `json:"url"`
	Signals   []SignalCode `json:"signals"`
	Timestamp time.Time    `json:"ts"`
}
