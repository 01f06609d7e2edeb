// Package session keeps the per-tab navigation lineage the federation
// engine matches round-trips against. It implements the session-context
// contract: opener lookup, last-domain lookup, and ordered event history
// for a tab lineage.
package session

import (
	"sort"
	"sync"
	"time"

	"surfwatch/internal/model"
)

// EventNavigation is the event type recorded for page loads.
const EventNavigation = "navigation"

// maxLineageDepth bounds the opener-chain walk. Opener cycles cannot
// happen in a well-behaved sensor, but input is untrusted.
const maxLineageDepth = 8

type tabState struct {
	openerID  string
	events    []model.SessionEvent
	lastTouch time.Time
}

// Tracker is a concurrency-safe in-memory tab registry with TTL expiry.
type Tracker struct {
	mu   sync.RWMutex
	tabs map[string]*tabState

	maxAge    time.Duration
	cleanup   time.Duration
	maxEvents int

	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithMaxAge sets how long an idle tab's history is retained.
func WithMaxAge(d time.Duration) Option {
	return func(t *Tracker) { t.maxAge = d }
}

// WithCleanupInterval sets how often expired tabs are swept.
func WithCleanupInterval(d time.Duration) Option {
	return func(t *Tracker) { t.cleanup = d }
}

// WithMaxEvents bounds the sliding event window kept per tab.
func WithMaxEvents(n int) Option {
	return func(t *Tracker) { t.maxEvents = n }
}

// NewTracker creates a Tracker and starts its background sweep.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		tabs:      make(map[string]*tabState),
		maxAge:    30 * time.Minute,
		cleanup:   5 * time.Minute,
		maxEvents: 50,
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.sweepLoop()
	return t
}

// Record stores one navigation for a tab. The opener link is captured on
// first sight of the tab and never rewritten.
func (t *Tracker) Record(tabID, openerTabID, domain string, at time.Time) {
	if tabID == "" || domain == "" {
		return
	}
	if at.IsZero() {
		at = time.Now()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.tabs[tabID]
	if !ok {
		st = &tabState{openerID: openerTabID}
		t.tabs[tabID] = st
	}
	st.events = append(st.events, model.SessionEvent{
		Domain:    domain,
		Timestamp: at,
		EventType: EventNavigation,
	})
	if len(st.events) > t.maxEvents {
		st.events = st.events[len(st.events)-t.maxEvents:]
	}
	st.lastTouch = at
}

// OpenerID returns the opener tab recorded for a tab, or "".
func (t *Tracker) OpenerID(tabID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if st, ok := t.tabs[tabID]; ok {
		return st.openerID
	}
	return ""
}

// LastDomain returns the most recently visited domain for a tab, or "".
func (t *Tracker) LastDomain(tabID string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.tabs[tabID]
	if !ok || len(st.events) == 0 {
		return ""
	}
	return st.events[len(st.events)-1].Domain
}

// Context returns the ordered event history for a tab's lineage — the
// tab's own events plus its opener chain's, oldest first. A tab with no
// history yields nil.
func (t *Tracker) Context(tabID string) model.SessionContext {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var merged []model.SessionEvent
	seen := map[string]bool{}
	id := tabID
	for depth := 0; id != "" && depth < maxLineageDepth; depth++ {
		if seen[id] {
			break
		}
		seen[id] = true
		st, ok := t.tabs[id]
		if !ok {
			break
		}
		merged = append(merged, st.events...)
		id = st.openerID
	}
	if len(merged) == 0 {
		return nil
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.Before(merged[j].Timestamp)
	})
	return merged
}

// Close stops the background sweep.
func (t *Tracker) Close() {
	t.stopOnce.Do(func() { close(t.stop) })
}

func (t *Tracker) sweepLoop() {
	ticker := time.NewTicker(t.cleanup)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.sweep()
		case <-t.stop:
			return
		}
	}
}

func (t *Tracker) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	for id, st := range t.tabs {
		if now.Sub(st.lastTouch) > t.maxAge {
			delete(t.tabs, id)
		}
	}
}
