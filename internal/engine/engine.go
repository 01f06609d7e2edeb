// Package engine wires the pure estimation core to its collaborators:
// the session tracker, the storage repositories, the update queue, and
// the decision log. All collaborators are injected; the engine owns no
// ambient state.
package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"surfwatch/internal/alert"
	"surfwatch/internal/audit"
	"surfwatch/internal/classify"
	"surfwatch/internal/decide"
	"surfwatch/internal/federation"
	"surfwatch/internal/model"
	"surfwatch/internal/risk"
	"surfwatch/internal/session"
	"surfwatch/internal/signal"
	"surfwatch/internal/store"
	"surfwatch/internal/urlx"
)

// Engine orchestrates one classification pipeline per observed event.
type Engine struct {
	classifier *classify.Classifier
	inferrer   *federation.Inferrer
	tracker    *session.Tracker
	repo       *store.Repo
	queue      *store.UpdateQueue
	decisions  *audit.Log
	alerts     *alert.Dispatcher
	logger     *log.Logger

	mu         sync.RWMutex
	thresholds decide.Thresholds

	cleanupMu   sync.Mutex
	lastCleanup time.Time

	eventTTL           time.Duration
	domainTTL          time.Duration
	cleanupMinInterval time.Duration
}

// Options configures an Engine.
type Options struct {
	Classifier *classify.Classifier
	Inferrer   *federation.Inferrer
	Tracker    *session.Tracker
	Repo       *store.Repo
	Queue      *store.UpdateQueue
	Decisions  *audit.Log        // optional
	Alerts     *alert.Dispatcher // optional
	Logger     *log.Logger
	Thresholds decide.Thresholds

	EventTTL           time.Duration
	DomainTTL          time.Duration
	CleanupMinInterval time.Duration
}

// New creates an Engine. Classifier, Inferrer, Tracker, Repo, and Queue
// are required.
func New(opts Options) (*Engine, error) {
	if opts.Classifier == nil || opts.Inferrer == nil || opts.Tracker == nil ||
		opts.Repo == nil || opts.Queue == nil {
		return nil, fmt.Errorf("engine: missing required collaborator")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	thresholds := opts.Thresholds
	if thresholds == (decide.Thresholds{}) {
		thresholds = decide.DefaultThresholds()
	}
	return &Engine{
		classifier:         opts.Classifier,
		inferrer:           opts.Inferrer,
		tracker:            opts.Tracker,
		repo:               opts.Repo,
		queue:              opts.Queue,
		decisions:          opts.Decisions,
		alerts:             opts.Alerts,
		logger:             logger,
		thresholds:         thresholds,
		eventTTL:           opts.EventTTL,
		domainTTL:          opts.DomainTTL,
		cleanupMinInterval: opts.CleanupMinInterval,
	}, nil
}

// SetThresholds swaps the decision thresholds (hot reload).
func (e *Engine) SetThresholds(t decide.Thresholds) {
	e.mu.Lock()
	e.thresholds = t
	e.mu.Unlock()
}

// Thresholds returns the current decision thresholds.
func (e *Engine) Thresholds() decide.Thresholds {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.thresholds
}

// HandleNavigation processes one page load: record the tab lineage,
// infer federation relationships, classify, and queue the state update.
// A URL with no registrable domain contributes nothing and is not an
// error.
func (e *Engine) HandleNavigation(ctx context.Context, ev model.NavigationEvent) (model.ActivityEstimation, error) {
	return e.process(ctx, ev.TabID, ev.OpenerTabID, ev.URL, ev.Timestamp, nil)
}

// HandleSignals processes one content-probe message. The explicit codes
// are validated against the vocabulary inside the classifier; unknown
// codes are dropped, never an error.
func (e *Engine) HandleSignals(ctx context.Context, msg model.SignalMessage) (model.ActivityEstimation, error) {
	return e.process(ctx, msg.TabID, "", msg.URL, msg.Timestamp, msg.Signals)
}

func (e *Engine) process(ctx context.Context, tabID, openerTabID, rawURL string, at time.Time, explicit []model.SignalCode) (model.ActivityEstimation, error) {
	domain := urlx.DomainOf(rawURL)
	if domain == "" {
		// Malformed or unregistrable: this event contributes no evidence.
		return model.ActivityEstimation{
			Level:      model.LevelView,
			Confidence: 0,
			Reasons:    []model.SignalCode{},
		}, nil
	}
	if at.IsZero() {
		at = time.Now()
	}

	if tabID != "" {
		e.tracker.Record(tabID, openerTabID, domain, at)
	}

	openerDomain := ""
	opener := openerTabID
	if opener == "" && tabID != "" {
		opener = e.tracker.OpenerID(tabID)
	}
	if opener != "" {
		openerDomain = e.tracker.LastDomain(opener)
	}

	var sc model.SessionContext
	if tabID != "" {
		sc = e.tracker.Context(tabID)
	}

	inf := e.inferrer.Infer(rawURL, openerDomain, sc)

	merged := append(inf.Signals, explicit...)
	est := e.classifier.Classify(rawURL, merged)
	rec := risk.Record(est, at)
	hasRelationship := inf.HasRelationship()

	queued := e.queue.Enqueue("classify "+domain, func(ctx context.Context) error {
		return e.commit(ctx, domain, est, rec, hasRelationship, at)
	})
	if !queued {
		return est, fmt.Errorf("engine: update queue closed")
	}
	return est, nil
}

// commit is the serialized read-modify-write for one classification.
// It runs on the update queue: a failure here drops this event's update
// without committing partial state.
func (e *Engine) commit(ctx context.Context, domain string, est model.ActivityEstimation, rec model.RiskRecord, hasRelationship bool, at time.Time) error {
	snap, err := e.repo.Load(ctx, domain)
	if err != nil {
		return err
	}

	previous := e.recommendationOf(snap)

	state := snap.State
	if state == nil {
		state = model.NewDomainActivityState(domain)
	}
	state.Touch(est, at)

	pinned := snap.Override != nil && snap.Override.Pinned
	decision := decide.Decide(decide.Input{
		Level:           est.Level,
		Score:           rec.Score,
		Confidence:      est.Confidence,
		HasRelationship: hasRelationship,
		VisitCount:      state.TotalVisits(),
		Pinned:          pinned,
	}, e.Thresholds())

	ev := store.EventRecord{Domain: domain, Level: est.Level, Timestamp: at}
	if err := e.repo.Commit(ctx, state, rec, ev); err != nil {
		return err
	}

	if e.decisions != nil {
		reasons := make([]string, len(est.Reasons))
		for i, r := range est.Reasons {
			reasons[i] = string(r)
		}
		entry := audit.Entry{
			Domain:     domain,
			Level:      est.Level.String(),
			Score:      rec.Score,
			Confidence: rec.Confidence,
			State:      string(decision),
			Reasons:    reasons,
		}
		if err := e.decisions.Record(entry); err != nil {
			e.logger.Printf("decision log: %v", err)
		}
	}

	if e.alerts != nil && decision != previous {
		e.alerts.Dispatch(alert.Event{
			Timestamp:  at.UTC().Format(time.RFC3339),
			Domain:     domain,
			Level:      est.Level.String(),
			Score:      rec.Score,
			Confidence: rec.Confidence,
			State:      string(decision),
			Previous:   string(previous),
		})
	}
	return nil
}

// recommendationOf derives the recommendation a snapshot would report,
// before this event's update is applied.
func (e *Engine) recommendationOf(snap *store.Snapshot) model.ManagementState {
	if snap.State == nil && snap.Override == nil {
		return model.StateNone
	}
	in := decide.Input{
		Pinned: snap.Override != nil && snap.Override.Pinned,
	}
	if snap.State != nil {
		in.Level = snap.State.LastLevel
		in.VisitCount = snap.State.TotalVisits()
	}
	if snap.Risk != nil {
		in.Score = snap.Risk.Score
		in.Confidence = snap.Risk.Confidence
		in.HasRelationship = hasRelationshipReason(snap.Risk.Reasons)
	}
	return decide.Decide(in, e.Thresholds())
}

// View is what the query surface reports for one domain.
type View struct {
	Domain         string                     `json:"domain"`
	State          *model.DomainActivityState `json:"state,omitempty"`
	Risk           *model.RiskRecord          `json:"risk,omitempty"`
	Override       *model.UserOverride        `json:"override,omitempty"`
	Recommendation model.ManagementState      `json:"recommendation"`
}

// Snapshot reads the stored view of one domain and derives the current
// recommendation. A never-seen domain reports StateNone.
func (e *Engine) Snapshot(ctx context.Context, domain string) (*View, error) {
	snap, err := e.repo.Load(ctx, domain)
	if err != nil {
		return nil, err
	}

	view := &View{
		Domain:         domain,
		State:          snap.State,
		Risk:           snap.Risk,
		Override:       snap.Override,
		Recommendation: e.recommendationOf(snap),
	}
	return view, nil
}

// SetPinned flips the user pin for a domain through the update queue.
func (e *Engine) SetPinned(ctx context.Context, domain string, pinned bool) error {
	done := make(chan error, 1)
	queued := e.queue.Enqueue("pin "+domain, func(ctx context.Context) error {
		ov, err := e.repo.Override(ctx, domain)
		if err != nil {
			done <- err
			return err
		}
		if ov == nil {
			ov = &model.UserOverride{}
		}
		ov.Pinned = pinned
		ov.UpdatedAt = time.Now()
		err = e.repo.SaveOverride(ctx, domain, *ov)
		done <- err
		return err
	})
	if !queued {
		return fmt.Errorf("engine: update queue closed")
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DroppedSignals reports how many unknown signal codes were filtered.
func (e *Engine) DroppedSignals() int64 {
	return e.classifier.DroppedCount()
}

func hasRelationshipReason(reasons []model.SignalCode) bool {
	for _, r := range reasons {
		switch r {
		case signal.RelRedirectMatch, signal.RelOpenerMatch, signal.RelKnownIdP, signal.RelTemporalChain:
			return true
		}
	}
	return false
}
