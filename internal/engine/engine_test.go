package engine

import (
	"context"
	"log"
	"strings"
	"testing"
	"time"

	"surfwatch/internal/classify"
	"surfwatch/internal/decide"
	"surfwatch/internal/federation"
	"surfwatch/internal/model"
	"surfwatch/internal/session"
	"surfwatch/internal/store"
)

type testRig struct {
	engine *Engine
	repo   *store.Repo
	queue  *store.UpdateQueue
}

func newRig(t *testing.T, opts Options) *testRig {
	t.Helper()

	logger := log.New(&strings.Builder{}, "", 0)
	repo := store.NewRepo(store.NewMemory())
	queue := store.NewUpdateQueue(32, logger)
	tracker := session.NewTracker()
	t.Cleanup(tracker.Close)

	opts.Classifier = classify.New()
	opts.Inferrer = federation.NewInferrer()
	opts.Tracker = tracker
	opts.Repo = repo
	opts.Queue = queue
	opts.Logger = logger

	eng, err := New(opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return &testRig{engine: eng, repo: repo, queue: queue}
}

// flush waits until every queued update has been applied.
func (r *testRig) flush(t *testing.T) {
	t.Helper()
	done := make(chan struct{})
	if !r.queue.Enqueue("flush", func(context.Context) error {
		close(done)
		return nil
	}) {
		t.Fatal("queue closed")
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("queue did not drain")
	}
}

func TestHandleNavigationClassifiesAndPersists(t *testing.T) {
	rig := newRig(t, Options{})
	ctx := context.Background()

	est, err := rig.engine.HandleNavigation(ctx, model.NavigationEvent{
		TabID:     "tab1",
		URL:       "https://example.com/login",
		Timestamp: time.Now(),
	})
	if err != nil {
		t.Fatalf("handle navigation: %v", err)
	}
	if est.Level != model.LevelAccount {
		t.Errorf("expected ACCOUNT, got %s", est.Level)
	}
	rig.flush(t)

	snap, err := rig.repo.Load(ctx, "example.com")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.State == nil || snap.State.LastLevel != model.LevelAccount {
		t.Fatalf("expected persisted ACCOUNT state, got %+v", snap.State)
	}
	if snap.Risk == nil || snap.Risk.Score == 0 {
		t.Errorf("expected a nonzero risk record, got %+v", snap.Risk)
	}
}

func TestHandleNavigationUnregistrableURL(t *testing.T) {
	rig := newRig(t, Options{})

	est, err := rig.engine.HandleNavigation(context.Background(), model.NavigationEvent{
		TabID: "tab1",
		URL:   "http://localhost:3000/dev",
	})
	if err != nil {
		t.Fatalf("expected no error for unregistrable host, got %v", err)
	}
	if est.Level != model.LevelView || est.Confidence != 0 {
		t.Errorf("expected zero-confidence VIEW, got %+v", est)
	}
}

func TestHandleSignalsMergesContentEvidence(t *testing.T) {
	rig := newRig(t, Options{})

	est, err := rig.engine.HandleSignals(context.Background(), model.SignalMessage{
		TabID:   "tab1",
		URL:     "https://example.com/login",
		Signals: []model.SignalCode{"content_password_field", "not_a_real_code"},
	})
	if err != nil {
		t.Fatalf("handle signals: %v", err)
	}
	if est.Level != model.LevelAccount {
		t.Errorf("expected ACCOUNT, got %s", est.Level)
	}
	if len(est.Reasons) != 2 {
		t.Errorf("expected URL and content reasons, got %v", est.Reasons)
	}
	if rig.engine.DroppedSignals() != 1 {
		t.Errorf("expected 1 dropped code, got %d", rig.engine.DroppedSignals())
	}
}

func TestFederationRoundTripInTab(t *testing.T) {
	rig := newRig(t, Options{})
	ctx := context.Background()
	at := time.Now()

	idpURL := "https://idp.example.com/authorize?redirect_uri=https%3A%2F%2Fapp.example.org%2Fcb"
	nav := func(url string, offset time.Duration) model.ActivityEstimation {
		est, err := rig.engine.HandleNavigation(ctx, model.NavigationEvent{
			TabID:     "tab1",
			URL:       url,
			Timestamp: at.Add(offset),
		})
		if err != nil {
			t.Fatalf("navigation: %v", err)
		}
		return est
	}

	nav("https://app.example.org/dashboard", 0)
	first := nav(idpURL, time.Second)
	nav("https://app.example.org/cb", 2*time.Second)
	// A later IdP visit sees the completed round trip in its history.
	second := nav(idpURL, 3*time.Second)

	if hasReason(first.Reasons, "rel_temporal_chain") {
		t.Errorf("first IdP visit has no completed round trip yet: %v", first.Reasons)
	}
	if !hasReason(second.Reasons, "rel_redirect_match") {
		t.Errorf("expected rel_redirect_match, got %v", second.Reasons)
	}
	if !hasReason(second.Reasons, "rel_temporal_chain") {
		t.Errorf("expected rel_temporal_chain after the return leg, got %v", second.Reasons)
	}
	if second.Confidence < 0.8 {
		t.Errorf("expected high confidence for a completed round trip, got %v", second.Confidence)
	}
}

func hasReason(reasons []model.SignalCode, want model.SignalCode) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

func TestSnapshotNeverSeenDomain(t *testing.T) {
	rig := newRig(t, Options{})

	view, err := rig.engine.Snapshot(context.Background(), "unknown.example")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if view.Recommendation != model.StateNone {
		t.Errorf("expected NONE, got %s", view.Recommendation)
	}
	if view.State != nil || view.Risk != nil {
		t.Errorf("expected empty view, got %+v", view)
	}
}

func TestSetPinnedDrivesRecommendation(t *testing.T) {
	rig := newRig(t, Options{})
	ctx := context.Background()

	if err := rig.engine.SetPinned(ctx, "example.com", true); err != nil {
		t.Fatalf("pin: %v", err)
	}

	view, err := rig.engine.Snapshot(ctx, "example.com")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if view.Recommendation != model.StatePinned {
		t.Errorf("expected PINNED, got %s", view.Recommendation)
	}

	if err := rig.engine.SetPinned(ctx, "example.com", false); err != nil {
		t.Fatalf("unpin: %v", err)
	}
	view, _ = rig.engine.Snapshot(ctx, "example.com")
	if view.Recommendation == model.StatePinned {
		t.Error("expected pin removed")
	}
}

func TestVisitCountsAccumulate(t *testing.T) {
	rig := newRig(t, Options{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := rig.engine.HandleNavigation(ctx, model.NavigationEvent{
			TabID: "tab1",
			URL:   "https://example.com/articles/x",
		}); err != nil {
			t.Fatalf("navigation: %v", err)
		}
	}
	rig.flush(t)

	snap, _ := rig.repo.Load(ctx, "example.com")
	if snap.State == nil || snap.State.TotalVisits() != 3 {
		t.Errorf("expected 3 visits, got %+v", snap.State)
	}
}

func TestFrequencyPromotesToReview(t *testing.T) {
	rig := newRig(t, Options{Thresholds: decide.Thresholds{
		SuggestConfidence: 0.8,
		ReviewConfidence:  0.6,
		SuggestScoreMin:   20,
		FrequencyReview:   5,
	}})
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		rig.engine.HandleNavigation(ctx, model.NavigationEvent{
			TabID: "tab1",
			URL:   "https://example.com/news",
		})
	}
	rig.flush(t)

	view, err := rig.engine.Snapshot(ctx, "example.com")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if view.Recommendation != model.StateNeedsReview {
		t.Errorf("expected NEEDS_REVIEW for a heavily visited domain, got %s", view.Recommendation)
	}
}
