package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTouchUpdatesAggregate(t *testing.T) {
	s := NewDomainActivityState("example.com")
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	s.Touch(ActivityEstimation{Level: LevelView}, at)
	s.Touch(ActivityEstimation{Level: LevelAccount}, at.Add(time.Minute))

	if s.LastLevel != LevelAccount {
		t.Errorf("expected ACCOUNT, got %s", s.LastLevel)
	}
	if !s.LastSeen.Equal(at.Add(time.Minute)) {
		t.Errorf("expected LastSeen updated, got %v", s.LastSeen)
	}
	if !s.LastAccountAt.Equal(at.Add(time.Minute)) {
		t.Errorf("expected LastAccountAt stamped, got %v", s.LastAccountAt)
	}
	if s.TotalVisits() != 2 {
		t.Errorf("expected 2 visits, got %d", s.TotalVisits())
	}
}

func TestTouchStampsTransactionTime(t *testing.T) {
	s := NewDomainActivityState("shop.example")
	at := time.Now().UTC()

	s.Touch(ActivityEstimation{Level: LevelTransaction}, at)

	if !s.LastTransactionAt.Equal(at) {
		t.Errorf("expected LastTransactionAt stamped, got %v", s.LastTransactionAt)
	}
	if !s.LastAccountAt.IsZero() {
		t.Error("LastAccountAt must stay zero for a transaction touch")
	}
}

func TestVisitCountsSurviveJSON(t *testing.T) {
	s := NewDomainActivityState("example.com")
	at := time.Now().UTC()
	s.Touch(ActivityEstimation{Level: LevelAccount}, at)
	s.Touch(ActivityEstimation{Level: LevelAccount}, at)
	s.Touch(ActivityEstimation{Level: LevelView}, at)

	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back DomainActivityState
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	back.RestoreCounts()

	if back.VisitCounts[LevelAccount] != 2 || back.VisitCounts[LevelView] != 1 {
		t.Errorf("expected counts restored, got %v", back.VisitCounts)
	}
	if back.TotalVisits() != 3 {
		t.Errorf("expected 3 total visits, got %d", back.TotalVisits())
	}
}

func TestRelationshipCandidateComplete(t *testing.T) {
	cases := []struct {
		c    RelationshipCandidate
		want bool
	}{
		{RelationshipCandidate{RP: "a.example", IdP: "b.example"}, true},
		{RelationshipCandidate{RP: "a.example"}, false},
		{RelationshipCandidate{IdP: "b.example"}, false},
		{RelationshipCandidate{RP: "same.example", IdP: "same.example"}, false},
		{RelationshipCandidate{}, false},
	}
	for _, c := range cases {
		if got := c.c.Complete(); got != c.want {
			t.Errorf("%+v: expected %v, got %v", c.c, c.want, got)
		}
	}
}
