package federation

import (
	"testing"
	"time"

	"surfwatch/internal/model"
)

func context(domains ...string) model.SessionContext {
	sc := make(model.SessionContext, 0, len(domains))
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, d := range domains {
		sc = append(sc, model.SessionEvent{
			Domain:    d,
			Timestamp: at.Add(time.Duration(i) * time.Second),
			EventType: "navigation",
		})
	}
	return sc
}

func TestRoundTripDetected(t *testing.T) {
	sc := context("app.example", "idp.example", "app.example")
	if !RoundTrip(sc, "app.example", "idp.example") {
		t.Error("expected round-trip for rp → idp → rp")
	}
}

func TestRoundTripNonAdjacent(t *testing.T) {
	// Unrelated navigations in between do not break the subsequence.
	sc := context("app.example", "news.example", "idp.example", "cdn.example", "app.example")
	if !RoundTrip(sc, "app.example", "idp.example") {
		t.Error("expected round-trip despite interleaved navigations")
	}
}

func TestRoundTripNoReturn(t *testing.T) {
	sc := context("app.example", "idp.example")
	if RoundTrip(sc, "app.example", "idp.example") {
		t.Error("expected no round-trip without the return leg")
	}
}

func TestRoundTripWrongOrder(t *testing.T) {
	sc := context("idp.example", "app.example", "idp.example")
	if RoundTrip(sc, "app.example", "idp.example") {
		t.Error("expected no round-trip for idp → rp → idp")
	}
}

func TestRoundTripSameDomain(t *testing.T) {
	sc := context("example.com", "example.com", "example.com")
	if RoundTrip(sc, "example.com", "example.com") {
		t.Error("identical domains never form a relationship")
	}
}

func TestRoundTripEmptyContext(t *testing.T) {
	if RoundTrip(nil, "app.example", "idp.example") {
		t.Error("expected false for absent context")
	}
}

func TestRoundTripEmptyEndpoints(t *testing.T) {
	sc := context("app.example", "idp.example", "app.example")
	if RoundTrip(sc, "", "idp.example") || RoundTrip(sc, "app.example", "") {
		t.Error("expected false when an endpoint is missing")
	}
}
