package risk

import (
	"math"
	"testing"
	"time"

	"surfwatch/internal/model"
	"surfwatch/internal/signal"
)

func TestScoreTransactionFullConfidence(t *testing.T) {
	if s := Score(model.LevelTransaction, 1.0); s != 70 {
		t.Errorf("expected 70, got %d", s)
	}
}

func TestScoreConfidenceDiscounts(t *testing.T) {
	cases := []struct {
		level model.ActivityLevel
		conf  float64
		want  int
	}{
		{model.LevelTransaction, 0.5, 35},
		{model.LevelUGC, 1.0, 45},
		{model.LevelUGC, 0.3, 14}, // round(13.5)
		{model.LevelAccount, 0.8, 24},
		{model.LevelView, 1.0, 5},
		{model.LevelView, 0.1, 1},
	}
	for _, c := range cases {
		if got := Score(c.level, c.conf); got != c.want {
			t.Errorf("%s@%v: expected %d, got %d", c.level, c.conf, c.want, got)
		}
	}
}

func TestScoreZeroConfidence(t *testing.T) {
	if s := Score(model.LevelTransaction, 0); s != 0 {
		t.Errorf("expected 0 for zero confidence, got %d", s)
	}
}

func TestScoreOutOfRangeConfidenceCapped(t *testing.T) {
	if s := Score(model.LevelTransaction, 3.0); s != 70 {
		t.Errorf("expected over-range confidence capped to 1.0, got %d", s)
	}
	if s := Score(model.LevelTransaction, -0.5); s != 0 {
		t.Errorf("expected negative confidence floored to 0, got %d", s)
	}
	if s := Score(model.LevelTransaction, math.NaN()); s != 0 {
		t.Errorf("expected NaN confidence to score 0, got %d", s)
	}
}

func TestScoreUnknownLevelFallsBack(t *testing.T) {
	if s := Score(model.ActivityLevel(99), 1.0); s != 5 {
		t.Errorf("expected VIEW base for unknown level, got %d", s)
	}
}

func TestScoreAlwaysInRange(t *testing.T) {
	for _, level := range model.Levels() {
		for _, conf := range []float64{-1, 0, 0.25, 0.5, 0.75, 1, 2} {
			s := Score(level, conf)
			if s < 0 || s > 100 {
				t.Errorf("%s@%v: score %d out of [0,100]", level, conf, s)
			}
		}
	}
}

func TestRecordStampsAndClamps(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := Record(model.ActivityEstimation{
		Level:      model.LevelAccount,
		Confidence: 1.5,
		Reasons:    []model.SignalCode{signal.URLLoginPath},
	}, at)

	if rec.Score != 30 {
		t.Errorf("expected 30, got %d", rec.Score)
	}
	if rec.Confidence != 1.0 {
		t.Errorf("expected confidence clamped to 1.0, got %v", rec.Confidence)
	}
	if !rec.UpdatedAt.Equal(at) {
		t.Errorf("expected timestamp %v, got %v", at, rec.UpdatedAt)
	}
	if len(rec.Reasons) != 1 || rec.Reasons[0] != signal.URLLoginPath {
		t.Errorf("expected reasons carried through, got %v", rec.Reasons)
	}
}
