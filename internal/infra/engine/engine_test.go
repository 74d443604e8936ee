package engine

import (
	"context"
	"testing"
	"time"

	"github.com/galereya/analysis-service/internal/application"
	domain "github.com/galereya/analysis-service/internal/domain/analysis"
)

// scriptRand feeds predetermined values to the engine. Draw order is
// delay, success roll, noise.
type scriptRand struct {
	vals []float64
	i    int
}

func (s *scriptRand) Float64() float64 {
	if s.i >= len(s.vals) {
		panic("scriptRand exhausted")
	}
	v := s.vals[s.i]
	s.i++
	return v
}

// fakeClock returns scripted instants from successive Now() calls.
type fakeClock struct {
	times []time.Time
	i     int
}

func (c *fakeClock) Now() time.Time {
	t := c.times[c.i]
	if c.i < len(c.times)-1 {
		c.i++
	}
	return t
}

func f64(v float64) *float64 { return &v }

func newTestEngine(rnd application.Rand) *Engine {
	return New(rnd, application.SystemClock{}, 0, 0, 0.8)
}

func TestAnalyzeCenterCoordinatesScoresTop(t *testing.T) {
	// noise draw 0.5 maps to zero noise
	eng := newTestEngine(&scriptRand{vals: []float64{0, 0, 0.5}})

	res, err := eng.Analyze(context.Background(), &domain.Request{
		RequestID: 1,
		FactorX:   f64(0.5),
		FactorY:   f64(0.5),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !res.Success {
		t.Fatal("expected success")
	}
	if res.ConfidenceScore == nil || *res.ConfidenceScore != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", res.ConfidenceScore)
	}
	if res.AnalysisResult == nil || *res.AnalysisResult != string(domain.VerdictExcellent) {
		t.Errorf("expected top verdict, got %v", res.AnalysisResult)
	}
	if res.Message != domain.MessageCompleted {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestAnalyzeWithoutCoordinatesUsesDefaultBase(t *testing.T) {
	eng := newTestEngine(&scriptRand{vals: []float64{0, 0, 0.5}})

	res, err := eng.Analyze(context.Background(), &domain.Request{RequestID: 2})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.ConfidenceScore == nil || *res.ConfidenceScore != 0.5 {
		t.Errorf("expected confidence 0.5, got %v", res.ConfidenceScore)
	}
	// 0.5 is not strictly above the 0.5 threshold
	if res.AnalysisResult == nil || *res.AnalysisResult != string(domain.VerdictNeedsWork) {
		t.Errorf("expected needs-work verdict, got %v", res.AnalysisResult)
	}
}

func TestAnalyzeFailureBranch(t *testing.T) {
	// success roll 0.9 >= rate 0.8
	eng := newTestEngine(&scriptRand{vals: []float64{0, 0.9}})

	res, err := eng.Analyze(context.Background(), &domain.Request{RequestID: 3})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.Success {
		t.Fatal("expected failure")
	}
	if res.AnalysisResult != nil || res.ConfidenceScore != nil {
		t.Errorf("failure result must carry no score or text, got %v / %v",
			res.AnalysisResult, res.ConfidenceScore)
	}
	if res.Message != domain.MessageFailed {
		t.Errorf("unexpected message: %q", res.Message)
	}
}

func TestConfidenceClampedToUnitInterval(t *testing.T) {
	// center + max positive noise would be 1.15
	eng := newTestEngine(&scriptRand{vals: []float64{0, 0, 1.0}})
	res, err := eng.Analyze(context.Background(), &domain.Request{
		RequestID: 4, FactorX: f64(0.5), FactorY: f64(0.5),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if *res.ConfidenceScore != 1.0 {
		t.Errorf("expected clamp to 1.0, got %v", *res.ConfidenceScore)
	}

	// far-off coordinates hit the 0.1 floor; max negative noise goes below zero
	eng = newTestEngine(&scriptRand{vals: []float64{0, 0, 0}})
	res, err = eng.Analyze(context.Background(), &domain.Request{
		RequestID: 5, FactorX: f64(5), FactorY: f64(5),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if *res.ConfidenceScore != 0.0 {
		t.Errorf("expected clamp to 0.0, got %v", *res.ConfidenceScore)
	}
	if *res.AnalysisResult != string(domain.VerdictUnclassified) {
		t.Errorf("expected lowest verdict, got %q", *res.AnalysisResult)
	}
}

func TestVerdictPickedBeforeRounding(t *testing.T) {
	// factor_x 0.79997 puts the unrounded confidence at 0.70003, strictly
	// above the top threshold, while the reported score rounds down to 0.7
	eng := newTestEngine(&scriptRand{vals: []float64{0, 0, 0.5}})

	res, err := eng.Analyze(context.Background(), &domain.Request{
		RequestID: 10,
		FactorX:   f64(0.79997),
		FactorY:   f64(0.5),
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if res.AnalysisResult == nil || *res.AnalysisResult != string(domain.VerdictExcellent) {
		t.Errorf("expected top verdict for unrounded confidence 0.70003, got %v", res.AnalysisResult)
	}
	if res.ConfidenceScore == nil || *res.ConfidenceScore != 0.7 {
		t.Errorf("expected reported score 0.7, got %v", res.ConfidenceScore)
	}
}

func TestVerdictBoundariesAreStrict(t *testing.T) {
	cases := []struct {
		confidence float64
		want       domain.Verdict
	}{
		{0.71, domain.VerdictExcellent},
		{0.7, domain.VerdictGood},
		{0.51, domain.VerdictGood},
		{0.5, domain.VerdictNeedsWork},
		{0.31, domain.VerdictNeedsWork},
		{0.3, domain.VerdictUnclassified},
		{0.0, domain.VerdictUnclassified},
		{1.0, domain.VerdictExcellent},
	}
	for _, tc := range cases {
		if got := verdictFor(tc.confidence); got != tc.want {
			t.Errorf("verdictFor(%v) = %q, want %q", tc.confidence, got, tc.want)
		}
	}
}

func TestRound(t *testing.T) {
	if got := round(0.123456, 4); got != 0.1235 {
		t.Errorf("round 4dp: got %v", got)
	}
	if got := round(7.456, 2); got != 7.46 {
		t.Errorf("round 2dp: got %v", got)
	}
}

func TestProcessingTimeFromClock(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{times: []time.Time{t0, t0.Add(7456 * time.Millisecond)}}
	eng := New(&scriptRand{vals: []float64{0, 0, 0.5}}, clock, 0, 0, 0.8)

	res, err := eng.Analyze(context.Background(), &domain.Request{RequestID: 6})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.ProcessingTime != 7.46 {
		t.Errorf("expected processing_time 7.46, got %v", res.ProcessingTime)
	}
}

func TestAnalyzeWaitsAtLeastMinDelay(t *testing.T) {
	eng := New(application.NewRand(1), application.SystemClock{}, 30*time.Millisecond, 60*time.Millisecond, 1.0)

	start := time.Now()
	if _, err := eng.Analyze(context.Background(), &domain.Request{RequestID: 7}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("finished after %v, sooner than the minimum delay", elapsed)
	}
}

func TestAnalyzeCancelledDuringDelay(t *testing.T) {
	eng := New(application.NewRand(1), application.SystemClock{}, 5*time.Second, 5*time.Second, 1.0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := eng.Analyze(ctx, &domain.Request{RequestID: 8}); err == nil {
		t.Fatal("expected context error")
	}
}
