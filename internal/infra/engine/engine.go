package engine

import (
	"context"
	"math"
	"time"

	"github.com/galereya/analysis-service/internal/application"
	domain "github.com/galereya/analysis-service/internal/domain/analysis"
)

// Engine runs the composition analysis: a randomized delay that models the
// slow external computation, a probabilistic success roll, and the
// distance-from-center confidence formula.
type Engine struct {
	rnd         application.Rand
	clock       application.Clock
	minDelay    time.Duration
	maxDelay    time.Duration
	successRate float64
}

func New(rnd application.Rand, clock application.Clock, minDelay, maxDelay time.Duration, successRate float64) *Engine {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Engine{
		rnd:         rnd,
		clock:       clock,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		successRate: successRate,
	}
}

// Analyze implements the Analyzer port. The randomness source is consumed in a
// fixed order: delay draw, success roll, noise draw.
func (e *Engine) Analyze(ctx context.Context, req *domain.Request) (*domain.Result, error) {
	start := e.clock.Now()

	delay := e.minDelay + time.Duration(e.rnd.Float64()*float64(e.maxDelay-e.minDelay))
	if err := sleep(ctx, delay); err != nil {
		return nil, err
	}

	success := e.rnd.Float64() < e.successRate
	if !success {
		return &domain.Result{
			RequestID:      req.RequestID,
			Success:        false,
			ProcessingTime: round(e.clock.Now().Sub(start).Seconds(), 2),
			Message:        domain.MessageFailed,
		}, nil
	}

	// The closer the composition center sits to (0.5, 0.5), the higher the
	// base score; floor at 0.1, default 0.5 when coordinates are absent.
	base := 0.5
	if req.FactorX != nil && req.FactorY != nil {
		dist := math.Hypot(*req.FactorX-0.5, *req.FactorY-0.5)
		base = math.Max(0.1, 1.0-dist)
	}

	// The verdict is picked from the unrounded confidence; rounding applies
	// only to the reported score.
	noise := e.rnd.Float64()*0.3 - 0.15
	confidence := clamp01(base + noise)
	text := string(verdictFor(confidence))
	score := round(confidence, 4)

	return &domain.Result{
		RequestID:       req.RequestID,
		Success:         true,
		AnalysisResult:  &text,
		ConfidenceScore: &score,
		ProcessingTime:  round(e.clock.Now().Sub(start).Seconds(), 2),
		Message:         domain.MessageCompleted,
	}, nil
}

// verdictFor maps a confidence value to its text bucket. Thresholds are
// strict: exactly 0.7 falls into the "good" bucket, not the top one.
func verdictFor(confidence float64) domain.Verdict {
	switch {
	case confidence > 0.7:
		return domain.VerdictExcellent
	case confidence > 0.5:
		return domain.VerdictGood
	case confidence > 0.3:
		return domain.VerdictNeedsWork
	default:
		return domain.VerdictUnclassified
	}
}

func clamp01(v float64) float64 {
	return math.Min(1.0, math.Max(0.0, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
