package analysis

import (
	"context"

	domain "github.com/galereya/analysis-service/internal/domain/analysis"
)

// Service implements the use-cases around one analysis request.
// Safe for concurrent use; every request is self-contained.
type Service struct {
	Engine   domain.Analyzer
	Notifier domain.Notifier
}

// Analyze runs one analysis inline on the caller's context. Used by the
// synchronous endpoint; the callback is never involved.
func (s *Service) Analyze(ctx context.Context, req *domain.Request) (*domain.Result, error) {
	return s.Engine.Analyze(ctx, req)
}

// AnalyzeUntilDone runs the analysis on context.Background().
// Meant to be called from a goroutine in the router so the task survives the
// already-answered HTTP request.
func (s *Service) AnalyzeUntilDone(req *domain.Request) (*domain.Result, error) {
	return s.Engine.Analyze(context.Background(), req)
}

// Deliver pushes a finished result to the main service. One attempt, no retry;
// the caller decides what to do with a delivery error (in practice: log it).
func (s *Service) Deliver(res *domain.Result) error {
	return s.Notifier.Notify(context.Background(), res)
}
