package analysis

import "context"

// Analyzer port (interface for the scoring engine)
type Analyzer interface {
	Analyze(ctx context.Context, req *Request) (*Result, error)
}

// Notifier port (interface for delivering results to the main service)
type Notifier interface {
	Notify(ctx context.Context, res *Result) error
}
