package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal   uint64
	RequestsSuccess uint64
	RequestsFailed  uint64
	AnalysesTotal   uint64
	AnalysesRunning uint64
	AnalysesFailed  uint64
	CallbacksSent   uint64
	CallbacksFailed uint64
	StartTime       time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementAnalyses increments the accepted-analysis counter
func IncrementAnalyses() {
	atomic.AddUint64(&globalMetrics.AnalysesTotal, 1)
}

// IncrementAnalysesRunning increments the in-flight analysis counter
func IncrementAnalysesRunning() {
	atomic.AddUint64(&globalMetrics.AnalysesRunning, 1)
}

// DecrementAnalysesRunning decrements the in-flight analysis counter
func DecrementAnalysesRunning() {
	atomic.AddUint64(&globalMetrics.AnalysesRunning, ^uint64(0))
}

// IncrementAnalysesFailed increments the failed-analysis counter
func IncrementAnalysesFailed() {
	atomic.AddUint64(&globalMetrics.AnalysesFailed, 1)
}

// IncrementCallbacksSent increments the delivered-callback counter
func IncrementCallbacksSent() {
	atomic.AddUint64(&globalMetrics.CallbacksSent, 1)
}

// IncrementCallbacksFailed increments the dropped-callback counter
func IncrementCallbacksFailed() {
	atomic.AddUint64(&globalMetrics.CallbacksFailed, 1)
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":   atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_success": atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":  atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"analyses_total":   atomic.LoadUint64(&globalMetrics.AnalysesTotal),
		"analyses_running": atomic.LoadUint64(&globalMetrics.AnalysesRunning),
		"analyses_failed":  atomic.LoadUint64(&globalMetrics.AnalysesFailed),
		"callbacks_sent":   atomic.LoadUint64(&globalMetrics.CallbacksSent),
		"callbacks_failed": atomic.LoadUint64(&globalMetrics.CallbacksFailed),
		"uptime_seconds":   time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes": m.Alloc,
			"sys_bytes":   m.Sys,
			"num_gc":      m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&globalMetrics.RequestsTotal, 1)

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
