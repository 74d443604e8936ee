package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appanalysis "github.com/galereya/analysis-service/internal/application/analysis"
	domain "github.com/galereya/analysis-service/internal/domain/analysis"
	"github.com/galereya/analysis-service/internal/middleware"
)

const (
	ServiceName    = "Art Analysis Async Service"
	ServiceVersion = "1.0.0"
)

var errMalformedBody = errors.New("malformed request body")

type Router struct {
	svc *appanalysis.Service
}

func NewRouter(svc *appanalysis.Service, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Get("/", r.wrap(r.handleRoot))
	mux.Get("/health", middleware.HealthHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/analyze/sync", r.wrap(r.handleAnalyzeSync))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, domain.ErrInvalidRequestID) || errors.Is(err, errMalformedBody) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// decodeRequest reads and validates the submission body. Invalid requests are
// rejected here and never reach the scheduler.
func decodeRequest(req *http.Request) (*domain.Request, error) {
	var body domain.Request
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if err := middleware.ValidateRequestID(body.RequestID); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequestID, err)
	}
	body.Description = middleware.SanitizeString(body.Description)
	return &body, nil
}

// GET /
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]string{
		"service": ServiceName,
		"version": ServiceVersion,
		"status":  "running",
	})
}

// POST /api/analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	body, err := decodeRequest(req)
	if err != nil {
		return err
	}

	// Run in background so the task finishes after we answer
	go func() {
		taskID := uuid.New().String()
		middleware.IncrementAnalyses()
		middleware.IncrementAnalysesRunning()
		defer middleware.DecrementAnalysesRunning()

		log.Printf("analysis started task=%s request_id=%d", taskID, body.RequestID)

		res, err := r.svc.AnalyzeUntilDone(body)
		if err != nil {
			middleware.IncrementAnalysesFailed()
			log.Printf("background analysis error task=%s request_id=%d: %v", taskID, body.RequestID, err)
			return
		}

		log.Printf("analysis finished task=%s request_id=%d success=%t", taskID, body.RequestID, res.Success)

		// The client already has its ack; a failed delivery is logged by the
		// sender and only counted here.
		if err := r.svc.Deliver(res); err != nil {
			middleware.IncrementCallbacksFailed()
			return
		}
		middleware.IncrementCallbacksSent()
	}()

	// Answer right away
	resp := map[string]any{
		"status":     "accepted",
		"request_id": body.RequestID,
		"message":    "analysis started; the result will be sent to the main service when ready",
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// POST /api/analyze/sync
// Runs the analysis inline and returns the result directly, skipping the
// callback. Used for local verification.
func (r *Router) handleAnalyzeSync(w http.ResponseWriter, req *http.Request) error {
	body, err := decodeRequest(req)
	if err != nil {
		return err
	}

	res, err := r.svc.Analyze(req.Context(), body)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(res)
}
