package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	domain "github.com/galereya/analysis-service/internal/domain/analysis"
)

// resultPath is fixed by the main service's internal API.
const resultPath = "/api/internal/analysis-result"

// Sender delivers analysis results back to the main service. The service_key
// field is a static shared secret, equality-checked on the other side.
type Sender struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func New(baseURL, serviceKey string, timeout time.Duration) *Sender {
	return &Sender{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: timeout},
	}
}

// payload mirrors domain.Result plus the shared key. analysis_result and
// confidence_score stay null on failure.
type payload struct {
	RequestID       int64    `json:"request_id"`
	Success         bool     `json:"success"`
	AnalysisResult  *string  `json:"analysis_result"`
	ConfidenceScore *float64 `json:"confidence_score"`
	ProcessingTime  float64  `json:"processing_time"`
	Message         string   `json:"message"`
	ServiceKey      string   `json:"service_key"`
}

// Notify implements the Notifier port: one POST per result, no retry.
// Delivery failures are logged and returned; the background caller drops them.
func (s *Sender) Notify(ctx context.Context, res *domain.Result) error {
	body, err := json.Marshal(payload{
		RequestID:       res.RequestID,
		Success:         res.Success,
		AnalysisResult:  res.AnalysisResult,
		ConfidenceScore: res.ConfidenceScore,
		ProcessingTime:  res.ProcessingTime,
		Message:         res.Message,
		ServiceKey:      s.serviceKey,
	})
	if err != nil {
		return fmt.Errorf("marshal callback payload: %w", err)
	}

	url := s.baseURL + resultPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build callback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("callback delivery failed request_id=%d err=%v", res.RequestID, err)
		return fmt.Errorf("send callback: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("callback rejected request_id=%d status=%d body=%s", res.RequestID, resp.StatusCode, snippet)
		return fmt.Errorf("callback rejected: status %d", resp.StatusCode)
	}

	log.Printf("callback delivered request_id=%d success=%t", res.RequestID, res.Success)
	return nil
}
