package models

import (
	"time"

	"github.com/google/uuid"
)

// Prediction sources
const (
	SourceForm = "form"
	SourceAPI  = "api"
)

// PredictionResult is the outcome of a successful prediction
type PredictionResult struct {
	Prediction int        `json:"prediction"`
	Features   FeatureRow `json:"features"`
	Model      string     `json:"model"`
	Cached     bool       `json:"cached"`
}

// RequestMeta carries request-scoped details used for auditing
type RequestMeta struct {
	RequestID string
	Source    string
}

// PredictionRecord is one served prediction, written to the audit sink
type PredictionRecord struct {
	ID         uuid.UUID  `json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	RequestID  string     `json:"request_id"`
	Source     string     `json:"source"`
	Features   FeatureRow `json:"features"`
	Prediction int        `json:"prediction"`
	Model      string     `json:"model"`
	Cached     bool       `json:"cached"`
	LatencyMS  float64    `json:"latency_ms"`
}

// AuditSummaryRow is one bucket of an audit summary
type AuditSummaryRow struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
