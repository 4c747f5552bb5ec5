package logic

import (
	"context"

	"github.com/wicketline/score-predictor/internal/models"
)

// CatalogService exposes the fixed dropdown choices
type CatalogService interface {
	Catalog() models.Catalog
	IsTeam(name string) bool
	IsCity(name string) bool
}

// PredictionService runs a submitted form through the model
type PredictionService interface {
	Predict(ctx context.Context, form models.MatchForm, meta models.RequestMeta) (*models.PredictionResult, error)
	Catalog() models.Catalog
	ModelName() string
}

// Predictor is the opaque pre-trained model
type Predictor interface {
	Predict(ctx context.Context, row models.FeatureRow) (float64, error)
	Name() string
}

// PredictionCache stores integer predictions keyed by feature row
type PredictionCache interface {
	Get(ctx context.Context, model, key string) (int, bool, error)
	Set(ctx context.Context, model, key string, prediction int) error
}

// AuditQueue accepts served predictions without blocking the request
type AuditQueue interface {
	Enqueue(record *models.PredictionRecord) bool
	QueueDepth() int
}

// AuditStatsService summarises the audit trail
type AuditStatsService interface {
	Summary(ctx context.Context, req AuditQueryRequest) ([]models.AuditSummaryRow, error)
}
