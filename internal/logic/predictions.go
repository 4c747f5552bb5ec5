package logic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/wicketline/score-predictor/internal/models"
)

// Prometheus metrics
var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cricket_predictions_total",
		Help: "Total prediction requests by outcome",
	}, []string{"outcome"})

	predictionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cricket_prediction_duration_seconds",
		Help:    "Time spent deriving features and calling the model",
		Buckets: prometheus.DefBuckets,
	})

	predictionCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cricket_prediction_cache_hits_total",
		Help: "Total predictions served from the cache",
	})
)

const (
	outcomeSuccess    = "success"
	outcomeInvalid    = "invalid"
	outcomeModelError = "model_error"
)

// PredictionConfig wires the prediction service. Cache and Audit are optional.
type PredictionConfig struct {
	Catalog   CatalogService
	Predictor Predictor
	Cache     PredictionCache
	Audit     AuditQueue
	Logger    *zap.Logger
}

type predictionService struct {
	catalog   CatalogService
	deriver   *FeatureDeriver
	predictor Predictor
	cache     PredictionCache
	audit     AuditQueue
	logger    *zap.SugaredLogger
}

func NewPredictionService(cfg PredictionConfig) PredictionService {
	if cfg.Catalog == nil {
		cfg.Catalog = NewCatalogService()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &predictionService{
		catalog:   cfg.Catalog,
		deriver:   NewFeatureDeriver(cfg.Catalog),
		predictor: cfg.Predictor,
		cache:     cfg.Cache,
		audit:     cfg.Audit,
		logger:    cfg.Logger.Sugar(),
	}
}

func (s *predictionService) Catalog() models.Catalog {
	return s.catalog.Catalog()
}

func (s *predictionService) ModelName() string {
	return s.predictor.Name()
}

// Predict derives the feature row and returns the model's integer output
func (s *predictionService) Predict(ctx context.Context, form models.MatchForm, meta models.RequestMeta) (*models.PredictionResult, error) {
	start := time.Now()
	defer func() {
		predictionDuration.Observe(time.Since(start).Seconds())
	}()

	row, err := s.deriver.Derive(form)
	if err != nil {
		predictionsTotal.WithLabelValues(outcomeInvalid).Inc()
		return nil, err
	}

	model := s.predictor.Name()
	key := row.CacheKey()

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, model, key)
		if err != nil {
			s.logger.Warnw("Prediction cache lookup failed", "error", err, "key", key)
		} else if ok {
			predictionCacheHits.Inc()
			predictionsTotal.WithLabelValues(outcomeSuccess).Inc()
			result := &models.PredictionResult{Prediction: cached, Features: row, Model: model, Cached: true}
			s.enqueueAudit(meta, result, start)
			return result, nil
		}
	}

	raw, err := s.predictor.Predict(ctx, row)
	if err != nil {
		predictionsTotal.WithLabelValues(outcomeModelError).Inc()
		return nil, &PredictionError{Err: err}
	}

	prediction, err := truncateToInt(raw)
	if err != nil {
		predictionsTotal.WithLabelValues(outcomeModelError).Inc()
		return nil, &PredictionError{Err: err}
	}

	result := &models.PredictionResult{Prediction: prediction, Features: row, Model: model}

	if s.cache != nil {
		if err := s.cache.Set(ctx, model, key, prediction); err != nil {
			s.logger.Warnw("Prediction cache store failed", "error", err, "key", key)
		}
	}

	predictionsTotal.WithLabelValues(outcomeSuccess).Inc()
	s.enqueueAudit(meta, result, start)
	return result, nil
}

func (s *predictionService) enqueueAudit(meta models.RequestMeta, result *models.PredictionResult, start time.Time) {
	if s.audit == nil {
		return
	}
	record := &models.PredictionRecord{
		ID:         uuid.New(),
		CreatedAt:  time.Now().UTC(),
		RequestID:  meta.RequestID,
		Source:     meta.Source,
		Features:   result.Features,
		Prediction: result.Prediction,
		Model:      result.Model,
		Cached:     result.Cached,
		LatencyMS:  float64(time.Since(start).Microseconds()) / 1000,
	}
	if !s.audit.Enqueue(record) {
		s.logger.Debugw("Audit queue rejected record", "id", record.ID, "queueDepth", s.audit.QueueDepth())
	}
}

var errNonFinite = errors.New("model returned a non-finite value")

// truncateToInt mirrors int(x): truncation toward zero
func truncateToInt(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %v", errNonFinite, v)
	}
	t := math.Trunc(v)
	if t > math.MaxInt32 || t < math.MinInt32 {
		return 0, fmt.Errorf("model returned %v, outside the integer range", v)
	}
	return int(t), nil
}
