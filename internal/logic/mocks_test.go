package logic

import (
	"context"
	"sync"

	"github.com/wicketline/score-predictor/internal/models"
)

// MockPredictor implements Predictor for testing
type MockPredictor struct {
	PredictFunc func(ctx context.Context, row models.FeatureRow) (float64, error)
	Calls       int
}

func (m *MockPredictor) Predict(ctx context.Context, row models.FeatureRow) (float64, error) {
	m.Calls++
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, row)
	}
	return 0, nil
}

func (m *MockPredictor) Name() string { return "mock-model" }

// MockCache implements PredictionCache with an in-memory map
type MockCache struct {
	Values map[string]int
	GetErr error
	SetErr error
	Sets   int
}

func NewMockCache() *MockCache {
	return &MockCache{Values: make(map[string]int)}
}

func (m *MockCache) Get(ctx context.Context, model, key string) (int, bool, error) {
	if m.GetErr != nil {
		return 0, false, m.GetErr
	}
	v, ok := m.Values[model+":"+key]
	return v, ok, nil
}

func (m *MockCache) Set(ctx context.Context, model, key string, prediction int) error {
	m.Sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Values[model+":"+key] = prediction
	return nil
}

// MockAuditQueue records enqueued predictions
type MockAuditQueue struct {
	mu      sync.Mutex
	Records []*models.PredictionRecord
	Full    bool
}

func (m *MockAuditQueue) Enqueue(record *models.PredictionRecord) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Full {
		return false
	}
	m.Records = append(m.Records, record)
	return true
}

func (m *MockAuditQueue) QueueDepth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}
