package handlers

import (
	"context"
	"errors"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/wicketline/score-predictor/internal/logic"
	"github.com/wicketline/score-predictor/internal/models"
)

// MockPredictionService
type MockPredictionService struct {
	PredictFunc func(ctx context.Context, form models.MatchForm, meta models.RequestMeta) (*models.PredictionResult, error)
	LastForm    models.MatchForm
	LastMeta    models.RequestMeta
}

func (m *MockPredictionService) Predict(ctx context.Context, form models.MatchForm, meta models.RequestMeta) (*models.PredictionResult, error) {
	m.LastForm = form
	m.LastMeta = meta
	if m.PredictFunc != nil {
		return m.PredictFunc(ctx, form, meta)
	}
	return &models.PredictionResult{Prediction: 174, Model: "mock-model"}, nil
}

func (m *MockPredictionService) Catalog() models.Catalog {
	return logic.NewCatalogService().Catalog()
}

func (m *MockPredictionService) ModelName() string { return "mock-model" }

// MockAuditQueue
type MockAuditQueue struct {
	Depth int
}

func (m *MockAuditQueue) Enqueue(record *models.PredictionRecord) bool { return true }
func (m *MockAuditQueue) QueueDepth() int                              { return m.Depth }

// MockRedisPinger
type MockRedisPinger struct {
	Err error
}

func (m *MockRedisPinger) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", m.Err)
}

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn
	PingErr  error
	ExecFunc func(ctx context.Context, query string, args ...interface{}) error
	Executed []string
}

func (m *MockClickHouseConn) Ping(ctx context.Context) error { return m.PingErr }

func (m *MockClickHouseConn) Exec(ctx context.Context, query string, args ...interface{}) error {
	m.Executed = append(m.Executed, query)
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, query, args...)
	}
	return nil
}

// MockPostgresDB
type MockPostgresDB struct {
	PingErr  error
	ExecErr  error
	Executed []string
}

func (m *MockPostgresDB) Ping(ctx context.Context) error { return m.PingErr }

func (m *MockPostgresDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.Executed = append(m.Executed, sql)
	return pgconn.CommandTag{}, m.ExecErr
}

var errDown = errors.New("connection refused")

func validationErr(field string, kind error, detail string) error {
	return &logic.ValidationError{Field: field, Kind: kind, Detail: detail}
}

// MockAuditStatsService
type MockAuditStatsService struct {
	SummaryFunc func(ctx context.Context, req logic.AuditQueryRequest) ([]models.AuditSummaryRow, error)
	LastRequest logic.AuditQueryRequest
}

func (m *MockAuditStatsService) Summary(ctx context.Context, req logic.AuditQueryRequest) ([]models.AuditSummaryRow, error) {
	m.LastRequest = req
	if m.SummaryFunc != nil {
		return m.SummaryFunc(ctx, req)
	}
	return []models.AuditSummaryRow{{Label: "Mumbai", Value: 182.5}}, nil
}
