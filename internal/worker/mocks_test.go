package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"

	"github.com/wicketline/score-predictor/internal/models"
)

// MockSink records every batch it receives
type MockSink struct {
	mu      sync.Mutex
	Batches [][]models.PredictionRecord
	Err     error
	Delay   time.Duration
}

func (m *MockSink) Name() string { return "mock" }

func (m *MockSink) WriteBatch(ctx context.Context, batch []models.PredictionRecord) error {
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Batches = append(m.Batches, batch)
	return m.Err
}

func (m *MockSink) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.Batches {
		n += len(b)
	}
	return n
}

var _ driver.Conn = (*MockClickHouseConn)(nil)

// MockClickHouseConn implements driver.Conn for testing
type MockClickHouseConn struct {
	driver.Conn
	Batch      *MockBatch
	PrepareErr error
	LastQuery  string
}

func (m *MockClickHouseConn) PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error) {
	m.LastQuery = query
	if m.PrepareErr != nil {
		return nil, m.PrepareErr
	}
	if m.Batch == nil {
		m.Batch = &MockBatch{}
	}
	return m.Batch, nil
}

// MockBatch captures appended rows
type MockBatch struct {
	driver.Batch
	Appended  [][]interface{}
	AppendErr error
	Sent      bool
}

func (m *MockBatch) Append(v ...interface{}) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Appended = append(m.Appended, v)
	return nil
}

func (m *MockBatch) Send() error {
	m.Sent = true
	return nil
}

// MockCopier implements PgCopier
type MockCopier struct {
	Table   pgx.Identifier
	Columns []string
	Rows    [][]any
	Err     error
	Short   bool
}

func (m *MockCopier) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.Table = tableName
	m.Columns = columnNames
	for rowSrc.Next() {
		vals, err := rowSrc.Values()
		if err != nil {
			return 0, err
		}
		m.Rows = append(m.Rows, vals)
	}
	n := int64(len(m.Rows))
	if m.Short {
		n--
	}
	return n, nil
}

// MockKafkaWriter implements KafkaWriter
type MockKafkaWriter struct {
	Messages []kafka.Message
	Err      error
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

var errSinkDown = errors.New("sink unavailable")

func testRecord(prediction int) models.PredictionRecord {
	return models.PredictionRecord{
		ID:        uuid.New(),
		CreatedAt: time.Date(2026, 3, 1, 14, 0, 0, 0, time.UTC),
		RequestID: "req-1",
		Source:    models.SourceAPI,
		Features: models.FeatureRow{
			BattingTeam:    "India",
			BowlingTeam:    "Australia",
			City:           "Mumbai",
			CurrentScore:   50,
			BallsLeft:      60,
			WicketLeft:     8,
			CurrentRunRate: 5,
			LastFive:       30,
		},
		Prediction: prediction,
		Model:      "test@1",
		LatencyMS:  1.5,
	}
}
