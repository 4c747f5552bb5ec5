package worker

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/wicketline/score-predictor/internal/config"
	"github.com/wicketline/score-predictor/internal/models"
)

func TestClickHouseSinkWriteBatch(t *testing.T) {
	conn := &MockClickHouseConn{}
	sink := NewClickHouseSink(conn)

	batch := []models.PredictionRecord{testRecord(174), testRecord(160)}
	if err := sink.WriteBatch(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(conn.LastQuery, "cricket.prediction_audit") {
		t.Errorf("unexpected insert target: %s", conn.LastQuery)
	}
	if len(conn.Batch.Appended) != 2 || !conn.Batch.Sent {
		t.Fatalf("expected 2 appended rows and a send, got %d sent=%v", len(conn.Batch.Appended), conn.Batch.Sent)
	}
	row := conn.Batch.Appended[0]
	if len(row) != len(auditColumns) {
		t.Fatalf("row has %d values, schema has %d columns", len(row), len(auditColumns))
	}
	if row[12] != int32(174) {
		t.Errorf("prediction column = %v, want 174", row[12])
	}
}

func TestClickHouseSinkErrors(t *testing.T) {
	conn := &MockClickHouseConn{PrepareErr: errSinkDown}
	if err := NewClickHouseSink(conn).WriteBatch(context.Background(), []models.PredictionRecord{testRecord(1)}); err == nil {
		t.Error("expected prepare error")
	}

	conn = &MockClickHouseConn{Batch: &MockBatch{AppendErr: errSinkDown}}
	if err := NewClickHouseSink(conn).WriteBatch(context.Background(), []models.PredictionRecord{testRecord(1)}); err == nil {
		t.Error("expected append error")
	}

	conn = &MockClickHouseConn{}
	if err := NewClickHouseSink(conn).WriteBatch(context.Background(), nil); err != nil || conn.LastQuery != "" {
		t.Error("empty batch should be a no-op")
	}
}

func TestPostgresSinkWriteBatch(t *testing.T) {
	copier := &MockCopier{}
	sink := NewPostgresSink(copier)

	if err := sink.WriteBatch(context.Background(), []models.PredictionRecord{testRecord(174)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if copier.Table.Sanitize() != `"prediction_audit"` {
		t.Errorf("unexpected table %v", copier.Table)
	}
	if len(copier.Rows) != 1 || len(copier.Rows[0]) != len(copier.Columns) {
		t.Fatalf("row/column mismatch: %v", copier.Rows)
	}
	if copier.Rows[0][4] != "India" {
		t.Errorf("batting_team = %v", copier.Rows[0][4])
	}
}

func TestPostgresSinkShortCopy(t *testing.T) {
	copier := &MockCopier{Short: true}
	err := NewPostgresSink(copier).WriteBatch(context.Background(), []models.PredictionRecord{testRecord(1), testRecord(2)})
	if err == nil || !strings.Contains(err.Error(), "wrote 1 of 2") {
		t.Fatalf("expected short copy error, got %v", err)
	}
}

func TestKafkaSinkWriteBatch(t *testing.T) {
	w := &MockKafkaWriter{}
	rec := testRecord(174)

	if err := NewKafkaSink(w).WriteBatch(context.Background(), []models.PredictionRecord{rec}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(w.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.Messages))
	}

	msg := w.Messages[0]
	if string(msg.Key) != rec.ID.String() {
		t.Errorf("key = %s, want %s", msg.Key, rec.ID)
	}

	var decoded models.PredictionRecord
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if decoded.Prediction != 174 || decoded.Features.City != "Mumbai" {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestKafkaSinkError(t *testing.T) {
	w := &MockKafkaWriter{Err: errSinkDown}
	if err := NewKafkaSink(w).WriteBatch(context.Background(), []models.PredictionRecord{testRecord(1)}); err == nil {
		t.Error("expected writer error")
	}
}

func TestSinkNamesMatchConfig(t *testing.T) {
	tests := []struct {
		sink Sink
		want string
	}{
		{NewClickHouseSink(&MockClickHouseConn{}), config.AuditClickHouse},
		{NewPostgresSink(&MockCopier{}), config.AuditPostgres},
		{NewKafkaSink(&MockKafkaWriter{}), config.AuditKafka},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.sink.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}
