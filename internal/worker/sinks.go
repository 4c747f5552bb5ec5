package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/segmentio/kafka-go"

	"github.com/wicketline/score-predictor/internal/config"
	"github.com/wicketline/score-predictor/internal/models"
)

// auditColumns is shared by the ClickHouse and Postgres schemas
var auditColumns = []string{
	"id", "created_at", "request_id", "source",
	"batting_team", "bowling_team", "city",
	"current_score", "balls_left", "wicket_left", "current_run_rate", "last_five",
	"prediction", "model", "cached", "latency_ms",
}

// ClickHouseSink batch-inserts into cricket.prediction_audit
type ClickHouseSink struct {
	conn driver.Conn
}

func NewClickHouseSink(conn driver.Conn) *ClickHouseSink {
	return &ClickHouseSink{conn: conn}
}

func (s *ClickHouseSink) Name() string { return config.AuditClickHouse }

func (s *ClickHouseSink) WriteBatch(ctx context.Context, batch []models.PredictionRecord) error {
	if len(batch) == 0 {
		return nil
	}

	chBatch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO cricket.prediction_audit (
			id, created_at, request_id, source,
			batting_team, bowling_team, city,
			current_score, balls_left, wicket_left, current_run_rate, last_five,
			prediction, model, cached, latency_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare clickhouse batch: %w", err)
	}

	for _, r := range batch {
		err := chBatch.Append(
			r.ID,
			r.CreatedAt,
			r.RequestID,
			r.Source,
			r.Features.BattingTeam,
			r.Features.BowlingTeam,
			r.Features.City,
			int32(r.Features.CurrentScore),
			r.Features.BallsLeft,
			int8(r.Features.WicketLeft),
			r.Features.CurrentRunRate,
			int32(r.Features.LastFive),
			int32(r.Prediction),
			r.Model,
			r.Cached,
			r.LatencyMS,
		)
		if err != nil {
			return fmt.Errorf("append record %s: %w", r.ID, err)
		}
	}

	return chBatch.Send()
}

// PgCopier is the subset of pgxpool.Pool used by the Postgres sink
type PgCopier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresSink COPYs batches into prediction_audit
type PostgresSink struct {
	pool PgCopier
}

func NewPostgresSink(pool PgCopier) *PostgresSink {
	return &PostgresSink{pool: pool}
}

func (s *PostgresSink) Name() string { return config.AuditPostgres }

func (s *PostgresSink) WriteBatch(ctx context.Context, batch []models.PredictionRecord) error {
	if len(batch) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(batch))
	for _, r := range batch {
		rows = append(rows, []any{
			r.ID,
			r.CreatedAt,
			r.RequestID,
			r.Source,
			r.Features.BattingTeam,
			r.Features.BowlingTeam,
			r.Features.City,
			int32(r.Features.CurrentScore),
			r.Features.BallsLeft,
			int16(r.Features.WicketLeft),
			r.Features.CurrentRunRate,
			int32(r.Features.LastFive),
			int32(r.Prediction),
			r.Model,
			r.Cached,
			r.LatencyMS,
		})
	}

	n, err := s.pool.CopyFrom(ctx, pgx.Identifier{"prediction_audit"}, auditColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy prediction_audit: %w", err)
	}
	if int(n) != len(batch) {
		return fmt.Errorf("copy prediction_audit: wrote %d of %d rows", n, len(batch))
	}
	return nil
}

// KafkaWriter is the subset of kafka.Writer used by the Kafka sink
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink publishes one JSON message per record, keyed by record id
type KafkaSink struct {
	writer KafkaWriter
}

func NewKafkaSink(writer KafkaWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

// NewKafkaWriter builds a writer for the audit topic
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

func (s *KafkaSink) Name() string { return config.AuditKafka }

func (s *KafkaSink) WriteBatch(ctx context.Context, batch []models.PredictionRecord) error {
	if len(batch) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(batch))
	for _, r := range batch {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", r.ID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(r.ID.String()),
			Value: payload,
			Time:  r.CreatedAt,
		})
	}

	return s.writer.WriteMessages(ctx, msgs...)
}
