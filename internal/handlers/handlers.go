package handlers

import (
	"context"
	"embed"
	"html/template"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wicketline/score-predictor/internal/logic"
)

// MaxBodySize limits the size of request bodies to 64KB
const MaxBodySize = 64 << 10

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// RedisPinger is the subset of redis.Client used by readiness checks
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// PostgresDB is the subset of pgxpool.Pool used by readiness and install
type PostgresDB interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Config wires the handler. Only Prediction is required; nil stores are
// reported as not configured.
type Config struct {
	Prediction logic.PredictionService
	Audit      logic.AuditQueue
	AuditStats logic.AuditStatsService
	AuditSink  string
	Redis      RedisPinger
	ClickHouse driver.Conn
	Postgres   PostgresDB
	AdminToken string
	Logger     *zap.Logger
}

type Handler struct {
	prediction logic.PredictionService
	audit      logic.AuditQueue
	auditStats logic.AuditStatsService
	auditSink  string
	redis      RedisPinger
	ch         driver.Conn
	pg         PostgresDB
	adminHash  string
	logger     *zap.SugaredLogger
	page       *template.Template
}

func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	h := &Handler{
		prediction: cfg.Prediction,
		audit:      cfg.Audit,
		auditStats: cfg.AuditStats,
		auditSink:  cfg.AuditSink,
		redis:      cfg.Redis,
		ch:         cfg.ClickHouse,
		pg:         cfg.Postgres,
		logger:     cfg.Logger.Sugar(),
		page:       pageTemplate,
	}
	if cfg.AdminToken != "" {
		h.adminHash = hashToken(cfg.AdminToken)
	}
	return h
}
