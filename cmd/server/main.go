package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/wicketline/score-predictor/docs"
	"github.com/wicketline/score-predictor/internal/config"
	"github.com/wicketline/score-predictor/internal/handlers"
	"github.com/wicketline/score-predictor/internal/logger"
	"github.com/wicketline/score-predictor/internal/logic"
	"github.com/wicketline/score-predictor/internal/predictor"
	"github.com/wicketline/score-predictor/internal/worker"
)

const (
	serviceName     = "score-predictor"
	connectTimeout  = 5 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(serviceName, cfg.Env, cfg.IsDevelopment())
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar := log.Sugar()

	model, err := buildPredictor(cfg)
	if err != nil {
		return err
	}
	sugar.Infow("model loaded", "model", model.Name())

	handlerCfg := handlers.Config{
		AuditSink:  cfg.AuditSink,
		AdminToken: cfg.AdminToken,
		Logger:     log,
	}
	svcCfg := logic.PredictionConfig{
		Predictor: model,
		Logger:    log,
	}

	// Prediction cache
	if cfg.RedisURL != "" {
		rdb, err := connectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		svcCfg.Cache = predictor.NewRedisCache(rdb, cfg.CacheTTL)
		handlerCfg.Redis = rdb
		sugar.Infow("redis connected", "ttl", cfg.CacheTTL)
	}

	// Audit sink
	var sink worker.Sink
	switch cfg.AuditSink {
	case config.AuditClickHouse:
		opts, err := clickhouse.ParseDSN(cfg.ClickHouseURL)
		if err != nil {
			return fmt.Errorf("parse clickhouse url: %w", err)
		}
		conn, err := clickhouse.Open(opts)
		if err != nil {
			return fmt.Errorf("open clickhouse: %w", err)
		}
		defer conn.Close()
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err = conn.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("ping clickhouse: %w", err)
		}
		sink = worker.NewClickHouseSink(conn)
		handlerCfg.ClickHouse = conn
		handlerCfg.AuditStats = logic.NewAuditStatsService(conn)

	case config.AuditPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer pool.Close()
		pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err = pool.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		sink = worker.NewPostgresSink(pool)
		handlerCfg.Postgres = pool

	case config.AuditKafka:
		writer := worker.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer writer.Close()
		sink = worker.NewKafkaSink(writer)
	}

	var auditPool *worker.Pool
	if sink != nil {
		auditPool = worker.NewPool(worker.PoolConfig{
			WorkerCount:   cfg.WorkerCount,
			QueueSize:     cfg.QueueSize,
			BatchSize:     cfg.BatchSize,
			FlushInterval: cfg.FlushInterval,
			Sink:          sink,
			Logger:        log,
		})
		auditPool.Start(ctx)
		svcCfg.Audit = auditPool
		handlerCfg.Audit = auditPool
	}

	svc := logic.NewPredictionService(svcCfg)
	handlerCfg.Prediction = svc

	h := handlers.New(handlerCfg)
	srv := &http.Server{
		Addr: ":" + strconv.Itoa(cfg.Port),
		Handler: handlers.NewRouter(h, handlers.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			RequestTimeout: cfg.RequestTimeout,
			Logger:         log,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sugar.Infow("http server starting", "addr", srv.Addr, "auditSink", cfg.AuditSink)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sugar.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()

	// Requests are drained, flush the audit queue before connections close
	if auditPool != nil {
		auditPool.Stop()
	}
	return err
}

func buildPredictor(cfg *config.Config) (logic.Predictor, error) {
	if cfg.ModelPath != "" {
		m, err := predictor.LoadLinearModel(cfg.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		return m, nil
	}
	return predictor.NewRemoteModel(cfg.ModelURL, cfg.ModelTimeout), nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}
