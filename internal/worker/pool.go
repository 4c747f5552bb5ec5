// Package worker implements the buffered worker pool that records served
// predictions. It decouples HTTP request handling from audit writes, providing:
// - Backpressure handling via load shedding
// - Batch writes to the configured sink
// - Graceful shutdown with flush guarantees

package worker

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/wicketline/score-predictor/internal/models"
)

// Prometheus metrics
var (
	recordsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cricket_audit_enqueued_total",
		Help: "Total number of prediction records enqueued for audit",
	})

	recordsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cricket_audit_written_total",
		Help: "Total number of prediction records written to the sink",
	})

	recordsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cricket_audit_failed_total",
		Help: "Total number of prediction records that failed to write",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cricket_audit_queue_depth",
		Help: "Current depth of the audit queue",
	})

	batchWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cricket_audit_batch_duration_seconds",
		Help:    "Duration of batch writes to the audit sink",
		Buckets: prometheus.DefBuckets,
	})

	recordsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cricket_audit_load_shed_total",
		Help: "Total number of prediction records dropped due to load shedding",
	})
)

// Sink persists a batch of prediction records
type Sink interface {
	WriteBatch(ctx context.Context, batch []models.PredictionRecord) error
	Name() string
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount   int
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
	WriteTimeout  time.Duration
	Sink          Sink
	Logger        *zap.Logger
}

// Pool manages a pool of workers for async audit writes
type Pool struct {
	config   PoolConfig
	jobQueue chan models.PredictionRecord
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan models.PredictionRecord, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
	}
}

// Start launches the worker goroutines. Cancelling ctx does not drop queued
// records; call Stop to drain.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	// Start queue depth reporter
	go p.reportQueueDepth()

	p.logger.Infow("Audit pool started",
		"sink", p.config.Sink.Name(),
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
		"batchSize", p.config.BatchSize,
	)
}

// Stop closes the queue, flushes every pending batch and waits for workers
func (p *Pool) Stop() {
	p.logger.Info("Stopping audit pool...")

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Info("Audit pool stopped")
}

// Enqueue adds a record without blocking. It returns false and sheds the
// record when the queue is full or the pool is stopped.
func (p *Pool) Enqueue(record *models.PredictionRecord) bool {
	if record == nil {
		return false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		recordsLoadShed.Inc()
		return false
	}

	select {
	case p.jobQueue <- *record:
		recordsEnqueued.Inc()
		return true
	default:
		p.logger.Warnw("Audit queue full, dropping record", "id", record.ID)
		recordsLoadShed.Inc()
		return false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

// worker collects records into batches and flushes them to the sink
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debugw("Worker started", "worker", id)

	batch := make([]models.PredictionRecord, 0, p.config.BatchSize)
	ticker := time.NewTicker(p.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		start := time.Now()
		if err := p.processBatch(batch); err != nil {
			p.logger.Errorw("Batch write failed",
				"worker", id,
				"sink", p.config.Sink.Name(),
				"batchSize", len(batch),
				"error", err,
			)
			recordsFailed.Add(float64(len(batch)))
		} else {
			p.logger.Debugw("Batch written", "worker", id, "batchSize", len(batch), "duration", time.Since(start))
			recordsWritten.Add(float64(len(batch)))
		}
		batchWriteDuration.Observe(time.Since(start).Seconds())

		batch = batch[:0]
	}

	for {
		select {
		case record, ok := <-p.jobQueue:
			if !ok {
				// Channel closed, flush remaining
				flush()
				return
			}

			batch = append(batch, record)
			if len(batch) >= p.config.BatchSize {
				flush()
			}

		case <-ticker.C:
			flush()
		}
	}
}

// processBatch hands a batch to the sink under a write timeout
func (p *Pool) processBatch(batch []models.PredictionRecord) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.config.WriteTimeout)
	defer cancel()

	// The sink may retain the slice; the worker reuses its buffer
	out := make([]models.PredictionRecord, len(batch))
	copy(out, batch)

	return p.config.Sink.WriteBatch(ctx, out)
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			queueDepth.Set(0)
			return
		}
	}
}
