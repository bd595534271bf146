package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/hey-kuldeep/expense-xtrac/logger"

	"go.uber.org/zap"
)

const partitionBuffer = 100

// Job is one unit of work. Key identifies the ordering domain of the job.
type Job struct {
	Key   []byte
	Value []byte
}

// HandlerFunc processes a job. A returned error is logged and counted.
type HandlerFunc func(ctx context.Context, job Job) error

type WorkerPool struct {
	workers    int
	partitions []chan Job
	handle     HandlerFunc
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc

	// stopMu guards stopped and the partition channels against a Submit
	// racing Stop.
	stopMu  sync.RWMutex
	stopped bool

	// Metrics
	mu                 sync.RWMutex
	messagesProcessed  uint64
	messagesFailed     uint64
	processingDuration uint64
	bufferFillLevels   []uint64
	messagesDropped    uint64
}

func NewWorkerPool(workers int, handle HandlerFunc) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	partitions := make([]chan Job, workers)
	for i := range partitions {
		partitions[i] = make(chan Job, partitionBuffer)
	}
	return &WorkerPool{
		workers:          workers,
		partitions:       partitions,
		handle:           handle,
		ctx:              ctx,
		cancelFunc:       cancel,
		bufferFillLevels: make([]uint64, workers),
	}
}

func (wp *WorkerPool) Partitions() int {
	return wp.workers
}

func (wp *WorkerPool) Start() {
	logger.Get().Info("Starting worker pool", zap.Int("workers", wp.workers))
	for i := range wp.partitions {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the partitions and waits for workers to drain what was
// already queued.
func (wp *WorkerPool) Stop() {
	wp.stopMu.Lock()
	if wp.stopped {
		wp.stopMu.Unlock()
		return
	}
	wp.stopped = true
	for _, ch := range wp.partitions {
		close(ch)
	}
	wp.stopMu.Unlock()

	logger.Get().Info("Stopping worker pool")
	wp.wg.Wait()
	wp.cancelFunc()
}

func (wp *WorkerPool) Submit(job Job, partition int32) {
	if partition < 0 || int(partition) >= len(wp.partitions) {
		wp.drop()
		logger.Get().Error("Invalid partition number",
			zap.Int32("partition", partition),
			zap.Int("max_partitions", len(wp.partitions)))
		return
	}

	wp.stopMu.RLock()
	defer wp.stopMu.RUnlock()
	if wp.stopped {
		wp.drop()
		logger.Get().Warn("Worker pool is stopped, job not submitted")
		return
	}

	wp.mu.Lock()
	wp.bufferFillLevels[partition]++
	wp.mu.Unlock()

	select {
	case wp.partitions[partition] <- job:
		logger.Get().Debug("Job submitted to worker pool",
			zap.Int32("partition", partition))
	default:
		wp.mu.Lock()
		wp.bufferFillLevels[partition]--
		wp.messagesDropped++
		wp.mu.Unlock()
		logger.Get().Warn("Worker partition full, job dropped",
			zap.Int32("partition", partition))
	}
}

func (wp *WorkerPool) drop() {
	wp.mu.Lock()
	wp.messagesDropped++
	wp.mu.Unlock()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()
	logger.Get().Info("Worker started", zap.Int("worker_id", id))

	for job := range wp.partitions[id] {
		wp.mu.Lock()
		if wp.bufferFillLevels[id] > 0 {
			wp.bufferFillLevels[id]--
		}
		wp.mu.Unlock()

		startTime := time.Now()
		err := wp.handle(wp.ctx, job)
		elapsed := uint64(time.Since(startTime).Milliseconds())

		wp.mu.Lock()
		if err != nil {
			wp.messagesFailed++
		} else {
			wp.messagesProcessed++
		}
		wp.processingDuration += elapsed
		wp.mu.Unlock()

		if err != nil {
			logger.Get().Error("Failed to process job",
				zap.Int("worker_id", id),
				zap.ByteString("key", job.Key),
				zap.Error(err))
		}
	}
	logger.Get().Info("Worker stopping", zap.Int("worker_id", id))
}

// Metrics is a point-in-time view of the pool counters.
type Metrics struct {
	MessagesProcessed uint64   `json:"messages_processed"`
	MessagesFailed    uint64   `json:"messages_failed"`
	MessagesDropped   uint64   `json:"messages_dropped"`
	AvgProcessingMs   float64  `json:"avg_processing_ms"`
	BufferLevels      []uint64 `json:"buffer_levels"`
	ActiveWorkers     int      `json:"active_workers"`
}

func (wp *WorkerPool) Metrics() Metrics {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	var avgProcessingTime float64
	if handled := wp.messagesProcessed + wp.messagesFailed; handled > 0 {
		avgProcessingTime = float64(wp.processingDuration) / float64(handled)
	}

	return Metrics{
		MessagesProcessed: wp.messagesProcessed,
		MessagesFailed:    wp.messagesFailed,
		MessagesDropped:   wp.messagesDropped,
		AvgProcessingMs:   avgProcessingTime,
		BufferLevels:      append([]uint64(nil), wp.bufferFillLevels...),
		ActiveWorkers:     wp.workers,
	}
}

// MetricsHandler returns the current metrics as JSON
func (wp *WorkerPool) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(wp.Metrics())
}
