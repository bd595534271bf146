package events

import (
	"context"
	"encoding/json"
	"hash/fnv"

	"github.com/hey-kuldeep/expense-xtrac/logger"
	"github.com/hey-kuldeep/expense-xtrac/worker"

	"go.uber.org/zap"
)

// Submitter is the part of the worker pool the dispatcher needs.
type Submitter interface {
	Submit(job worker.Job, partition int32)
	Partitions() int
}

// Dispatcher serialises events and hands them to a worker pool. Events with
// the same email land on the same partition, so they are delivered in order.
type Dispatcher struct {
	pool Submitter
}

func NewDispatcher(pool Submitter) *Dispatcher {
	return &Dispatcher{pool: pool}
}

func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	value, err := json.Marshal(e)
	if err != nil {
		logger.Get().Error("failed to marshal event",
			zap.String("type", string(e.Type)),
			zap.Error(err))
		return
	}

	key := e.Email
	if key == "" {
		key = e.ResourceID
	}
	d.pool.Submit(worker.Job{Key: []byte(key), Value: value}, PartitionFor(key, d.pool.Partitions()))
}

// PartitionFor maps key onto one of n partitions.
func PartitionFor(key string, n int) int32 {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int32(h.Sum32() % uint32(n))
}
