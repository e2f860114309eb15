package iot

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/metrics"
)

const (
	DefaultDispatchBuffer = 1024
	defaultJobTimeout     = 5 * time.Second
)

type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher runs collaborator I/O on a single background goroutine behind a
// bounded queue. Submit never blocks: when the queue is full the job is dropped
// and counted. Job errors are logged and never reach the caller.
type Dispatcher struct {
	jobs    chan Job
	metrics *metrics.Metrics
	timeout time.Duration

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewDispatcher(buffer int, m *metrics.Metrics) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultDispatchBuffer
	}
	return &Dispatcher{
		jobs:    make(chan Job, buffer),
		metrics: m,
		timeout: defaultJobTimeout,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	d.wg.Add(1)
	go d.run(ctx)
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	logger := common.GetLoggerWith(common.LoggerNameDispatch)

	for job := range d.jobs {
		jobCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := job.Run(jobCtx)
		cancel()

		if err != nil {
			d.metrics.DispatchFailed(job.Name)
			logger.Warn("Background job failed", zap.String("job", job.Name), zap.Error(err))
		}
	}
}

// Submit reports whether the job was queued.
func (d *Dispatcher) Submit(name string, run func(ctx context.Context) error) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}

	select {
	case d.jobs <- Job{Name: name, Run: run}:
		return true
	default:
		d.metrics.DispatchDropped(name)
		common.GetLoggerWith(common.LoggerNameDispatch).
			Warn("Dispatch queue full, dropping job", zap.String("job", name))
		return false
	}
}

func (d *Dispatcher) Pending() int {
	return len(d.jobs)
}

// Close stops accepting jobs and waits for the queued ones to finish. Jobs
// queued on a dispatcher that was never started are discarded.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}
