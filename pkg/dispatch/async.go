package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/punky97/go-codebase/core/logger"
	"pageview-capi/dto"
)

const (
	DefaultWorkers       = 4
	DefaultQueueSize     = 1000
	DefaultSubmitTimeout = 30 * time.Second
)

// Async hands jobs to a fixed pool of workers through a bounded channel. Dispatch
// never blocks: when the channel is full the job is dropped.
type Async struct {
	submit  SubmitFunc
	timeout time.Duration
	jobs    chan *dto.Job

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsync(submit SubmitFunc, workers, queueSize int, timeout time.Duration) *Async {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if timeout <= 0 {
		timeout = DefaultSubmitTimeout
	}

	d := &Async{
		submit:  submit,
		timeout: timeout,
		jobs:    make(chan *dto.Job, queueSize),
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.work()
	}
	return d
}

func (d *Async) Dispatch(ctx context.Context, job *dto.Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	select {
	case d.jobs <- job:
		return nil
	default:
		logger.LoggerCtx(ctx).Warnw("Drop event, dispatch queue is full", "job_id", job.Id, "queue_size", cap(d.jobs))
		return ErrQueueFull
	}
}

// Close stops accepting jobs and waits for the queued ones to be submitted.
func (d *Async) Close() {
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

func (d *Async) work() {
	defer d.wg.Done()
	for job := range d.jobs {
		d.run(job)
	}
}

func (d *Async) run(job *dto.Job) {
	// the page request is long gone, so the job gets its own deadline
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.BkLog.Errorw("Panic while sending event", "job_id", job.Id, "panic", r)
		}
	}()

	start := time.Now()
	if err := d.submit(ctx, job); err != nil {
		logger.BkLog.Errorw("Could not send event", "error", err.Error(), "job_id", job.Id)
		return
	}
	logger.BkLog.Debugw("Sent event", "job_id", job.Id, "took", time.Since(start).String())
}
