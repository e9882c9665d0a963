package dispatch

import (
	"context"
	"time"

	"github.com/punky97/go-codebase/core/logger"
	"pageview-capi/dto"
)

// Inline submits on the caller's goroutine. Failures are logged and swallowed.
// The submission keeps the request's values but not its cancellation, so a
// visitor closing the page does not abort it; the HTTP client timeout bounds it.
type Inline struct {
	submit SubmitFunc
}

func NewInline(submit SubmitFunc) *Inline {
	return &Inline{submit: submit}
}

func (d *Inline) Dispatch(ctx context.Context, job *dto.Job) error {
	if err := d.submit(detach(ctx), job); err != nil {
		logger.LoggerCtx(ctx).Errorw("Could not send event", "error", err.Error(), "job_id", job.Id)
	}
	return nil
}

func (d *Inline) Close() {}

type detachedContext struct {
	context.Context
}

func detach(ctx context.Context) context.Context {
	return detachedContext{ctx}
}

func (detachedContext) Deadline() (time.Time, bool) { return time.Time{}, false }
func (detachedContext) Done() <-chan struct{} { return nil }
func (detachedContext) Err() error { return nil }
