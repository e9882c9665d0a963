package facebook_tracking

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/punky97/go-codebase/core/logger"
	"pageview-capi/dto"
	"pageview-capi/pkg/graphapi"
)

type SettingsProvider interface {
	Load(ctx context.Context) (*dto.Pixel, error)
}

type JobDispatcher interface {
	Dispatch(ctx context.Context, job *dto.Job) error
}

type EventsSender interface {
	SendEvents(ctx context.Context, pixelId, accessToken string, data *dto.Data) (*graphapi.EventsResponse, error)
}

// Submitter turns a rendered page into one PageView submission.
type Submitter struct {
	Settings   SettingsProvider
	Dispatcher JobDispatcher
	NewJob     func(pixel *dto.Pixel, submission *dto.Data) *dto.Job
	Options    EventOptions
	Now        func() time.Time
}

// Track builds the event for r and hands it to the dispatcher. Nothing it does
// can fail the page: every error is logged and dropped.
func (s *Submitter) Track(ctx context.Context, r *dto.RequestContext) {
	logContext := logger.LoggerCtx(ctx)

	pixel, err := s.Settings.Load(ctx)
	if err != nil {
		logContext.Errorw("Could not load pixel settings", "error", err.Error())
		return
	}
	if pixel == nil {
		pixel = &dto.Pixel{}
	}
	if len(pixel.Id) == 0 || len(pixel.Token) == 0 {
		logContext.Warnw("Pixel settings are incomplete, event will be rejected", "pixel", pixel.String())
	}

	event := BuildEvent(pixel, r, s.now(), s.Options)
	job := s.newJob(pixel, BuildSubmission(pixel, event))

	if err := s.Dispatcher.Dispatch(ctx, job); err != nil {
		logContext.Errorw("Could not dispatch event", "error", err.Error(), "event_id", event.EventId, "job_id", job.Id)
	}
}

func (s *Submitter) newJob(pixel *dto.Pixel, submission *dto.Data) *dto.Job {
	if s.NewJob != nil {
		return s.NewJob(pixel, submission)
	}
	return &dto.Job{Pixel: pixel, Submission: submission, CreatedAt: s.now().Unix()}
}

func (s *Submitter) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Submit makes the one outbound attempt for a job.
func Submit(ctx context.Context, sender EventsSender, job *dto.Job) error {
	if job.Pixel == nil {
		return errors.Wrap(graphapi.ErrMissingPixelID, job.Id)
	}

	res, err := sender.SendEvents(ctx, job.Pixel.Id, job.Pixel.Token, job.Submission)
	if err != nil {
		if graphapi.IsConfigError(err) {
			return errors.Wrap(err, "pixel settings rejected")
		}
		return errors.Wrap(err, "send events")
	}

	logger.LoggerCtx(ctx).Debugw("Events received", "pid", job.Pixel.Id, "events_received", res.EventsReceived, "fbtrace_id", res.FbTraceId)
	return nil
}

// NewSubmitFunc binds Submit to a sender for use by a dispatcher.
func NewSubmitFunc(sender EventsSender) func(ctx context.Context, job *dto.Job) error {
	return func(ctx context.Context, job *dto.Job) error {
		return Submit(ctx, sender, job)
	}
}
