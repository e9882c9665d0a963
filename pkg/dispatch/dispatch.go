// Package dispatch moves PageView submissions off the page response path.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"pageview-capi/dto"
)

const (
	ModeInline   = "inline"
	ModeAsync    = "async"
	ModeRabbitMQ = "rabbitmq"
)

var (
	ErrQueueFull   = errors.New("dispatch queue is full")
	ErrClosed      = errors.New("dispatcher is closed")
	ErrUnknownMode = errors.New("unknown dispatch mode")
)

// SubmitFunc performs the single outbound attempt for a job.
type SubmitFunc func(ctx context.Context, job *dto.Job) error

type Dispatcher interface {
	Dispatch(ctx context.Context, job *dto.Job) error
	Close()
}

func NewJob(pixel *dto.Pixel, submission *dto.Data) *dto.Job {
	return &dto.Job{
		Id:         uuid.New().String(),
		Pixel:      pixel,
		Submission: submission,
		CreatedAt:  time.Now().Unix(),
	}
}
