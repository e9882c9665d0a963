package dispatch

import (
	"github.com/pkg/errors"
	"github.com/punky97/go-codebase/core/logger"
	"pageview-capi/pkg/utils"
)

// NewFromConfig builds the dispatcher named by dispatch.mode (async by default).
func NewFromConfig(submit SubmitFunc) (Dispatcher, error) {
	mode := utils.ViperGetStringWithDefault("dispatch.mode", ModeAsync)
	logger.BkLog.Infof("Dispatch mode: %v", mode)

	switch mode {
	case ModeInline:
		return NewInline(submit), nil
	case ModeAsync:
		return NewAsync(submit,
			utils.ViperGetIntWithDefault("dispatch.workers", DefaultWorkers),
			utils.ViperGetIntWithDefault("dispatch.queue_size", DefaultQueueSize),
			utils.ViperGetSecondsWithDefault("dispatch.timeout", DefaultSubmitTimeout),
		), nil
	case ModeRabbitMQ:
		return NewRabbitMQFromConfig()
	default:
		return nil, errors.Wrap(ErrUnknownMode, mode)
	}
}
