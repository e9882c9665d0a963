package task

import (
	"context"

	"github.com/punky97/go-codebase/core/bkconsumer"
	"github.com/punky97/go-codebase/core/drivers/queue"
	"github.com/punky97/go-codebase/core/logger"
	"google.golang.org/grpc"
	"pageview-capi/pkg/dispatch"
	facebook_tracking "pageview-capi/pkg/facebook-tracking"
	"pageview-capi/pkg/graphapi"
	"pageview-capi/pkg/utils"
)

// HandlerPageViewSubmit must match the consumer name in the task definition.
const HandlerPageViewSubmit = "pageview_submit"

type PageViewTask struct {
	handler *PageViewHandler
}

func (t *PageViewTask) Init(w *bkconsumer.Worker) {
	t.handler = &PageViewHandler{
		submit: facebook_tracking.NewSubmitFunc(graphapi.NewClient()),
	}
}

func (t *PageViewTask) GetHandlers() map[string]bkconsumer.HandlerWOption {
	return map[string]bkconsumer.HandlerWOption{
		HandlerPageViewSubmit: {
			MsgHandler: t.handler,
			Replica:    int64(utils.ViperGetIntWithDefault("dispatch.workers", dispatch.DefaultWorkers)),
			// one attempt per page render
			Retries: -1,
		},
	}
}

func (t *PageViewTask) GetDmsNames() []string { return nil }

func (t *PageViewTask) SetDmsClient(map[string]*grpc.ClientConn) {}

func (t *PageViewTask) SetProducer(*queue.Producer) {}

func (t *PageViewTask) Close(w *bkconsumer.Worker) {
	logger.BkLog.Info("Closing pageview consumer")
}

// PageViewHandler submits one queued job per message.
type PageViewHandler struct {
	submit dispatch.SubmitFunc
}

func (h *PageViewHandler) Handle(msg []byte) bkconsumer.ProcessStatus {
	job, err := dispatch.DecodeJob(msg)
	if err != nil {
		logger.BkLog.Errorw("Drop malformed pageview message", "error", err.Error())
		return bkconsumer.ProcessFailDrop
	}

	if err := h.submit(context.Background(), job); err != nil {
		logger.BkLog.Errorw("Could not send event", "error", err.Error(), "job_id", job.Id)
		return bkconsumer.ProcessFailDrop
	}
	return bkconsumer.ProcessOK
}
