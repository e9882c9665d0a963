package main

import (
	"github.com/punky97/go-codebase/core/bkconsumer"
	"github.com/punky97/go-codebase/core/logger"
	"pageview-capi/cmd/consumer/pageview-consumer/task"
	"pageview-capi/pkg/codename"
)

// The task definition (task.def) must name the handler task.HandlerPageViewSubmit.
func main() {
	bkconsumer.Bootstrapping("", func(w *bkconsumer.Worker) {
		logger.BkLog.Infof("Starting %v", codename.PageViewConsumer)
		bkconsumer.Bootstrapper.AddConsumerTask(&task.PageViewTask{})
	})
}
