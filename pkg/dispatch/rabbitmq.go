package dispatch

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/punky97/go-codebase/core/drivers/queue"
	"github.com/punky97/go-codebase/core/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"pageview-capi/dto"
	"pageview-capi/pkg/utils"
)

const (
	DefaultExchange   = "capi.pageview"
	DefaultRoutingKey = "pageview"

	HeaderJobId   = "x-job-id"
	HeaderPixelId = "x-pixel-id"
)

type publisher interface {
	PublishRouting(exchName, routingKey string, data []byte, args ...queue.HeaderProducerOption) error
}

// RabbitMQ publishes jobs for the pageview consumer to submit.
type RabbitMQ struct {
	producer   publisher
	exchange   string
	routingKey string
	onClose    func()
}

func NewRabbitMQ(producer publisher, exchange, routingKey string) *RabbitMQ {
	if len(exchange) == 0 {
		exchange = DefaultExchange
	}
	if len(routingKey) == 0 {
		routingKey = DefaultRoutingKey
	}
	return &RabbitMQ{producer: producer, exchange: exchange, routingKey: routingKey}
}

// NewRabbitMQFromConfig connects a go-codebase producer using rabbitmq.*.
func NewRabbitMQFromConfig() (*RabbitMQ, error) {
	conf := queue.DefaultRMqConfFromConfig()
	if len(conf.ExchangeConfig.Name) == 0 {
		conf.ExchangeConfig.Name = DefaultExchange
	}
	if len(conf.ExchangeConfig.Type) == 0 {
		conf.ExchangeConfig.Type = "direct"
	}

	internalQueueSize := utils.ViperGetIntWithDefault("rabbitmq.internal_queue_size", 1000)
	retries := utils.ViperGetIntWithDefault("rabbitmq.retries", 10)
	p := queue.NewRMQProducerFromConf(conf, internalQueueSize, retries)
	if p == nil {
		return nil, errors.New("missing rabbitmq.uri")
	}
	if err := p.Connect(); err != nil {
		return nil, errors.Wrap(err, "connect rabbitmq producer")
	}
	if err := p.DeclareExch(); err != nil {
		return nil, errors.Wrap(err, "declare pageview exchange")
	}
	p.Start()

	d := NewRabbitMQ(p, conf.ExchangeConfig.Name, viper.GetString("rabbitmq.routing_key"))
	d.onClose = p.Close
	return d, nil
}

func (d *RabbitMQ) Dispatch(ctx context.Context, job *dto.Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "marshal job")
	}

	pixelId := ""
	if job.Pixel != nil {
		pixelId = job.Pixel.Id
	}
	err = d.producer.PublishRouting(d.exchange, d.routingKey, body, func(table amqp.Table) {
		table[HeaderJobId] = job.Id
		table[HeaderPixelId] = pixelId
	})
	if err != nil {
		logger.LoggerCtx(ctx).Errorw("Could not publish event", "error", err.Error(), "job_id", job.Id, "exchange", d.exchange)
		return errors.Wrap(err, "publish job")
	}
	return nil
}

func (d *RabbitMQ) Close() {
	if d.onClose != nil {
		d.onClose()
	}
}

// DecodeJob reverses Dispatch for the consumer side.
func DecodeJob(msg []byte) (*dto.Job, error) {
	job := &dto.Job{}
	if err := json.Unmarshal(msg, job); err != nil {
		return nil, errors.Wrap(err, "unmarshal job")
	}
	if job.Submission == nil || len(job.Submission.Data) == 0 {
		return nil, errors.New("job has no events")
	}
	if job.Pixel != nil {
		job.Submission.PixelId = job.Pixel.Id
	}
	return job, nil
}
