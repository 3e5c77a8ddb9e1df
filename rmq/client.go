package rmq

import (
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"text2phenotype.com/postagger/logger"
)

type Config struct {
	Host                    string `envconfig:"TAGGER_RMQ_HOST" required:"true"`
	Port                    string `envconfig:"TAGGER_RMQ_PORT" default:"5672"`
	Username                string `envconfig:"TAGGER_RMQ_USERNAME" required:"true"`
	Password                string `envconfig:"TAGGER_RMQ_PASSWORD" required:"true"`
	Exchange                string `envconfig:"TAGGER_RMQ_EXCHANGE" default:"postagger-exchange"`
	MaxParallelRequestCount int    `envconfig:"TAGGER_RMQ_MAX_PARALLEL_REQUESTS" default:"5"`
	TaskQueue               string `envconfig:"TAGGER_TASK_QUEUE" required:"true"`
	ReplyQueue              string `envconfig:"TAGGER_REPLY_QUEUE" required:"true"`
}

// URL is the AMQP dial address.
func (c Config) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s", c.Username, c.Password, c.Host, c.Port)
}

// Client consumes tagging tasks on one connection and publishes replies on
// another, so a blocked publisher never stalls consumption.
type Client struct {
	Deliveries     <-chan amqp.Delivery
	ReqChanErrors  <-chan *amqp.Error
	RespChanErrors <-chan *amqp.Error
	config         Config
	reqConn        *amqp.Connection
	respConn       *amqp.Connection
	respChannel    *amqp.Channel
	rmqLogger      zerolog.Logger
}

func NewClient() (*Client, error) {
	rmqLogger := logger.NewLogger("RMQ client")
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		rmqLogger.Error().Err(err).Msg("Could not read env config")
		return nil, err
	}

	respConn, respChannel, err := dial(config.URL())
	if err != nil {
		return nil, fmt.Errorf("reply connection: %w", err)
	}
	reqConn, reqChannel, err := dial(config.URL())
	if err != nil {
		_ = respConn.Close()
		return nil, fmt.Errorf("task connection: %w", err)
	}

	deliveries, err := consume(reqChannel, config)
	if err != nil {
		_ = respConn.Close()
		_ = reqConn.Close()
		return nil, err
	}
	rmqLogger.Info().
		Str("task_queue", config.TaskQueue).
		Str("reply_queue", config.ReplyQueue).
		Msg("Consuming tagging tasks")

	return &Client{
		Deliveries:     deliveries,
		ReqChanErrors:  reqChannel.NotifyClose(make(chan *amqp.Error, 1)),
		RespChanErrors: respChannel.NotifyClose(make(chan *amqp.Error, 1)),
		config:         config,
		reqConn:        reqConn,
		respConn:       respConn,
		respChannel:    respChannel,
		rmqLogger:      rmqLogger,
	}, nil
}

func consume(ch *amqp.Channel, config Config) (<-chan amqp.Delivery, error) {
	q, err := ch.QueueDeclarePassive(
		config.TaskQueue, // name
		true,             // durable
		false,            // delete when unused
		false,            // exclusive
		false,            // no-wait
		nil,              // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare %s: %w", config.TaskQueue, err)
	}
	if err = ch.QueueBind(q.Name, q.Name, config.Exchange, false, nil); err != nil {
		return nil, fmt.Errorf("bind %s: %w", q.Name, err)
	}
	if err = ch.Qos(config.MaxParallelRequestCount, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %w", err)
	}
	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume deliveries: %w", err)
	}
	return deliveries, nil
}

// Reply publishes msg to the reply queue.
func (c *Client) Reply(msg amqp.Publishing) error {
	return c.respChannel.Publish(c.config.Exchange, c.config.ReplyQueue, false, false, msg)
}

func (c *Client) Close() {
	_ = c.reqConn.Close()
	_ = c.respConn.Close()
	c.rmqLogger.Info().Msg("Closed RMQ connections")
}

func dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, ch, nil
}
