package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Dial connects to RabbitMQ and verifies a channel can be opened.
func Dial(ctx context.Context, url string) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Dial: amqp.DefaultDial(5 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	_ = ch.Close()

	return conn, nil
}

func declareQueue(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue %s failed: %w", name, err)
	}
	return nil
}

// RabbitMQQueue publishes jobs as persistent messages on a durable queue.
type RabbitMQQueue struct {
	conn      *amqp.Connection
	queueName string
	logger    *slog.Logger
	now       func() time.Time
}

// NewRabbitMQQueue creates a publisher for queueName.
func NewRabbitMQQueue(conn *amqp.Connection, queueName string, logger *slog.Logger) *RabbitMQQueue {
	return &RabbitMQQueue{
		conn:      conn,
		queueName: queueName,
		logger:    logger,
		now:       time.Now,
	}
}

func (q *RabbitMQQueue) Enqueue(ctx context.Context, kind string, payload any) error {
	job, err := NewJob(kind, payload, q.now().UTC())
	if err != nil {
		return err
	}

	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job failed: %w", err)
	}

	ch, err := q.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, q.queueName); err != nil {
		return err
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		q.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         job.Kind,
			Timestamp:    job.EnqueuedAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish job failed: %w", err)
	}

	q.logger.Debug("📤 [Queue] Job published", "kind", kind, "queue", q.queueName)
	return nil
}

// Close is a no-op; the connection is owned by the caller.
func (q *RabbitMQQueue) Close() error {
	return nil
}

// Consumer pulls jobs off a RabbitMQ queue and dispatches them.
// Failed jobs are rejected without requeue.
type Consumer struct {
	conn       *amqp.Connection
	queueName  string
	dispatcher *Dispatcher
	logger     *slog.Logger
	timeout    time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsumer creates a consumer for queueName.
func NewConsumer(conn *amqp.Connection, queueName string, dispatcher *Dispatcher, logger *slog.Logger) *Consumer {
	return &Consumer{
		conn:       conn,
		queueName:  queueName,
		dispatcher: dispatcher,
		logger:     logger,
		timeout:    30 * time.Second,
	}
}

// Start begins consuming in a background goroutine.
func (c *Consumer) Start(ctx context.Context) error {
	if c.cancel != nil {
		return nil
	}

	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("open consumer channel failed: %w", err)
	}

	if err := declareQueue(ch, c.queueName); err != nil {
		_ = ch.Close()
		return err
	}

	if err := ch.Qos(10, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("set consumer qos failed: %w", err)
	}

	deliveries, err := ch.Consume(
		c.queueName,
		"",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	consumerCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer ch.Close()

		c.logger.Info("📥 [Queue] Consumer started", "queue", c.queueName)
		for {
			select {
			case <-consumerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					c.logger.Warn("⚠️ [Queue] Delivery channel closed", "queue", c.queueName)
					return
				}
				c.handle(consumerCtx, d)
			}
		}
	}()

	return nil
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) {
	var job Job
	if err := json.Unmarshal(d.Body, &job); err != nil {
		c.logger.Error("❌ [Queue] Failed to decode job", "error", err)
		_ = d.Nack(false, false)
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.dispatcher.Dispatch(jobCtx, job); err != nil {
		c.logger.Error("❌ [Queue] Job failed", "kind", job.Kind, "error", err)
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
	c.logger.Debug("✅ [Queue] Job processed", "kind", job.Kind)
}

// Close stops consuming and waits for the in-flight job.
func (c *Consumer) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}
