package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/architeacher/svc-health-gate/internal/config"
	"github.com/architeacher/svc-health-gate/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

type (
	// Queue holds the broker connection used by the optional queue
	// dependency check. The connection is shared across invocations; the
	// round-trip opens a fresh channel each time.
	Queue struct {
		cfg    config.QueueConfig
		conn   *amqp.Connection
		logger Logger
		mutex  sync.RWMutex
	}
)

func NewQueue(cfg config.QueueConfig, logger Logger) *Queue {
	return &Queue{
		cfg:    cfg,
		logger: logger,
	}
}

func (q *Queue) Connect() error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.conn != nil && !q.conn.IsClosed() {
		return nil
	}

	uri := amqp.URI{
		Scheme:   "amqp",
		Username: q.cfg.Username,
		Password: q.cfg.Password,
		Host:     q.cfg.Host,
		Port:     q.cfg.Port,
		Vhost:    q.cfg.VirtualHost,
	}

	conn, err := amqp.DialConfig(uri.String(), amqp.Config{
		Heartbeat: q.cfg.Heartbeat,
		Dial:      amqp.DefaultDial(q.cfg.ConnectTimeout),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	q.conn = conn

	return nil
}

// RoundTrip confirms the broker connection is alive. A connection the broker
// already closed is a failure signal, not an error path, so it is reported
// the same way a channel-open failure is.
func (q *Queue) RoundTrip(_ context.Context) error {
	q.mutex.RLock()
	conn := q.conn
	q.mutex.RUnlock()

	if conn == nil || conn.IsClosed() {
		return domain.ErrQueueNotConnected
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("queue round-trip failed: %w", err)
	}

	return ch.Close()
}

func (q *Queue) IsConnected() bool {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	return q.conn != nil && !q.conn.IsClosed()
}

func (q *Queue) Close() error {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.conn == nil || q.conn.IsClosed() {
		return nil
	}

	return q.conn.Close()
}
