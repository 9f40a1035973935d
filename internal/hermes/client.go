package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// QueueGroup is shared by every recreator instance so each inspiration event
// is generated once, however many replicas are running.
const QueueGroup = "recreator"

// DrainTimeout bounds how long Close waits for in-flight handlers.
const DrainTimeout = 20 * time.Second

// Client publishes recreation events and delivers inspiration events to
// handlers.
type Client struct {
	conn   *nats.Conn
	closed chan struct{}
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	closed := make(chan struct{})
	opts := []nats.Option{
		nats.Name("recreator"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DrainTimeout(DrainTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			close(closed)
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, closed: closed, logger: logger}, nil
}

// Publish sends data as JSON on subject.
func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	if err := c.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Subscribe delivers messages on subject to handler through QueueGroup.
// Handlers for one subscription run one at a time.
func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	_, err := c.conn.QueueSubscribe(subject, QueueGroup, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.logger.Info("subscribed", "subject", subject, "queue", QueueGroup)
	return nil
}

// Close drains the connection: subscriptions stop taking new messages,
// handlers already running finish and may still publish, then the
// connection closes. If ctx ends first the connection is closed at once.
func (c *Client) Close(ctx context.Context) {
	if err := c.conn.Drain(); err != nil {
		c.logger.Warn("nats drain failed, closing", "error", err)
		c.conn.Close()
		return
	}
	select {
	case <-c.closed:
	case <-ctx.Done():
		c.logger.Warn("nats drain interrupted", "error", ctx.Err())
		c.conn.Close()
	}
}
