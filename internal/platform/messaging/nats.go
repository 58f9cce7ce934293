package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"kura/contexts/student-governance/election-engine/ports"

	"github.com/nats-io/nats.go"
)

const flushTimeout = 5 * time.Second

// NATS publishes election envelopes as JSON on core NATS subjects. The topic
// handed to Publish is used verbatim as the subject.
type NATS struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewNATS(url string, name string, logger *slog.Logger) (*NATS, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected",
					"event", "nats_disconnected",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected",
				"event", "nats_reconnected",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"url", c.ConnectedUrl(),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATS{conn: conn, logger: logger}, nil
}

func (n *NATS) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventID, err)
	}
	msg := nats.NewMsg(topic)
	msg.Data = data
	msg.Header.Set("Nats-Msg-Id", event.EventID)
	msg.Header.Set("Event-Type", event.EventType)
	if err := n.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	// The relay marks a row published only after the server acknowledged the flush.
	if err := n.conn.FlushTimeout(flushTimeout); err != nil {
		return fmt.Errorf("flush %s: %w", topic, err)
	}
	n.logger.Debug("event published",
		"event", "nats_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"subject", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

func (n *NATS) Close() error {
	if n == nil || n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}

var _ ports.EventPublisher = (*NATS)(nil)
