package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "kura/contexts/student-governance/election-engine/application"
	"kura/contexts/student-governance/election-engine/ports"
)

const defaultRelayBatchSize = 100

// OutboxRelay publishes persisted election events to the event bus.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	// TopicPrefix is prepended as "<prefix>.<event_type>" when set.
	TopicPrefix string
	OnPublished func(eventType string)
	Logger      *slog.Logger
}

// RunOnce publishes one batch in creation order and marks a row published
// only after the bus accepted it. The first failure ends the cycle; the
// remaining rows stay pending for the next run.
func (r OutboxRelay) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = defaultRelayBatchSize
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("election outbox list failed",
			"event", "election_outbox_list_failed",
			"module", "student-governance/election-engine",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}
	if len(pending) == 0 {
		logger.Debug("election outbox relay found no pending rows",
			"event", "election_outbox_relay_noop",
			"module", "student-governance/election-engine",
			"layer", "worker",
			"batch_size", limit,
		)
		return 0, nil
	}

	published := 0
	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			logger.Error("election outbox decode failed",
				"event", "election_outbox_decode_failed",
				"module", "student-governance/election-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}
		eventType := event.EventType
		if eventType == "" {
			eventType = row.EventType
		}
		if err := r.Publisher.Publish(ctx, r.topic(eventType), event); err != nil {
			logger.Error("election outbox publish failed",
				"event", "election_outbox_publish_failed",
				"module", "student-governance/election-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"event_id", event.EventID,
				"event_type", eventType,
				"error", err.Error(),
			)
			return published, err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, r.now()); err != nil {
			logger.Error("election outbox mark published failed",
				"event", "election_outbox_mark_published_failed",
				"module", "student-governance/election-engine",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return published, err
		}
		published++
		if r.OnPublished != nil {
			r.OnPublished(eventType)
		}
	}

	logger.Info("election outbox relay cycle completed",
		"event", "election_outbox_relay_completed",
		"module", "student-governance/election-engine",
		"layer", "worker",
		"published_count", published,
	)
	return published, nil
}

func (r OutboxRelay) topic(eventType string) string {
	if r.TopicPrefix == "" {
		return eventType
	}
	return r.TopicPrefix + "." + eventType
}

func (r OutboxRelay) now() time.Time {
	if r.Clock != nil {
		return r.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
