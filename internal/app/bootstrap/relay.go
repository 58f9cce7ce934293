package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"kura/contexts/student-governance/election-engine/application/workers"
)

const relayRunTimeout = 30 * time.Second

// RelayScheduler runs the election outbox relay on a fixed interval. Singleton
// mode keeps a slow cycle from overlapping the next one.
type RelayScheduler struct {
	relay     workers.OutboxRelay
	interval  time.Duration
	scheduler *gocron.Scheduler
	logger    *slog.Logger
}

func NewRelayScheduler(relay workers.OutboxRelay, interval time.Duration, logger *slog.Logger) *RelayScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RelayScheduler{
		relay:     relay,
		interval:  interval,
		scheduler: gocron.NewScheduler(time.UTC),
		logger:    logger,
	}
}

func (s *RelayScheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.runOnce)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

func (s *RelayScheduler) Stop() {
	s.scheduler.Stop()
}

func (s *RelayScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), relayRunTimeout)
	defer cancel()
	if _, err := s.relay.RunOnce(ctx); err != nil {
		// Unpublished rows stay pending and are retried next tick.
		s.logger.Warn("outbox relay cycle failed",
			"event", "bootstrap_relay_cycle_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
	}
}
