package commands

import (
	"context"
	"log/slog"
	"strings"

	application "kura/contexts/student-governance/election-engine/application"
	"kura/contexts/student-governance/election-engine/domain/entities"
	"kura/contexts/student-governance/election-engine/ports"
)

type ResetElectionCommand struct {
	ActorID string
}

// ResetUseCase wipes votes, candidacies, delegates and parties and returns
// the election to Registration. The phase log keeps its history; the reset
// is appended as a new entry.
type ResetUseCase struct {
	Phases ports.PhaseRepository
	Reset  ports.ResetRepository
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc ResetUseCase) Execute(ctx context.Context, cmd ResetElectionCommand) (ports.ResetSummary, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := strings.TrimSpace(cmd.ActorID)
	if actor == "" {
		actor = entities.DefaultReviewer
	}
	logger.Warn("election reset started",
		"event", "election_reset_started",
		"module", "student-governance/election-engine",
		"layer", "application",
		"actor_id", actor,
	)

	current, found, err := uc.Phases.CurrentPhase(ctx)
	if err != nil {
		return ports.ResetSummary{}, err
	}
	var version int64 = 1
	if found {
		version = current.Version + 1
	}
	now := resolveNow(uc.Clock)
	summary, err := uc.Reset.ResetElection(ctx, entities.NewPhase(version, entities.PhaseRegistration, actor, entities.PhaseChangeReset, now))
	if err != nil {
		logger.Error("election reset failed",
			"event", "election_reset_failed",
			"module", "student-governance/election-engine",
			"layer", "application",
			"actor_id", actor,
			"error", err.Error(),
		)
		return ports.ResetSummary{}, err
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, "election.reset", "election", "reset", now, map[string]any{
		"actor_id":                  actor,
		"delegate_votes_deleted":    summary.DelegateVotesDeleted,
		"council_votes_deleted":     summary.CouncilVotesDeleted,
		"candidates_deleted":        summary.CandidatesDeleted,
		"elected_delegates_deleted": summary.ElectedDelegatesDeleted,
		"parties_deleted":           summary.PartiesDeleted,
		"phase_version":             summary.Phase.Version,
	}); err != nil {
		return ports.ResetSummary{}, err
	}

	logger.Warn("election reset completed",
		"event", "election_reset_completed",
		"module", "student-governance/election-engine",
		"layer", "application",
		"actor_id", actor,
		"phase_version", summary.Phase.Version,
		"delegate_votes_deleted", summary.DelegateVotesDeleted,
		"council_votes_deleted", summary.CouncilVotesDeleted,
		"parties_deleted", summary.PartiesDeleted,
	)
	return summary, nil
}
