package commands

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	application "kura/contexts/student-governance/election-engine/application"
	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"
)

const systemActor = "system"

type AdvancePhaseCommand struct {
	ActorID string
}

type SetPhaseCommand struct {
	Number  int
	ActorID string
}

// PhaseTransitionResult carries the recorded phase and, when the transition
// closed delegate voting, the freshly tallied delegates.
type PhaseTransitionResult struct {
	Previous entities.Phase
	Current  entities.Phase
	Tallied  bool
	Elected  []entities.ElectedDelegate
}

// PhaseUseCase owns the current-phase value. Writes are optimistic: each new
// log entry claims version current+1 and a lost race surfaces
// ErrPhaseConflict instead of being replayed.
type PhaseUseCase struct {
	Phases ports.PhaseRepository
	Tally  DelegateTallyUseCase
	Outbox ports.OutboxWriter
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// Current returns the current phase, recording phase 0 when the log is empty.
func (uc PhaseUseCase) Current(ctx context.Context) (entities.Phase, error) {
	phase, found, err := uc.Phases.CurrentPhase(ctx)
	if err != nil {
		return entities.Phase{}, err
	}
	if found {
		return phase, nil
	}

	initial := entities.NewPhase(1, entities.PhaseRegistration, systemActor, entities.PhaseChangeInitialized, resolveNow(uc.Clock))
	if err := uc.Phases.AppendPhase(ctx, initial); err != nil {
		if !errors.Is(err, domainerrors.ErrPhaseConflict) {
			return entities.Phase{}, err
		}
		phase, found, err = uc.Phases.CurrentPhase(ctx)
		if err != nil {
			return entities.Phase{}, err
		}
		if !found {
			return entities.Phase{}, domainerrors.ErrPhaseConflict
		}
		return phase, nil
	}

	application.ResolveLogger(uc.Logger).Info("phase log initialized",
		"event", "election_phase_initialized",
		"module", "student-governance/election-engine",
		"layer", "application",
		"phase", int(initial.Number),
	)
	return initial, nil
}

func (uc PhaseUseCase) Log(ctx context.Context) ([]entities.Phase, error) {
	return uc.Phases.ListPhases(ctx)
}

// Advance moves to the next phase, skipping Nominee Registration. Leaving
// Delegate Voting tallies the delegate votes before the new phase is recorded.
func (uc PhaseUseCase) Advance(ctx context.Context, cmd AdvancePhaseCommand) (PhaseTransitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	current, err := uc.Current(ctx)
	if err != nil {
		return PhaseTransitionResult{}, err
	}
	if current.Number >= entities.LastPhase {
		logger.Warn("phase advance rejected at terminal phase",
			"event", "election_phase_advance_terminal",
			"module", "student-governance/election-engine",
			"layer", "application",
			"phase", int(current.Number),
			"actor_id", strings.TrimSpace(cmd.ActorID),
		)
		return PhaseTransitionResult{}, domainerrors.ErrTerminalPhase
	}
	return uc.transition(ctx, current, current.Number.Next(), cmd.ActorID, entities.PhaseChangeAdvanced)
}

// Set is the administrative override. Any valid phase except 3 may be set,
// including backwards.
func (uc PhaseUseCase) Set(ctx context.Context, cmd SetPhaseCommand) (PhaseTransitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	target := entities.PhaseNumber(cmd.Number)
	if !target.Valid() {
		logger.Warn("phase set rejected",
			"event", "election_phase_set_invalid",
			"module", "student-governance/election-engine",
			"layer", "application",
			"requested", cmd.Number,
		)
		return PhaseTransitionResult{}, domainerrors.ErrInvalidPhase
	}
	if target == entities.PhaseNomineeRegistration {
		logger.Warn("phase set rejected",
			"event", "election_phase_set_skipped",
			"module", "student-governance/election-engine",
			"layer", "application",
			"requested", cmd.Number,
		)
		return PhaseTransitionResult{}, domainerrors.ErrSkippedPhase
	}

	current, err := uc.Current(ctx)
	if err != nil {
		return PhaseTransitionResult{}, err
	}
	return uc.transition(ctx, current, target, cmd.ActorID, entities.PhaseChangeSet)
}

func (uc PhaseUseCase) transition(
	ctx context.Context,
	current entities.Phase,
	target entities.PhaseNumber,
	actorID string,
	reason entities.PhaseChangeReason,
) (PhaseTransitionResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor := strings.TrimSpace(actorID)
	if actor == "" {
		actor = entities.DefaultReviewer
	}
	result := PhaseTransitionResult{Previous: current}

	if current.Number == entities.PhaseDelegateVoting && target == entities.PhasePartyRegistration {
		elected, err := uc.Tally.Run(ctx, actor)
		if err != nil {
			return PhaseTransitionResult{}, err
		}
		result.Tallied = true
		result.Elected = elected
	}

	now := resolveNow(uc.Clock)
	next := entities.NewPhase(current.Version+1, target, actor, reason, now)
	if err := uc.Phases.AppendPhase(ctx, next); err != nil {
		if errors.Is(err, domainerrors.ErrPhaseConflict) {
			logger.Warn("phase transition lost a concurrent race",
				"event", "election_phase_conflict",
				"module", "student-governance/election-engine",
				"layer", "application",
				"from", int(current.Number),
				"to", int(target),
				"version", next.Version,
			)
		}
		return PhaseTransitionResult{}, err
	}
	result.Current = next

	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, "election.phase_changed", "phase_version", strconv.FormatInt(next.Version, 10), now, map[string]any{
		"from_phase":    int(current.Number),
		"to_phase":      int(next.Number),
		"phase_name":    next.Name,
		"version":       next.Version,
		"reason":        next.Reason,
		"actor_id":      actor,
		"tallied":       result.Tallied,
		"elected_count": len(result.Elected),
	}); err != nil {
		return PhaseTransitionResult{}, err
	}

	logger.Info("phase changed",
		"event", "election_phase_changed",
		"module", "student-governance/election-engine",
		"layer", "application",
		"from", int(current.Number),
		"to", int(next.Number),
		"version", next.Version,
		"reason", next.Reason,
		"actor_id", actor,
		"tallied", result.Tallied,
	)
	return result, nil
}
