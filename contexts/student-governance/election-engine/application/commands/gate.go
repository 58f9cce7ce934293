package commands

import (
	"context"
	"time"

	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"
)

func resolveNow(clock ports.Clock) time.Time {
	if clock != nil {
		return clock.Now().UTC()
	}
	return time.Now().UTC()
}

// currentPhaseNumber reads the gate without initializing the log; an empty
// log is phase 0.
func currentPhaseNumber(ctx context.Context, phases ports.PhaseRepository) (entities.PhaseNumber, error) {
	phase, found, err := phases.CurrentPhase(ctx)
	if err != nil {
		return 0, err
	}
	if !found {
		return entities.PhaseRegistration, nil
	}
	return phase.Number, nil
}

func requirePhase(ctx context.Context, phases ports.PhaseRepository, want entities.PhaseNumber) error {
	current, err := currentPhaseNumber(ctx, phases)
	if err != nil {
		return err
	}
	if current != want {
		return domainerrors.ErrPhaseClosed
	}
	return nil
}
