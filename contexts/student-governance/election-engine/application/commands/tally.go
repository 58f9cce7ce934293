package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "kura/contexts/student-governance/election-engine/application"
	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/domain/services"
	"kura/contexts/student-governance/election-engine/ports"
)

// DelegateTallyUseCase recomputes the elected delegate set from the delegate
// vote rows. A vote landing while the snapshot is taken may or may not be
// counted; the set written is always the reduction of one snapshot.
type DelegateTallyUseCase struct {
	Votes    ports.DelegateVoteRepository
	Elected  ports.ElectedDelegateRepository
	Students ports.EligibilityStore
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc DelegateTallyUseCase) Run(ctx context.Context, actorID string) ([]entities.ElectedDelegate, error) {
	logger := application.ResolveLogger(uc.Logger)
	logger.Info("delegate tally started",
		"event", "election_delegate_tally_started",
		"module", "student-governance/election-engine",
		"layer", "application",
		"actor_id", strings.TrimSpace(actorID),
	)

	tallies, err := uc.Votes.SnapshotCandidateTallies(ctx)
	if err != nil {
		logger.Error("delegate tally snapshot failed",
			"event", "election_delegate_tally_snapshot_failed",
			"module", "student-governance/election-engine",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}

	now := resolveNow(uc.Clock)
	winners := services.ElectDelegates(tallies)
	elected := make([]entities.ElectedDelegate, 0, len(winners))
	for _, winner := range winners {
		delegate := entities.ElectedDelegate{
			StudentID:    winner.StudentID,
			CandidateID:  winner.CandidateID,
			SchoolID:     winner.SchoolID,
			DepartmentID: winner.DepartmentID,
			VoteCount:    winner.Votes,
			ElectedAt:    now,
		}
		if uc.Students != nil {
			student, err := uc.Students.FindStudent(ctx, winner.StudentID)
			switch {
			case err == nil:
				delegate.Name = student.Name
				delegate.RegistrationNumber = student.RegistrationNumber
			case !errors.Is(err, domainerrors.ErrStudentNotFound):
				return nil, err
			}
		}
		elected = append(elected, delegate)
	}

	if err := uc.Elected.ReplaceElectedDelegates(ctx, elected); err != nil {
		logger.Error("delegate tally write failed",
			"event", "election_delegate_tally_write_failed",
			"module", "student-governance/election-engine",
			"layer", "application",
			"error", err.Error(),
		)
		return nil, err
	}

	summary := make([]map[string]any, 0, len(elected))
	for _, delegate := range elected {
		summary = append(summary, map[string]any{
			"school_id":     delegate.SchoolID,
			"department_id": delegate.DepartmentID,
			"student_id":    delegate.StudentID,
			"vote_count":    delegate.VoteCount,
		})
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, "election.delegates_tallied", "election", "delegates", now, map[string]any{
		"actor_id": strings.TrimSpace(actorID),
		"count":    len(elected),
		"elected":  summary,
	}); err != nil {
		return nil, err
	}

	logger.Info("delegate tally completed",
		"event", "election_delegate_tally_completed",
		"module", "student-governance/election-engine",
		"layer", "application",
		"candidates_seen", len(tallies),
		"elected_count", len(elected),
	)
	return elected, nil
}
