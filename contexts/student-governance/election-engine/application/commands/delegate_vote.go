package commands

import (
	"context"
	"log/slog"
	"strings"

	application "kura/contexts/student-governance/election-engine/application"
	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"
)

type CastDelegateVoteCommand struct {
	VoterStudentID string
	CandidateID    string
}

// DelegateVoteUseCase casts one-student-one-vote ballots for department
// delegates. The one-vote rule is enforced by the store at write time, not by
// a read beforehand.
type DelegateVoteUseCase struct {
	Phases     ports.PhaseRepository
	Students   ports.EligibilityStore
	Candidates ports.CandidacyRepository
	Votes      ports.DelegateVoteRepository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc DelegateVoteUseCase) Cast(ctx context.Context, cmd CastDelegateVoteCommand) (entities.DelegateCandidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	voterID := strings.TrimSpace(cmd.VoterStudentID)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	logger.Info("delegate vote started",
		"event", "election_delegate_vote_started",
		"module", "student-governance/election-engine",
		"layer", "application",
		"voter_id", voterID,
		"candidate_id", candidateID,
	)
	if voterID == "" || candidateID == "" {
		return entities.DelegateCandidate{}, domainerrors.ErrInvalidInput
	}
	if err := requirePhase(ctx, uc.Phases, entities.PhaseDelegateVoting); err != nil {
		return entities.DelegateCandidate{}, err
	}

	voter, err := uc.Students.FindStudent(ctx, voterID)
	if err != nil {
		return entities.DelegateCandidate{}, err
	}
	candidate, err := uc.Candidates.GetCandidacy(ctx, candidateID)
	if err != nil {
		return entities.DelegateCandidate{}, err
	}
	if !candidate.Approved() {
		return entities.DelegateCandidate{}, domainerrors.ErrCandidateNotFound
	}
	if candidate.StudentID == voter.StudentID {
		logger.Warn("delegate vote rejected",
			"event", "election_delegate_vote_self",
			"module", "student-governance/election-engine",
			"layer", "application",
			"voter_id", voterID,
		)
		return entities.DelegateCandidate{}, domainerrors.ErrSelfVote
	}
	if candidate.Department() != voter.Department() {
		logger.Warn("delegate vote rejected",
			"event", "election_delegate_vote_department_mismatch",
			"module", "student-governance/election-engine",
			"layer", "application",
			"voter_id", voterID,
			"candidate_id", candidateID,
		)
		return entities.DelegateCandidate{}, domainerrors.ErrDepartmentMismatch
	}

	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.DelegateCandidate{}, err
	}
	updated, err := uc.Votes.CastDelegateVote(ctx, entities.DelegateVote{
		VoteID:         voteID,
		VoterStudentID: voter.StudentID,
		CandidateID:    candidate.CandidateID,
		SchoolID:       voter.SchoolID,
		DepartmentID:   voter.DepartmentID,
		CreatedAt:      resolveNow(uc.Clock),
	})
	if err != nil {
		logger.Warn("delegate vote not recorded",
			"event", "election_delegate_vote_failed",
			"module", "student-governance/election-engine",
			"layer", "application",
			"voter_id", voterID,
			"candidate_id", candidateID,
			"error", err.Error(),
		)
		return entities.DelegateCandidate{}, err
	}

	logger.Info("delegate vote cast",
		"event", "election_delegate_vote_cast",
		"module", "student-governance/election-engine",
		"layer", "application",
		"vote_id", voteID,
		"candidate_id", updated.CandidateID,
		"school_id", updated.SchoolID,
		"department_id", updated.DepartmentID,
		"vote_count", updated.VoteCount,
	)
	return updated, nil
}
