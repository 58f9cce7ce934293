package commands

import (
	"context"
	"log/slog"
	"strings"

	application "kura/contexts/student-governance/election-engine/application"
	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/domain/services"
	"kura/contexts/student-governance/election-engine/ports"
)

type CastCouncilBallotCommand struct {
	DelegateStudentID string
	Choices           []entities.BallotChoice
}

// CouncilVoteUseCase records a delegate's four slot votes as one ballot.
type CouncilVoteUseCase struct {
	Phases  ports.PhaseRepository
	Elected ports.ElectedDelegateRepository
	Parties ports.PartyRepository
	Votes   ports.CouncilVoteRepository
	Outbox  ports.OutboxWriter
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

func (uc CouncilVoteUseCase) Cast(ctx context.Context, cmd CastCouncilBallotCommand) ([]entities.CouncilVote, error) {
	logger := application.ResolveLogger(uc.Logger)
	delegateID := strings.TrimSpace(cmd.DelegateStudentID)
	logger.Info("council ballot started",
		"event", "election_council_ballot_started",
		"module", "student-governance/election-engine",
		"layer", "application",
		"delegate_id", delegateID,
		"choices", len(cmd.Choices),
	)
	if delegateID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	if err := requirePhase(ctx, uc.Phases, entities.PhaseCouncilVoting); err != nil {
		return nil, err
	}

	isDelegate, err := uc.Elected.IsElectedDelegate(ctx, delegateID)
	if err != nil {
		return nil, err
	}
	if !isDelegate {
		logger.Warn("council ballot rejected",
			"event", "election_council_ballot_not_delegate",
			"module", "student-governance/election-engine",
			"layer", "application",
			"delegate_id", delegateID,
		)
		return nil, domainerrors.ErrNotDelegate
	}
	existing, err := uc.Votes.ListCouncilVotesByDelegate(ctx, delegateID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, domainerrors.ErrAlreadyVoted
	}
	if err := services.ValidateBallot(cmd.Choices); err != nil {
		return nil, err
	}

	now := resolveNow(uc.Clock)
	votes := make([]entities.CouncilVote, 0, len(cmd.Choices))
	for _, choice := range cmd.Choices {
		partyID := strings.TrimSpace(choice.PartyID)
		party, err := uc.Parties.GetParty(ctx, partyID)
		if err != nil {
			return nil, err
		}
		if !party.IsActive {
			return nil, domainerrors.ErrPartyNotFound
		}
		voteID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		votes = append(votes, entities.CouncilVote{
			VoteID:            voteID,
			DelegateStudentID: delegateID,
			PartyID:           party.PartyID,
			SlotID:            choice.SlotID,
			CreatedAt:         now,
		})
	}

	if err := uc.Votes.CastCouncilBallot(ctx, votes); err != nil {
		logger.Warn("council ballot not recorded",
			"event", "election_council_ballot_failed",
			"module", "student-governance/election-engine",
			"layer", "application",
			"delegate_id", delegateID,
			"error", err.Error(),
		)
		return nil, err
	}

	choices := make([]map[string]any, 0, len(votes))
	for _, vote := range votes {
		choices = append(choices, map[string]any{
			"slot_id":  vote.SlotID,
			"party_id": vote.PartyID,
		})
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, "election.council_ballot_cast", "delegate_id", delegateID, now, map[string]any{
		"delegate_id": delegateID,
		"choices":     choices,
	}); err != nil {
		return nil, err
	}

	logger.Info("council ballot cast",
		"event", "election_council_ballot_cast",
		"module", "student-governance/election-engine",
		"layer", "application",
		"delegate_id", delegateID,
	)
	return votes, nil
}
