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

type RegisterPartyCommand struct {
	Name    string
	Slots   [entities.SlotCount][]entities.Seat
	ActorID string
}

// PartyUseCase registers 7-seat slates while Party Registration is open. All
// checks run before the single write; the store re-checks name and seat
// uniqueness atomically.
type PartyUseCase struct {
	Phases   ports.PhaseRepository
	Students ports.EligibilityStore
	Elected  ports.ElectedDelegateRepository
	Parties  ports.PartyRepository
	Outbox   ports.OutboxWriter
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (uc PartyUseCase) Register(ctx context.Context, cmd RegisterPartyCommand) (entities.Party, error) {
	logger := application.ResolveLogger(uc.Logger)
	name := strings.TrimSpace(cmd.Name)
	logger.Info("party registration started",
		"event", "election_party_register_started",
		"module", "student-governance/election-engine",
		"layer", "application",
		"party_name", name,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	if err := requirePhase(ctx, uc.Phases, entities.PhasePartyRegistration); err != nil {
		return entities.Party{}, err
	}
	if name == "" {
		return entities.Party{}, domainerrors.ErrInvalidInput
	}
	if _, found, err := uc.Parties.FindActivePartyByName(ctx, name); err != nil {
		return entities.Party{}, err
	} else if found {
		return entities.Party{}, domainerrors.ErrDuplicateName
	}

	slots := services.NormalizeSlate(cmd.Slots)
	if err := services.ValidateSlateShape(slots); err != nil {
		logger.Warn("party registration rejected",
			"event", "election_party_register_invalid_slate",
			"module", "student-governance/election-engine",
			"layer", "application",
			"party_name", name,
			"error", err.Error(),
		)
		return entities.Party{}, err
	}

	party := entities.Party{Name: name, Slots: slots, IsActive: true}
	nominees := party.NomineeIDs()
	for _, studentID := range nominees {
		student, err := uc.Students.FindStudent(ctx, studentID)
		if err != nil {
			return entities.Party{}, err
		}
		if !student.Eligible() {
			logger.Warn("party registration rejected",
				"event", "election_party_register_not_eligible",
				"module", "student-governance/election-engine",
				"layer", "application",
				"party_name", name,
				"student_id", studentID,
			)
			return entities.Party{}, domainerrors.ErrNotEligible
		}
	}
	for _, studentID := range nominees {
		elected, err := uc.Elected.IsElectedDelegate(ctx, studentID)
		if err != nil {
			return entities.Party{}, err
		}
		if elected {
			logger.Warn("party registration rejected",
				"event", "election_party_register_delegate_conflict",
				"module", "student-governance/election-engine",
				"layer", "application",
				"party_name", name,
				"student_id", studentID,
			)
			return entities.Party{}, domainerrors.ErrDelegateConflict
		}
	}
	seated, err := uc.Parties.FindSeatedNominees(ctx, nominees)
	if err != nil {
		return entities.Party{}, err
	}
	if len(seated) > 0 {
		logger.Warn("party registration rejected",
			"event", "election_party_register_already_assigned",
			"module", "student-governance/election-engine",
			"layer", "application",
			"party_name", name,
			"seated_count", len(seated),
		)
		return entities.Party{}, domainerrors.ErrAlreadyAssigned
	}

	partyID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Party{}, err
	}
	now := resolveNow(uc.Clock)
	party.PartyID = partyID
	party.CreatedAt = now
	party.UpdatedAt = now
	if err := uc.Parties.CreateParty(ctx, party); err != nil {
		return entities.Party{}, err
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, "election.party_registered", "party_id", party.PartyID, now, map[string]any{
		"party_id":    party.PartyID,
		"name":        party.Name,
		"nominee_ids": nominees,
	}); err != nil {
		return entities.Party{}, err
	}

	logger.Info("party registered",
		"event", "election_party_registered",
		"module", "student-governance/election-engine",
		"layer", "application",
		"party_id", party.PartyID,
		"party_name", party.Name,
	)
	return party, nil
}
