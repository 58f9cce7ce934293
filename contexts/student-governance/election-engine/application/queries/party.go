package queries

import (
	"context"
	"strings"

	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"
)

type PartyQueryUseCase struct {
	Parties ports.PartyRepository
}

func (uc PartyQueryUseCase) List(ctx context.Context) ([]entities.Party, error) {
	return uc.Parties.ListParties(ctx)
}

func (uc PartyQueryUseCase) Get(ctx context.Context, partyID string) (entities.Party, error) {
	partyID = strings.TrimSpace(partyID)
	if partyID == "" {
		return entities.Party{}, domainerrors.ErrInvalidInput
	}
	return uc.Parties.GetParty(ctx, partyID)
}
