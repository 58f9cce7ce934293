package services

import (
	"strings"

	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
)

// NormalizeSlate trims nominee ids and fills missing position labels with
// the canonical slot positions.
func NormalizeSlate(slots [entities.SlotCount][]entities.Seat) [entities.SlotCount][]entities.Seat {
	var normalized [entities.SlotCount][]entities.Seat
	for slotID, seats := range slots {
		items := make([]entities.Seat, 0, len(seats))
		for index, seat := range seats {
			position := strings.TrimSpace(seat.Position)
			if position == "" {
				position = entities.DefaultPosition(slotID, index)
			}
			items = append(items, entities.Seat{
				StudentID: strings.TrimSpace(seat.StudentID),
				Position:  position,
			})
		}
		normalized[slotID] = items
	}
	return normalized
}

// ValidateSlateShape checks slot sizes and nominee uniqueness. It does not
// look at eligibility.
func ValidateSlateShape(slots [entities.SlotCount][]entities.Seat) error {
	for slotID, seats := range slots {
		if len(seats) != entities.SlotSizes[slotID] {
			return domainerrors.ErrIncompleteSlate
		}
		for _, seat := range seats {
			if strings.TrimSpace(seat.StudentID) == "" {
				return domainerrors.ErrIncompleteSlate
			}
		}
	}

	seen := make(map[string]struct{}, entities.SeatsPerSlate)
	for _, seats := range slots {
		for _, seat := range seats {
			id := strings.TrimSpace(seat.StudentID)
			if _, ok := seen[id]; ok {
				return domainerrors.ErrDuplicateNominee
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

// ValidateBallot requires exactly one choice per slot 0..3.
func ValidateBallot(choices []entities.BallotChoice) error {
	if len(choices) != entities.SlotCount {
		return domainerrors.ErrIncompleteBallot
	}
	var covered [entities.SlotCount]bool
	for _, choice := range choices {
		if !entities.ValidSlot(choice.SlotID) || covered[choice.SlotID] {
			return domainerrors.ErrIncompleteBallot
		}
		if strings.TrimSpace(choice.PartyID) == "" {
			return domainerrors.ErrIncompleteBallot
		}
		covered[choice.SlotID] = true
	}
	return nil
}
