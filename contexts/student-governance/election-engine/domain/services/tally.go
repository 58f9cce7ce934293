package services

import (
	"sort"
	"time"

	"kura/contexts/student-governance/election-engine/domain/entities"
)

// ElectDelegates reduces one snapshot of candidate tallies to a winner per
// department. Ties go to the earliest registered candidate, then to the lowest
// candidate id. A department whose best count is zero elects nobody.
func ElectDelegates(tallies []entities.CandidateTally) []entities.CandidateTally {
	best := make(map[entities.DepartmentKey]entities.CandidateTally)
	for _, tally := range tallies {
		key := tally.Department()
		current, ok := best[key]
		if !ok || candidateBeats(tally, current) {
			best[key] = tally
		}
	}

	winners := make([]entities.CandidateTally, 0, len(best))
	for _, tally := range best {
		if tally.Votes <= 0 {
			continue
		}
		winners = append(winners, tally)
	}
	sort.Slice(winners, func(i, j int) bool {
		return winners[i].Department().Less(winners[j].Department())
	})
	return winners
}

func candidateBeats(a entities.CandidateTally, b entities.CandidateTally) bool {
	if a.Votes != b.Votes {
		return a.Votes > b.Votes
	}
	return registeredFirst(a.RegisteredAt, a.CandidateID, b.RegisteredAt, b.CandidateID)
}

// TallyCouncil counts council votes per party and slot and picks each slot's
// winner. Ties go to the earliest registered party, then to the lowest party
// id. Slots without votes have no winner; a winner carries its own copy of
// the winning party's seats for that slot.
func TallyCouncil(parties []entities.Party, votes []entities.CouncilVote) entities.CouncilResults {
	perParty := make([]entities.PartySlotVotes, 0, len(parties))
	index := make(map[string]int, len(parties))
	for _, party := range parties {
		index[party.PartyID] = len(perParty)
		row := entities.PartySlotVotes{
			PartyID:   party.PartyID,
			Name:      party.Name,
			CreatedAt: party.CreatedAt,
		}
		for slotID, seats := range party.Slots {
			row.Nominees[slotID] = seatHolders(seats)
		}
		perParty = append(perParty, row)
	}

	ballots := make(map[string]struct{})
	total := 0
	for _, vote := range votes {
		position, ok := index[vote.PartyID]
		if !ok || !entities.ValidSlot(vote.SlotID) {
			continue
		}
		perParty[position].SlotVotes[vote.SlotID]++
		perParty[position].TotalVotes++
		ballots[vote.DelegateStudentID] = struct{}{}
		total++
	}

	winners := make([]entities.SlotWinner, 0, entities.SlotCount)
	for slotID := 0; slotID < entities.SlotCount; slotID++ {
		var leader *entities.PartySlotVotes
		for i := range perParty {
			candidate := &perParty[i]
			if candidate.SlotVotes[slotID] == 0 {
				continue
			}
			if leader == nil || partyBeats(*candidate, *leader, slotID) {
				leader = candidate
			}
		}
		if leader == nil {
			continue
		}
		winners = append(winners, entities.SlotWinner{
			SlotID:    slotID,
			SlotName:  entities.SlotName(slotID),
			PartyID:   leader.PartyID,
			PartyName: leader.Name,
			VoteCount: leader.SlotVotes[slotID],
			Seats:     append([]entities.SeatHolder(nil), leader.Nominees[slotID]...),
		})
	}

	return entities.CouncilResults{
		PerParty:    perParty,
		Winners:     winners,
		BallotsCast: len(ballots),
		TotalVotes:  total,
	}
}

func seatHolders(seats []entities.Seat) []entities.SeatHolder {
	holders := make([]entities.SeatHolder, len(seats))
	for i, seat := range seats {
		holders[i] = entities.SeatHolder{Seat: seat}
	}
	return holders
}

func partyBeats(a entities.PartySlotVotes, b entities.PartySlotVotes, slotID int) bool {
	if a.SlotVotes[slotID] != b.SlotVotes[slotID] {
		return a.SlotVotes[slotID] > b.SlotVotes[slotID]
	}
	return registeredFirst(a.CreatedAt, a.PartyID, b.CreatedAt, b.PartyID)
}

func registeredFirst(aAt time.Time, aID string, bAt time.Time, bID string) bool {
	if !aAt.Equal(bAt) {
		return aAt.Before(bAt)
	}
	return aID < bID
}
