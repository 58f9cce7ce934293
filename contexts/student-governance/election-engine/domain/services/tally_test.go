package services

import (
	"fmt"
	"testing"
	"time"

	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestElectDelegatesPicksHighestPerDepartment(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	winners := ElectDelegates([]entities.CandidateTally{
		{CandidateID: "c-1", StudentID: "s-1", SchoolID: "1", DepartmentID: "10", Votes: 3, RegisteredAt: base},
		{CandidateID: "c-2", StudentID: "s-2", SchoolID: "1", DepartmentID: "10", Votes: 5, RegisteredAt: base.Add(time.Hour)},
		{CandidateID: "c-3", StudentID: "s-3", SchoolID: "2", DepartmentID: "20", Votes: 1, RegisteredAt: base},
	})

	require.Len(t, winners, 2)
	assert.Equal(t, "c-2", winners[0].CandidateID)
	assert.Equal(t, 5, winners[0].Votes)
	assert.Equal(t, "c-3", winners[1].CandidateID)
}

func TestElectDelegatesTieGoesToEarliestRegistration(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	tallies := []entities.CandidateTally{
		{CandidateID: "c-late", SchoolID: "1", DepartmentID: "10", Votes: 4, RegisteredAt: base.Add(time.Minute)},
		{CandidateID: "c-early", SchoolID: "1", DepartmentID: "10", Votes: 4, RegisteredAt: base},
	}

	winners := ElectDelegates(tallies)
	require.Len(t, winners, 1)
	assert.Equal(t, "c-early", winners[0].CandidateID)

	// Input order must not matter.
	tallies[0], tallies[1] = tallies[1], tallies[0]
	winners = ElectDelegates(tallies)
	require.Len(t, winners, 1)
	assert.Equal(t, "c-early", winners[0].CandidateID)
}

func TestElectDelegatesTieOnTimeGoesToLowestID(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	winners := ElectDelegates([]entities.CandidateTally{
		{CandidateID: "c-b", SchoolID: "1", DepartmentID: "10", Votes: 2, RegisteredAt: at},
		{CandidateID: "c-a", SchoolID: "1", DepartmentID: "10", Votes: 2, RegisteredAt: at},
	})
	require.Len(t, winners, 1)
	assert.Equal(t, "c-a", winners[0].CandidateID)
}

func TestElectDelegatesSkipsZeroVoteDepartments(t *testing.T) {
	winners := ElectDelegates([]entities.CandidateTally{
		{CandidateID: "c-1", SchoolID: "1", DepartmentID: "10", Votes: 0},
	})
	assert.Empty(t, winners)
}

func TestTallyCouncilCountsSlotsAndPicksWinners(t *testing.T) {
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	seats := func(prefix string) [entities.SlotCount][]entities.Seat {
		var slots [entities.SlotCount][]entities.Seat
		for slotID, size := range entities.SlotSizes {
			for seat := 0; seat < size; seat++ {
				slots[slotID] = append(slots[slotID], entities.Seat{
					StudentID: fmt.Sprintf("%s-%d-%d", prefix, slotID, seat),
					Position:  entities.DefaultPosition(slotID, seat),
				})
			}
		}
		return slots
	}
	parties := []entities.Party{
		{PartyID: "p-1", Name: "Unity", Slots: seats("u"), CreatedAt: base},
		{PartyID: "p-2", Name: "Progress", Slots: seats("p"), CreatedAt: base.Add(time.Hour)},
	}
	votes := []entities.CouncilVote{
		{DelegateStudentID: "d-1", PartyID: "p-1", SlotID: 0},
		{DelegateStudentID: "d-1", PartyID: "p-2", SlotID: 1},
		{DelegateStudentID: "d-1", PartyID: "p-2", SlotID: 2},
		{DelegateStudentID: "d-1", PartyID: "p-1", SlotID: 3},
		{DelegateStudentID: "d-2", PartyID: "p-2", SlotID: 0},
		{DelegateStudentID: "d-2", PartyID: "p-2", SlotID: 1},
		{DelegateStudentID: "d-2", PartyID: "p-1", SlotID: 2},
		{DelegateStudentID: "d-2", PartyID: "p-1", SlotID: 3},
	}

	results := TallyCouncil(parties, votes)

	require.Len(t, results.PerParty, 2)
	assert.Equal(t, [entities.SlotCount]int{1, 0, 1, 2}, results.PerParty[0].SlotVotes)
	assert.Equal(t, [entities.SlotCount]int{1, 2, 1, 0}, results.PerParty[1].SlotVotes)
	assert.Equal(t, 2, results.BallotsCast)
	assert.Equal(t, 8, results.TotalVotes)

	require.Len(t, results.Winners, 4)
	// Slots 0 and 2 are tied one to one; the earlier party wins both.
	assert.Equal(t, "p-1", results.Winners[0].PartyID)
	assert.Equal(t, "p-2", results.Winners[1].PartyID)
	assert.Equal(t, "p-1", results.Winners[2].PartyID)
	assert.Equal(t, "p-1", results.Winners[3].PartyID)
	assert.Equal(t, 2, results.Winners[3].VoteCount)
	assert.Equal(t, "Town Campus Secretary", results.Winners[3].SlotName)

	require.Len(t, results.Winners[1].Seats, 2)
	assert.Equal(t, "p-1-0", results.Winners[1].Seats[0].StudentID)
	assert.Equal(t, "Secretary General", results.Winners[1].Seats[0].Position)
	require.Len(t, results.Winners[3].Seats, 1)
	assert.Equal(t, "u-3-0", results.Winners[3].Seats[0].StudentID)
	assert.Len(t, results.PerParty[0].Nominees[0], 2)
	assert.Len(t, results.PerParty[1].Nominees[3], 1)

	// Winner seats are copies; describing them leaves the per-party rows alone.
	results.Winners[1].Seats[0].Name = "changed"
	assert.Empty(t, results.PerParty[1].Nominees[1][0].Name)
}

func TestTallyCouncilOmitsSlotsWithoutVotes(t *testing.T) {
	parties := []entities.Party{{PartyID: "p-1", Name: "Unity"}}
	results := TallyCouncil(parties, []entities.CouncilVote{
		{DelegateStudentID: "d-1", PartyID: "p-1", SlotID: 2},
	})
	require.Len(t, results.Winners, 1)
	assert.Equal(t, 2, results.Winners[0].SlotID)
}

func TestValidateSlateShape(t *testing.T) {
	seat := func(id string) entities.Seat { return entities.Seat{StudentID: id} }
	valid := [entities.SlotCount][]entities.Seat{
		{seat("a"), seat("b")},
		{seat("c"), seat("d")},
		{seat("e"), seat("f")},
		{seat("g")},
	}
	require.NoError(t, ValidateSlateShape(valid))

	short := valid
	short[3] = nil
	assert.ErrorIs(t, ValidateSlateShape(short), domainerrors.ErrIncompleteSlate)

	blank := valid
	blank[1] = []entities.Seat{seat("c"), seat(" ")}
	assert.ErrorIs(t, ValidateSlateShape(blank), domainerrors.ErrIncompleteSlate)

	duplicate := valid
	duplicate[2] = []entities.Seat{seat("e"), seat("a")}
	assert.ErrorIs(t, ValidateSlateShape(duplicate), domainerrors.ErrDuplicateNominee)
}

func TestNormalizeSlateFillsPositions(t *testing.T) {
	slots := NormalizeSlate([entities.SlotCount][]entities.Seat{
		{{StudentID: " a "}, {StudentID: "b", Position: "Deputy"}},
		{}, {}, {{StudentID: "g"}},
	})
	assert.Equal(t, "a", slots[0][0].StudentID)
	assert.Equal(t, "Chairperson", slots[0][0].Position)
	assert.Equal(t, "Deputy", slots[0][1].Position)
	assert.Equal(t, "Town Campus Secretary", slots[3][0].Position)
}

func TestValidateBallot(t *testing.T) {
	full := []entities.BallotChoice{
		{SlotID: 0, PartyID: "p"}, {SlotID: 1, PartyID: "p"},
		{SlotID: 2, PartyID: "p"}, {SlotID: 3, PartyID: "p"},
	}
	require.NoError(t, ValidateBallot(full))

	assert.ErrorIs(t, ValidateBallot(full[:3]), domainerrors.ErrIncompleteBallot)

	repeated := append([]entities.BallotChoice(nil), full...)
	repeated[3] = entities.BallotChoice{SlotID: 0, PartyID: "p"}
	assert.ErrorIs(t, ValidateBallot(repeated), domainerrors.ErrIncompleteBallot)

	outOfRange := append([]entities.BallotChoice(nil), full...)
	outOfRange[3] = entities.BallotChoice{SlotID: 4, PartyID: "p"}
	assert.ErrorIs(t, ValidateBallot(outOfRange), domainerrors.ErrIncompleteBallot)
}
