package queries

import (
	"context"
	"errors"
	"sort"
	"strings"

	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/domain/services"
	"kura/contexts/student-governance/election-engine/ports"
)

type CouncilBallotChoice struct {
	SlotID    int
	SlotName  string
	PartyID   string
	PartyName string
}

type CouncilVotingStatus struct {
	IsDelegate bool
	HasVoted   bool
	Votes      []CouncilBallotChoice
}

// CouncilResultsUseCase reads the council outcome. Students is optional; when
// set, seat holders and ballot owners carry their register details.
type CouncilResultsUseCase struct {
	Students ports.EligibilityStore
	Elected  ports.ElectedDelegateRepository
	Parties  ports.PartyRepository
	Votes    ports.CouncilVoteRepository
}

func (uc CouncilResultsUseCase) VotingStatus(ctx context.Context, delegateStudentID string) (CouncilVotingStatus, error) {
	delegateStudentID = strings.TrimSpace(delegateStudentID)
	if delegateStudentID == "" {
		return CouncilVotingStatus{}, domainerrors.ErrInvalidInput
	}
	isDelegate, err := uc.Elected.IsElectedDelegate(ctx, delegateStudentID)
	if err != nil {
		return CouncilVotingStatus{}, err
	}
	votes, err := uc.Votes.ListCouncilVotesByDelegate(ctx, delegateStudentID)
	if err != nil {
		return CouncilVotingStatus{}, err
	}
	names, err := uc.partyNames(ctx)
	if err != nil {
		return CouncilVotingStatus{}, err
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].SlotID < votes[j].SlotID })

	status := CouncilVotingStatus{
		IsDelegate: isDelegate,
		HasVoted:   len(votes) > 0,
		Votes:      make([]CouncilBallotChoice, 0, len(votes)),
	}
	for _, vote := range votes {
		status.Votes = append(status.Votes, CouncilBallotChoice{
			SlotID:    vote.SlotID,
			SlotName:  entities.SlotName(vote.SlotID),
			PartyID:   vote.PartyID,
			PartyName: names[vote.PartyID],
		})
	}
	return status, nil
}

func (uc CouncilResultsUseCase) Results(ctx context.Context) (entities.CouncilResults, error) {
	parties, err := uc.Parties.ListParties(ctx)
	if err != nil {
		return entities.CouncilResults{}, err
	}
	votes, err := uc.Votes.ListCouncilVotes(ctx)
	if err != nil {
		return entities.CouncilResults{}, err
	}
	results := services.TallyCouncil(parties, votes)

	lookup := uc.studentLookup()
	for i := range results.PerParty {
		for slotID := range results.PerParty[i].Nominees {
			if err := describeSeats(ctx, lookup, results.PerParty[i].Nominees[slotID]); err != nil {
				return entities.CouncilResults{}, err
			}
		}
	}
	for i := range results.Winners {
		if err := describeSeats(ctx, lookup, results.Winners[i].Seats); err != nil {
			return entities.CouncilResults{}, err
		}
	}
	return results, nil
}

// AllBallots groups every council vote by delegate, ordered by delegate id.
func (uc CouncilResultsUseCase) AllBallots(ctx context.Context) ([]entities.DelegateBallot, error) {
	votes, err := uc.Votes.ListCouncilVotes(ctx)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]entities.CouncilVote)
	for _, vote := range votes {
		grouped[vote.DelegateStudentID] = append(grouped[vote.DelegateStudentID], vote)
	}
	names, err := uc.partyNames(ctx)
	if err != nil {
		return nil, err
	}
	lookup := uc.studentLookup()
	ballots := make([]entities.DelegateBallot, 0, len(grouped))
	for delegateID, items := range grouped {
		sort.Slice(items, func(i, j int) bool { return items[i].SlotID < items[j].SlotID })
		ballot := entities.DelegateBallot{
			DelegateStudentID: delegateID,
			Votes:             items,
			PartyNames:        names,
		}
		student, found, err := lookup(ctx, delegateID)
		if err != nil {
			return nil, err
		}
		if found {
			ballot.Name = student.Name
			ballot.RegistrationNumber = student.RegistrationNumber
		}
		ballots = append(ballots, ballot)
	}
	sort.Slice(ballots, func(i, j int) bool {
		return ballots[i].DelegateStudentID < ballots[j].DelegateStudentID
	})
	return ballots, nil
}

func (uc CouncilResultsUseCase) partyNames(ctx context.Context) (map[string]string, error) {
	parties, err := uc.Parties.ListParties(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(parties))
	for _, party := range parties {
		names[party.PartyID] = party.Name
	}
	return names, nil
}

type lookupStudentFunc func(ctx context.Context, studentID string) (entities.Student, bool, error)

// studentLookup memoizes register reads for one query. A student missing from
// the register is reported as not found rather than failing the query.
func (uc CouncilResultsUseCase) studentLookup() lookupStudentFunc {
	cache := make(map[string]entities.Student)
	return func(ctx context.Context, studentID string) (entities.Student, bool, error) {
		if uc.Students == nil {
			return entities.Student{}, false, nil
		}
		if student, ok := cache[studentID]; ok {
			return student, true, nil
		}
		student, err := uc.Students.FindStudent(ctx, studentID)
		switch {
		case errors.Is(err, domainerrors.ErrStudentNotFound):
			return entities.Student{}, false, nil
		case err != nil:
			return entities.Student{}, false, err
		}
		cache[studentID] = student
		return student, true, nil
	}
}

func describeSeats(ctx context.Context, lookup lookupStudentFunc, seats []entities.SeatHolder) error {
	for i := range seats {
		student, found, err := lookup(ctx, seats[i].StudentID)
		if err != nil {
			return err
		}
		if found {
			seats[i].Describe(student)
		}
	}
	return nil
}
