package electionengine_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	electionengine "kura/contexts/student-governance/election-engine"
	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"
	httptransport "kura/contexts/student-governance/election-engine/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID = "admin-1"

func student(id string, departmentID string, meanScore float64) entities.Student {
	return entities.Student{
		StudentID:          id,
		RegistrationNumber: "REG-" + id,
		Name:               "Student " + id,
		SchoolID:           "sch-1",
		DepartmentID:       departmentID,
		MeanScore:          meanScore,
	}
}

func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func newElection(t *testing.T) electionengine.Module {
	t.Helper()
	students := []entities.Student{
		student("s1", "dep-1", 72),
		student("s2", "dep-1", 81),
		student("s3", "dep-1", 65),
		student("s4", "dep-1", 90),
		student("s5", "dep-2", 70),
		student("s-low", "dep-1", 59.5),
	}
	for i := 1; i <= 10; i++ {
		students = append(students, student(fmt.Sprintf("n%d", i), "dep-3", 75))
	}
	for i := 1; i <= 50; i++ {
		students = append(students, student(fmt.Sprintf("v%d", i), "dep-1", 61))
	}
	module := electionengine.NewInMemoryModule(students, nil)
	module.Store.SetClock(steppingClock(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)))
	return module
}

func setPhase(t *testing.T, module electionengine.Module, phase int) {
	t.Helper()
	_, err := module.Handler.SetPhaseHandler(context.Background(), adminID, httptransport.SetPhaseRequest{Phase: phase})
	require.NoError(t, err)
}

func approvedCandidate(t *testing.T, module electionengine.Module, studentID string) httptransport.CandidacyResponse {
	t.Helper()
	ctx := context.Background()
	applied, err := module.Handler.ApplyCandidacyHandler(ctx, studentID, httptransport.ApplyCandidacyRequest{Manifesto: "serve " + studentID})
	require.NoError(t, err)
	reviewed, err := module.Handler.ReviewCandidacyHandler(ctx, adminID, applied.CandidateID, httptransport.ReviewCandidacyRequest{Decision: "approved"})
	require.NoError(t, err)
	return reviewed
}

func slate(ids ...string) httptransport.RegisterPartyRequest {
	return httptransport.RegisterPartyRequest{
		Slots: [][]httptransport.SeatRequest{
			{{StudentID: ids[0]}, {StudentID: ids[1]}},
			{{StudentID: ids[2]}, {StudentID: ids[3]}},
			{{StudentID: ids[4]}, {StudentID: ids[5]}},
			{{StudentID: ids[6]}},
		},
	}
}

func fullBallot(partyIDs ...string) httptransport.CastCouncilBallotRequest {
	votes := make([]httptransport.BallotChoiceRequest, 0, len(partyIDs))
	for slotID, partyID := range partyIDs {
		votes = append(votes, httptransport.BallotChoiceRequest{SlotID: slotID, PartyID: partyID})
	}
	return httptransport.CastCouncilBallotRequest{Votes: votes}
}

func TestCurrentPhaseInitializesLog(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()

	phase, err := module.Handler.CurrentPhaseHandler(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), phase.Version)
	assert.Equal(t, 0, phase.Phase)
	assert.Equal(t, "Registration", phase.Name)

	again, err := module.Handler.CurrentPhaseHandler(ctx)
	require.NoError(t, err)
	assert.Equal(t, phase.Version, again.Version)

	log, err := module.Handler.PhaseLogHandler(ctx)
	require.NoError(t, err)
	require.Len(t, log.Items, 1)
	assert.Equal(t, "initialized", log.Items[0].Reason)
}

func TestPhaseSetAndAdvanceRules(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()

	_, err := module.Handler.SetPhaseHandler(ctx, adminID, httptransport.SetPhaseRequest{Phase: 3})
	require.ErrorIs(t, err, domainerrors.ErrSkippedPhase)
	_, err = module.Handler.SetPhaseHandler(ctx, adminID, httptransport.SetPhaseRequest{Phase: 7})
	require.ErrorIs(t, err, domainerrors.ErrInvalidPhase)
	_, err = module.Handler.SetPhaseHandler(ctx, adminID, httptransport.SetPhaseRequest{Phase: -1})
	require.ErrorIs(t, err, domainerrors.ErrInvalidPhase)

	result, err := module.Handler.AdvancePhaseHandler(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Previous.Phase)
	assert.Equal(t, 1, result.Current.Phase)
	assert.Equal(t, adminID, result.Current.ChangedBy)

	setPhase(t, module, 5)
	setPhase(t, module, 1)
	current, err := module.Handler.CurrentPhaseHandler(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, current.Phase)

	setPhase(t, module, 6)
	_, err = module.Handler.AdvancePhaseHandler(ctx, adminID)
	require.ErrorIs(t, err, domainerrors.ErrTerminalPhase)

	log, err := module.Handler.PhaseLogHandler(ctx)
	require.NoError(t, err)
	require.Len(t, log.Items, 5)
	for i, entry := range log.Items {
		assert.Equal(t, int64(i+1), entry.Version)
	}
}

func TestPhaseAppendRejectsStaleVersion(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	setPhase(t, module, 1)

	stale := entities.NewPhase(2, entities.PhaseDelegateVoting, adminID, entities.PhaseChangeSet, time.Now())
	require.ErrorIs(t, module.Store.AppendPhase(ctx, stale), domainerrors.ErrPhaseConflict)
}

func TestCandidacyApplyAndReview(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()

	_, err := module.Handler.ApplyCandidacyHandler(ctx, "s1", httptransport.ApplyCandidacyRequest{})
	require.ErrorIs(t, err, domainerrors.ErrPhaseClosed)

	setPhase(t, module, 1)
	applied, err := module.Handler.ApplyCandidacyHandler(ctx, "s1", httptransport.ApplyCandidacyRequest{Manifesto: "  more labs  "})
	require.NoError(t, err)
	assert.Equal(t, "pending", applied.Status)
	assert.Equal(t, "more labs", applied.Manifesto)
	assert.Equal(t, "dep-1", applied.DepartmentID)
	assert.Equal(t, 0, applied.VoteCount)

	_, err = module.Handler.ApplyCandidacyHandler(ctx, "s1", httptransport.ApplyCandidacyRequest{})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateCandidacy)
	_, err = module.Handler.ApplyCandidacyHandler(ctx, "s-low", httptransport.ApplyCandidacyRequest{})
	require.ErrorIs(t, err, domainerrors.ErrNotEligible)
	_, err = module.Handler.ApplyCandidacyHandler(ctx, "ghost", httptransport.ApplyCandidacyRequest{})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	second, err := module.Handler.ApplyCandidacyHandler(ctx, "s2", httptransport.ApplyCandidacyRequest{})
	require.NoError(t, err)
	pending, err := module.Handler.PendingCandidaciesHandler(ctx)
	require.NoError(t, err)
	require.Len(t, pending.Items, 2)
	assert.Equal(t, second.CandidateID, pending.Items[0].CandidateID)

	_, err = module.Handler.ReviewCandidacyHandler(ctx, adminID, applied.CandidateID, httptransport.ReviewCandidacyRequest{Decision: "maybe"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	reviewed, err := module.Handler.ReviewCandidacyHandler(ctx, adminID, applied.CandidateID, httptransport.ReviewCandidacyRequest{Decision: "Approved", Comment: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "approved", reviewed.Status)
	assert.Equal(t, adminID, reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)

	_, err = module.Handler.ReviewCandidacyHandler(ctx, adminID, applied.CandidateID, httptransport.ReviewCandidacyRequest{Decision: "rejected"})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyReviewed)
	_, err = module.Handler.ReviewCandidacyHandler(ctx, adminID, "missing", httptransport.ReviewCandidacyRequest{Decision: "rejected"})
	require.ErrorIs(t, err, domainerrors.ErrCandidateNotFound)

	status, err := module.Handler.CandidacyStatusByRegistrationHandler(ctx, "REG-s1")
	require.NoError(t, err)
	require.True(t, status.HasApplied)
	assert.Equal(t, applied.CandidateID, status.Candidacy.CandidateID)

	none, err := module.Handler.CandidacyStatusByRegistrationHandler(ctx, "REG-unknown")
	require.NoError(t, err)
	assert.False(t, none.HasApplied)

	approved, err := module.Handler.ApprovedCandidatesHandler(ctx, "sch-1", "dep-1")
	require.NoError(t, err)
	require.Len(t, approved.Items, 1)
	assert.Equal(t, "s1", approved.Items[0].StudentID)
}

func TestDelegateVotingRules(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	setPhase(t, module, 1)
	first := approvedCandidate(t, module, "s1")
	pending, err := module.Handler.ApplyCandidacyHandler(ctx, "s2", httptransport.ApplyCandidacyRequest{})
	require.NoError(t, err)

	_, err = module.Handler.CastDelegateVoteHandler(ctx, "s3", httptransport.CastDelegateVoteRequest{CandidateID: first.CandidateID})
	require.ErrorIs(t, err, domainerrors.ErrPhaseClosed)

	setPhase(t, module, 2)
	updated, err := module.Handler.CastDelegateVoteHandler(ctx, "s3", httptransport.CastDelegateVoteRequest{CandidateID: first.CandidateID})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.VoteCount)

	_, err = module.Handler.CastDelegateVoteHandler(ctx, "s3", httptransport.CastDelegateVoteRequest{CandidateID: first.CandidateID})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyVoted)
	_, err = module.Handler.CastDelegateVoteHandler(ctx, "s1", httptransport.CastDelegateVoteRequest{CandidateID: first.CandidateID})
	require.ErrorIs(t, err, domainerrors.ErrSelfVote)
	_, err = module.Handler.CastDelegateVoteHandler(ctx, "s5", httptransport.CastDelegateVoteRequest{CandidateID: first.CandidateID})
	require.ErrorIs(t, err, domainerrors.ErrDepartmentMismatch)
	_, err = module.Handler.CastDelegateVoteHandler(ctx, "s4", httptransport.CastDelegateVoteRequest{CandidateID: pending.CandidateID})
	require.ErrorIs(t, err, domainerrors.ErrCandidateNotFound)

	status, err := module.Handler.DelegateVotingStatusHandler(ctx, "s3")
	require.NoError(t, err)
	assert.True(t, status.HasVoted)
	assert.Equal(t, first.CandidateID, status.CandidateID)

	status, err = module.Handler.DelegateVotingStatusHandler(ctx, "s4")
	require.NoError(t, err)
	assert.False(t, status.HasVoted)
}

func TestAdvanceFromDelegateVotingTalliesAndSkipsNominees(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	setPhase(t, module, 1)
	first := approvedCandidate(t, module, "s1")
	second := approvedCandidate(t, module, "s2")
	other := approvedCandidate(t, module, "s5")
	setPhase(t, module, 2)

	_, err := module.Handler.CastDelegateVoteHandler(ctx, "s3", httptransport.CastDelegateVoteRequest{CandidateID: second.CandidateID})
	require.NoError(t, err)
	_, err = module.Handler.CastDelegateVoteHandler(ctx, "s4", httptransport.CastDelegateVoteRequest{CandidateID: first.CandidateID})
	require.NoError(t, err)

	result, err := module.Handler.AdvancePhaseHandler(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Current.Phase)
	assert.True(t, result.Tallied)
	require.Len(t, result.Elected, 1)
	assert.Equal(t, "s1", result.Elected[0].StudentID, "tie goes to the earliest registration")
	assert.Equal(t, "REG-s1", result.Elected[0].RegistrationNumber)

	dep2, err := module.Handler.ElectedForDepartmentHandler(ctx, "sch-1", "dep-2")
	require.NoError(t, err)
	assert.False(t, dep2.HasDelegate, "candidate %s had no votes", other.CandidateID)

	mine, err := module.Handler.MyDepartmentResultHandler(ctx, "s3")
	require.NoError(t, err)
	require.True(t, mine.HasDelegate)
	assert.Equal(t, first.CandidateID, mine.Delegate.CandidateID)
}

func TestSetPhaseFromDelegateVotingTallies(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	setPhase(t, module, 1)
	candidate := approvedCandidate(t, module, "s1")
	setPhase(t, module, 2)
	_, err := module.Handler.CastDelegateVoteHandler(ctx, "s2", httptransport.CastDelegateVoteRequest{CandidateID: candidate.CandidateID})
	require.NoError(t, err)

	result, err := module.Handler.SetPhaseHandler(ctx, adminID, httptransport.SetPhaseRequest{Phase: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Previous.Phase)
	assert.Equal(t, 4, result.Current.Phase)
	assert.True(t, result.Tallied)
	require.Len(t, result.Elected, 1)
	assert.Equal(t, "s1", result.Elected[0].StudentID)

	all, err := module.Handler.AllDelegateResultsHandler(ctx)
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	assert.Equal(t, 1, all.Items[0].VoteCount)

	// Setting any other target from phase 2 leaves the elected set alone.
	setPhase(t, module, 2)
	result, err = module.Handler.SetPhaseHandler(ctx, adminID, httptransport.SetPhaseRequest{Phase: 5})
	require.NoError(t, err)
	assert.False(t, result.Tallied)
}

func TestTallyIsIdempotent(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	setPhase(t, module, 1)
	candidate := approvedCandidate(t, module, "s1")
	setPhase(t, module, 2)
	_, err := module.Handler.CastDelegateVoteHandler(ctx, "s2", httptransport.CastDelegateVoteRequest{CandidateID: candidate.CandidateID})
	require.NoError(t, err)

	first, err := module.Handler.TallyDelegatesHandler(ctx, adminID)
	require.NoError(t, err)
	second, err := module.Handler.TallyDelegatesHandler(ctx, adminID)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	require.Len(t, second.Items, 1)
	assert.Equal(t, first.Items[0].StudentID, second.Items[0].StudentID)
	assert.Equal(t, first.Items[0].VoteCount, second.Items[0].VoteCount)

	all, err := module.Handler.AllDelegateResultsHandler(ctx)
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
}

func electDelegateS1(t *testing.T, module electionengine.Module) {
	t.Helper()
	ctx := context.Background()
	setPhase(t, module, 1)
	candidate := approvedCandidate(t, module, "s1")
	setPhase(t, module, 2)
	_, err := module.Handler.CastDelegateVoteHandler(ctx, "s2", httptransport.CastDelegateVoteRequest{CandidateID: candidate.CandidateID})
	require.NoError(t, err)
	_, err = module.Handler.AdvancePhaseHandler(ctx, adminID)
	require.NoError(t, err)
}

func TestPartyRegistrationRules(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	electDelegateS1(t, module)

	conflict := slate("s1", "n2", "n3", "n4", "n5", "n6", "n7")
	conflict.Name = "Delegates United"
	_, err := module.Handler.RegisterPartyHandler(ctx, adminID, conflict)
	require.ErrorIs(t, err, domainerrors.ErrDelegateConflict)

	req := slate("n1", "n2", "n3", "n4", "n5", "n6", "n7")
	req.Name = "Progress"
	party, err := module.Handler.RegisterPartyHandler(ctx, adminID, req)
	require.NoError(t, err)
	assert.True(t, party.IsActive)
	require.Len(t, party.Slots, 4)
	assert.Equal(t, "Chairperson", party.Slots[0].Seats[0].Position)
	assert.Equal(t, "Town Campus Secretary", party.Slots[3].Seats[0].Position)

	renamed := slate("n8", "n9", "n10", "s2", "s3", "s4", "s5")
	renamed.Name = "  progress "
	_, err = module.Handler.RegisterPartyHandler(ctx, adminID, renamed)
	require.ErrorIs(t, err, domainerrors.ErrDuplicateName)

	overlap := slate("n8", "n9", "n10", "s2", "s3", "s4", "n7")
	overlap.Name = "Unity"
	_, err = module.Handler.RegisterPartyHandler(ctx, adminID, overlap)
	require.ErrorIs(t, err, domainerrors.ErrAlreadyAssigned)

	repeated := slate("n8", "n8", "n10", "s2", "s3", "s4", "s5")
	repeated.Name = "Unity"
	_, err = module.Handler.RegisterPartyHandler(ctx, adminID, repeated)
	require.ErrorIs(t, err, domainerrors.ErrDuplicateNominee)

	short := httptransport.RegisterPartyRequest{Name: "Unity", Slots: [][]httptransport.SeatRequest{{{StudentID: "n8"}}}}
	_, err = module.Handler.RegisterPartyHandler(ctx, adminID, short)
	require.ErrorIs(t, err, domainerrors.ErrIncompleteSlate)

	ineligible := slate("n8", "s-low", "n10", "s2", "s3", "s4", "s5")
	ineligible.Name = "Unity"
	_, err = module.Handler.RegisterPartyHandler(ctx, adminID, ineligible)
	require.ErrorIs(t, err, domainerrors.ErrNotEligible)

	unity := slate("n8", "n9", "n10", "s2", "s3", "s4", "s5")
	unity.Name = "Unity"
	_, err = module.Handler.RegisterPartyHandler(ctx, adminID, unity)
	require.NoError(t, err)

	parties, err := module.Handler.ListPartiesHandler(ctx)
	require.NoError(t, err)
	require.Len(t, parties.Items, 2)
	assert.Equal(t, "Progress", parties.Items[0].Name)

	seen := make(map[string]string)
	for _, item := range parties.Items {
		for _, slot := range item.Slots {
			for _, seat := range slot.Seats {
				owner, dup := seen[seat.StudentID]
				assert.False(t, dup, "%s sits in %s and %s", seat.StudentID, owner, item.PartyID)
				seen[seat.StudentID] = item.PartyID
			}
		}
	}

	fetched, err := module.Handler.GetPartyHandler(ctx, party.PartyID)
	require.NoError(t, err)
	assert.Equal(t, "Progress", fetched.Name)
	_, err = module.Handler.GetPartyHandler(ctx, "missing")
	require.ErrorIs(t, err, domainerrors.ErrPartyNotFound)
}

func TestCouncilBallot(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	electDelegateS1(t, module)

	progress := slate("n1", "n2", "n3", "n4", "n5", "n6", "n7")
	progress.Name = "Progress"
	p1, err := module.Handler.RegisterPartyHandler(ctx, adminID, progress)
	require.NoError(t, err)
	unity := slate("n8", "n9", "n10", "s2", "s3", "s4", "s5")
	unity.Name = "Unity"
	p2, err := module.Handler.RegisterPartyHandler(ctx, adminID, unity)
	require.NoError(t, err)

	_, err = module.Handler.CastCouncilBallotHandler(ctx, "s1", fullBallot(p1.PartyID, p2.PartyID, p1.PartyID, p1.PartyID))
	require.ErrorIs(t, err, domainerrors.ErrPhaseClosed)

	setPhase(t, module, 5)
	_, err = module.Handler.CastCouncilBallotHandler(ctx, "s2", fullBallot(p1.PartyID, p2.PartyID, p1.PartyID, p1.PartyID))
	require.ErrorIs(t, err, domainerrors.ErrNotDelegate)
	_, err = module.Handler.CastCouncilBallotHandler(ctx, "s1", fullBallot(p1.PartyID, p2.PartyID, p1.PartyID))
	require.ErrorIs(t, err, domainerrors.ErrIncompleteBallot)
	_, err = module.Handler.CastCouncilBallotHandler(ctx, "s1", fullBallot(p1.PartyID, "missing", p1.PartyID, p1.PartyID))
	require.ErrorIs(t, err, domainerrors.ErrPartyNotFound)

	ballot, err := module.Handler.CastCouncilBallotHandler(ctx, "s1", fullBallot(p1.PartyID, p2.PartyID, p1.PartyID, p1.PartyID))
	require.NoError(t, err)
	require.Len(t, ballot.Votes, 4)

	_, err = module.Handler.CastCouncilBallotHandler(ctx, "s1", fullBallot(p2.PartyID, p2.PartyID, p2.PartyID, p2.PartyID))
	require.ErrorIs(t, err, domainerrors.ErrAlreadyVoted)

	status, err := module.Handler.CouncilVotingStatusHandler(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, status.IsDelegate)
	assert.True(t, status.HasVoted)
	slots := make([]int, 0, len(status.Votes))
	for _, vote := range status.Votes {
		slots = append(slots, vote.SlotID)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, slots)
	assert.Equal(t, "Unity", status.Votes[1].PartyName)

	results, err := module.Handler.CouncilResultsHandler(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, results.BallotsCast)
	assert.Equal(t, 4, results.TotalVotes)
	require.Len(t, results.Winners, 4)
	assert.Equal(t, p1.PartyID, results.Winners[0].PartyID)
	assert.Equal(t, p2.PartyID, results.Winners[1].PartyID)
	assert.Equal(t, []int{1, 0, 1, 1}, results.Parties[0].SlotVotes)

	chair := results.Winners[0].Seats
	require.Len(t, chair, 2)
	assert.Equal(t, "n1", chair[0].StudentID)
	assert.Equal(t, "Chairperson", chair[0].Position)
	assert.Equal(t, "Student n1", chair[0].Name)
	assert.Equal(t, "REG-n1", chair[0].RegistrationNumber)
	assert.Equal(t, "dep-3", chair[0].DepartmentID)
	assert.Equal(t, "Vice Chairperson", chair[1].Position)
	secretaries := results.Winners[1].Seats
	require.Len(t, secretaries, 2)
	assert.Equal(t, "s2", secretaries[0].StudentID)
	assert.Equal(t, "REG-s2", secretaries[0].RegistrationNumber)
	require.Len(t, results.Winners[3].Seats, 1)
	assert.Equal(t, "Town Campus Secretary", results.Winners[3].Seats[0].Position)

	require.Len(t, results.Parties[1].Nominees, 4)
	town := results.Parties[1].Nominees[3].Seats
	require.Len(t, town, 1)
	assert.Equal(t, "s5", town[0].StudentID)
	assert.Equal(t, "Student s5", town[0].Name)

	all, err := module.Handler.AllCouncilVotesHandler(ctx)
	require.NoError(t, err)
	require.Len(t, all.Items, 1)
	assert.Equal(t, "s1", all.Items[0].DelegateStudentID)
	assert.Equal(t, "Student s1", all.Items[0].Name)
	assert.Equal(t, "REG-s1", all.Items[0].RegistrationNumber)
	require.Len(t, all.Items[0].Votes, 4)
	assert.Equal(t, "Progress", all.Items[0].Votes[0].PartyName)
	assert.Equal(t, "Unity", all.Items[0].Votes[1].PartyName)
}

func TestResetPreservesPhaseLog(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	electDelegateS1(t, module)

	before, err := module.Handler.PhaseLogHandler(ctx)
	require.NoError(t, err)

	summary, err := module.Handler.ResetElectionHandler(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.DelegateVotesDeleted)
	assert.Equal(t, int64(1), summary.CandidatesDeleted)
	assert.Equal(t, int64(1), summary.ElectedDelegatesDeleted)
	assert.Equal(t, 0, summary.Phase.Phase)
	assert.Equal(t, "reset", summary.Phase.Reason)

	after, err := module.Handler.PhaseLogHandler(ctx)
	require.NoError(t, err)
	require.Len(t, after.Items, len(before.Items)+1)
	assert.Equal(t, before.Items, after.Items[:len(before.Items)])

	status, err := module.Handler.CandidacyStatusHandler(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, status.HasApplied)
	all, err := module.Handler.AllDelegateResultsHandler(ctx)
	require.NoError(t, err)
	assert.Empty(t, all.Items)
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func TestOutboxRelayPublishesElectionEvents(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	electDelegateS1(t, module)

	publisher := &recordingPublisher{}
	relay := module.Relay
	relay.Publisher = publisher
	relay.TopicPrefix = "kura"
	var counted atomic.Int64
	relay.OnPublished = func(string) { counted.Add(1) }

	published, err := relay.RunOnce(ctx)
	require.NoError(t, err)
	require.NotZero(t, published)
	assert.Equal(t, int64(published), counted.Load())
	assert.Equal(t, "kura.election.phase_changed", publisher.topics[0])
	assert.Contains(t, publisher.topics, "kura.election.candidacy_reviewed")
	assert.Contains(t, publisher.topics, "kura.election.delegates_tallied")

	again, err := relay.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestConcurrentDelegateVotesKeepOneVotePerVoter(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	setPhase(t, module, 1)
	first := approvedCandidate(t, module, "s1")
	second := approvedCandidate(t, module, "s2")
	setPhase(t, module, 2)

	var wg sync.WaitGroup
	var successes atomic.Int64
	for i := 0; i < 40; i++ {
		candidateID := first.CandidateID
		if i%2 == 1 {
			candidateID = second.CandidateID
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := module.Handler.CastDelegateVoteHandler(ctx, "s3", httptransport.CastDelegateVoteRequest{CandidateID: candidateID})
			if err == nil {
				successes.Add(1)
				return
			}
			assert.ErrorIs(t, err, domainerrors.ErrAlreadyVoted)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), successes.Load())

	approved, err := module.Handler.ApprovedCandidatesHandler(ctx, "sch-1", "dep-1")
	require.NoError(t, err)
	total := 0
	for _, item := range approved.Items {
		total += item.VoteCount
	}
	assert.Equal(t, 1, total)
}

func TestConcurrentVotesAreAllCounted(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	setPhase(t, module, 1)
	candidate := approvedCandidate(t, module, "s1")
	setPhase(t, module, 2)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		voterID := fmt.Sprintf("v%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := module.Handler.CastDelegateVoteHandler(ctx, voterID, httptransport.CastDelegateVoteRequest{CandidateID: candidate.CandidateID})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	approved, err := module.Handler.ApprovedCandidatesHandler(ctx, "sch-1", "dep-1")
	require.NoError(t, err)
	require.Len(t, approved.Items, 1)
	assert.Equal(t, 50, approved.Items[0].VoteCount)

	elected, err := module.Handler.TallyDelegatesHandler(ctx, adminID)
	require.NoError(t, err)
	require.Len(t, elected.Items, 1)
	assert.Equal(t, 50, elected.Items[0].VoteCount)
}

func TestConcurrentCandidacyApplications(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	setPhase(t, module, 1)

	var wg sync.WaitGroup
	var successes atomic.Int64
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := module.Handler.ApplyCandidacyHandler(ctx, "s4", httptransport.ApplyCandidacyRequest{}); err == nil {
				successes.Add(1)
			} else {
				assert.ErrorIs(t, err, domainerrors.ErrDuplicateCandidacy)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), successes.Load())
}

func TestConcurrentPartyRegistrationSeatsEachNomineeOnce(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	electDelegateS1(t, module)

	var wg sync.WaitGroup
	var successes atomic.Int64
	for i := 0; i < 8; i++ {
		request := slate("n1", "n2", "n3", "n4", "n5", "n6", "n7")
		request.Name = fmt.Sprintf("Slate %d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := module.Handler.RegisterPartyHandler(ctx, adminID, request)
			if err == nil {
				successes.Add(1)
				return
			}
			assert.ErrorIs(t, err, domainerrors.ErrAlreadyAssigned)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), successes.Load())

	parties, err := module.Handler.ListPartiesHandler(ctx)
	require.NoError(t, err)
	require.Len(t, parties.Items, 1)
}

func TestConcurrentCouncilBallotsFromOneDelegate(t *testing.T) {
	module := newElection(t)
	ctx := context.Background()
	electDelegateS1(t, module)

	progress := slate("n1", "n2", "n3", "n4", "n5", "n6", "n7")
	progress.Name = "Progress"
	party, err := module.Handler.RegisterPartyHandler(ctx, adminID, progress)
	require.NoError(t, err)
	setPhase(t, module, 5)

	var wg sync.WaitGroup
	var successes atomic.Int64
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := module.Handler.CastCouncilBallotHandler(ctx, "s1", fullBallot(party.PartyID, party.PartyID, party.PartyID, party.PartyID))
			if err == nil {
				successes.Add(1)
				return
			}
			assert.ErrorIs(t, err, domainerrors.ErrAlreadyVoted)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1), successes.Load())

	results, err := module.Handler.CouncilResultsHandler(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, results.BallotsCast)
	assert.Equal(t, 4, results.TotalVotes)
}
