package httpadapter

import (
	"context"
	"log/slog"

	"kura/contexts/student-governance/election-engine/application/commands"
	"kura/contexts/student-governance/election-engine/application/queries"
	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"
	httptransport "kura/contexts/student-governance/election-engine/transport/http"
)

type Handler struct {
	Phases          commands.PhaseUseCase
	Candidacies     commands.CandidacyUseCase
	DelegateVotes   commands.DelegateVoteUseCase
	Tally           commands.DelegateTallyUseCase
	Parties         commands.PartyUseCase
	CouncilVotes    commands.CouncilVoteUseCase
	Reset           commands.ResetUseCase
	CandidacyQuery  queries.CandidacyQueryUseCase
	DelegateResults queries.DelegateResultsUseCase
	PartyQuery      queries.PartyQueryUseCase
	CouncilResults  queries.CouncilResultsUseCase
	Logger          *slog.Logger
}

func (h Handler) CurrentPhaseHandler(ctx context.Context) (httptransport.PhaseResponse, error) {
	phase, err := h.Phases.Current(ctx)
	if err != nil {
		return httptransport.PhaseResponse{}, err
	}
	return mapPhase(phase), nil
}

func (h Handler) PhaseLogHandler(ctx context.Context) (httptransport.PhaseLogResponse, error) {
	phases, err := h.Phases.Log(ctx)
	if err != nil {
		return httptransport.PhaseLogResponse{}, err
	}
	items := make([]httptransport.PhaseResponse, 0, len(phases))
	for _, phase := range phases {
		items = append(items, mapPhase(phase))
	}
	return httptransport.PhaseLogResponse{Items: items}, nil
}

func (h Handler) AdvancePhaseHandler(ctx context.Context, adminID string) (httptransport.PhaseTransitionResponse, error) {
	result, err := h.Phases.Advance(ctx, commands.AdvancePhaseCommand{ActorID: adminID})
	if err != nil {
		return httptransport.PhaseTransitionResponse{}, err
	}
	return mapTransition(result), nil
}

func (h Handler) SetPhaseHandler(ctx context.Context, adminID string, req httptransport.SetPhaseRequest) (httptransport.PhaseTransitionResponse, error) {
	result, err := h.Phases.Set(ctx, commands.SetPhaseCommand{Number: req.Phase, ActorID: adminID})
	if err != nil {
		return httptransport.PhaseTransitionResponse{}, err
	}
	return mapTransition(result), nil
}

func (h Handler) ApplyCandidacyHandler(ctx context.Context, studentID string, req httptransport.ApplyCandidacyRequest) (httptransport.CandidacyResponse, error) {
	candidate, err := h.Candidacies.Apply(ctx, commands.ApplyCandidacyCommand{
		StudentID: studentID,
		Manifesto: req.Manifesto,
	})
	if err != nil {
		return httptransport.CandidacyResponse{}, err
	}
	return mapCandidacy(candidate), nil
}

func (h Handler) ReviewCandidacyHandler(
	ctx context.Context,
	adminID string,
	candidateID string,
	req httptransport.ReviewCandidacyRequest,
) (httptransport.CandidacyResponse, error) {
	candidate, err := h.Candidacies.Review(ctx, commands.ReviewCandidacyCommand{
		CandidateID: candidateID,
		Decision:    req.Decision,
		Comment:     req.Comment,
		ReviewerID:  adminID,
	})
	if err != nil {
		return httptransport.CandidacyResponse{}, err
	}
	return mapCandidacy(candidate), nil
}

func (h Handler) CandidacyStatusHandler(ctx context.Context, studentID string) (httptransport.CandidacyStatusResponse, error) {
	candidate, found, err := h.CandidacyQuery.StatusForStudent(ctx, studentID)
	if err != nil {
		return httptransport.CandidacyStatusResponse{}, err
	}
	return mapCandidacyStatus(candidate, found), nil
}

func (h Handler) CandidacyStatusByRegistrationHandler(ctx context.Context, registrationNumber string) (httptransport.CandidacyStatusResponse, error) {
	candidate, found, err := h.CandidacyQuery.StatusForRegistrationNumber(ctx, registrationNumber)
	if err != nil {
		return httptransport.CandidacyStatusResponse{}, err
	}
	return mapCandidacyStatus(candidate, found), nil
}

func (h Handler) PendingCandidaciesHandler(ctx context.Context) (httptransport.CandidacyListResponse, error) {
	items, err := h.CandidacyQuery.ListPending(ctx)
	if err != nil {
		return httptransport.CandidacyListResponse{}, err
	}
	return mapCandidacyList(items), nil
}

func (h Handler) ApprovedCandidatesHandler(ctx context.Context, schoolID string, departmentID string) (httptransport.CandidacyListResponse, error) {
	items, err := h.CandidacyQuery.ListApproved(ctx, entities.DepartmentKey{SchoolID: schoolID, DepartmentID: departmentID})
	if err != nil {
		return httptransport.CandidacyListResponse{}, err
	}
	return mapCandidacyList(items), nil
}

func (h Handler) CastDelegateVoteHandler(ctx context.Context, voterID string, req httptransport.CastDelegateVoteRequest) (httptransport.CandidacyResponse, error) {
	candidate, err := h.DelegateVotes.Cast(ctx, commands.CastDelegateVoteCommand{
		VoterStudentID: voterID,
		CandidateID:    req.CandidateID,
	})
	if err != nil {
		return httptransport.CandidacyResponse{}, err
	}
	return mapCandidacy(candidate), nil
}

func (h Handler) DelegateVotingStatusHandler(ctx context.Context, voterID string) (httptransport.DelegateVotingStatusResponse, error) {
	status, err := h.DelegateResults.VotingStatus(ctx, voterID)
	if err != nil {
		return httptransport.DelegateVotingStatusResponse{}, err
	}
	return httptransport.DelegateVotingStatusResponse{
		HasVoted:    status.HasVoted,
		CandidateID: status.CandidateID,
	}, nil
}

func (h Handler) ElectedForDepartmentHandler(ctx context.Context, schoolID string, departmentID string) (httptransport.DepartmentResultResponse, error) {
	result, err := h.DelegateResults.ElectedFor(ctx, entities.DepartmentKey{SchoolID: schoolID, DepartmentID: departmentID})
	if err != nil {
		return httptransport.DepartmentResultResponse{}, err
	}
	return mapDepartmentResult(result), nil
}

func (h Handler) MyDepartmentResultHandler(ctx context.Context, studentID string) (httptransport.DepartmentResultResponse, error) {
	result, err := h.DelegateResults.MyDepartmentResult(ctx, studentID)
	if err != nil {
		return httptransport.DepartmentResultResponse{}, err
	}
	return mapDepartmentResult(result), nil
}

func (h Handler) AllDelegateResultsHandler(ctx context.Context) (httptransport.ElectedDelegateListResponse, error) {
	delegates, err := h.DelegateResults.AllResults(ctx)
	if err != nil {
		return httptransport.ElectedDelegateListResponse{}, err
	}
	return httptransport.ElectedDelegateListResponse{Items: mapElectedList(delegates)}, nil
}

func (h Handler) TallyDelegatesHandler(ctx context.Context, adminID string) (httptransport.ElectedDelegateListResponse, error) {
	delegates, err := h.Tally.Run(ctx, adminID)
	if err != nil {
		return httptransport.ElectedDelegateListResponse{}, err
	}
	return httptransport.ElectedDelegateListResponse{Items: mapElectedList(delegates)}, nil
}

func (h Handler) RegisterPartyHandler(ctx context.Context, adminID string, req httptransport.RegisterPartyRequest) (httptransport.PartyResponse, error) {
	if len(req.Slots) != entities.SlotCount {
		return httptransport.PartyResponse{}, domainerrors.ErrIncompleteSlate
	}
	var slots [entities.SlotCount][]entities.Seat
	for slotID, seats := range req.Slots {
		items := make([]entities.Seat, 0, len(seats))
		for _, seat := range seats {
			items = append(items, entities.Seat{StudentID: seat.StudentID, Position: seat.Position})
		}
		slots[slotID] = items
	}
	party, err := h.Parties.Register(ctx, commands.RegisterPartyCommand{
		Name:    req.Name,
		Slots:   slots,
		ActorID: adminID,
	})
	if err != nil {
		return httptransport.PartyResponse{}, err
	}
	return mapParty(party), nil
}

func (h Handler) ListPartiesHandler(ctx context.Context) (httptransport.PartyListResponse, error) {
	parties, err := h.PartyQuery.List(ctx)
	if err != nil {
		return httptransport.PartyListResponse{}, err
	}
	items := make([]httptransport.PartyResponse, 0, len(parties))
	for _, party := range parties {
		items = append(items, mapParty(party))
	}
	return httptransport.PartyListResponse{Items: items}, nil
}

func (h Handler) GetPartyHandler(ctx context.Context, partyID string) (httptransport.PartyResponse, error) {
	party, err := h.PartyQuery.Get(ctx, partyID)
	if err != nil {
		return httptransport.PartyResponse{}, err
	}
	return mapParty(party), nil
}

func (h Handler) CastCouncilBallotHandler(ctx context.Context, delegateID string, req httptransport.CastCouncilBallotRequest) (httptransport.CouncilBallotResponse, error) {
	choices := make([]entities.BallotChoice, 0, len(req.Votes))
	for _, vote := range req.Votes {
		choices = append(choices, entities.BallotChoice{SlotID: vote.SlotID, PartyID: vote.PartyID})
	}
	votes, err := h.CouncilVotes.Cast(ctx, commands.CastCouncilBallotCommand{
		DelegateStudentID: delegateID,
		Choices:           choices,
	})
	if err != nil {
		return httptransport.CouncilBallotResponse{}, err
	}
	return mapBallot(entities.DelegateBallot{DelegateStudentID: delegateID, Votes: votes}), nil
}

func (h Handler) CouncilVotingStatusHandler(ctx context.Context, delegateID string) (httptransport.CouncilVotingStatusResponse, error) {
	status, err := h.CouncilResults.VotingStatus(ctx, delegateID)
	if err != nil {
		return httptransport.CouncilVotingStatusResponse{}, err
	}
	votes := make([]httptransport.CouncilVoteResponse, 0, len(status.Votes))
	for _, vote := range status.Votes {
		votes = append(votes, httptransport.CouncilVoteResponse{
			SlotID:    vote.SlotID,
			SlotName:  vote.SlotName,
			PartyID:   vote.PartyID,
			PartyName: vote.PartyName,
		})
	}
	return httptransport.CouncilVotingStatusResponse{
		IsDelegate: status.IsDelegate,
		HasVoted:   status.HasVoted,
		Votes:      votes,
	}, nil
}

func (h Handler) CouncilResultsHandler(ctx context.Context) (httptransport.CouncilResultsResponse, error) {
	results, err := h.CouncilResults.Results(ctx)
	if err != nil {
		return httptransport.CouncilResultsResponse{}, err
	}
	response := httptransport.CouncilResultsResponse{
		Parties:     make([]httptransport.PartyResultResponse, 0, len(results.PerParty)),
		Winners:     make([]httptransport.SlotWinnerResponse, 0, len(results.Winners)),
		BallotsCast: results.BallotsCast,
		TotalVotes:  results.TotalVotes,
	}
	for _, party := range results.PerParty {
		nominees := make([]httptransport.NomineeSlotResponse, 0, entities.SlotCount)
		for slotID, seats := range party.Nominees {
			nominees = append(nominees, httptransport.NomineeSlotResponse{
				SlotID: slotID,
				Name:   entities.SlotName(slotID),
				Seats:  mapSeatHolders(seats),
			})
		}
		response.Parties = append(response.Parties, httptransport.PartyResultResponse{
			PartyID:    party.PartyID,
			Name:       party.Name,
			SlotVotes:  append([]int(nil), party.SlotVotes[:]...),
			TotalVotes: party.TotalVotes,
			Nominees:   nominees,
		})
	}
	for _, winner := range results.Winners {
		response.Winners = append(response.Winners, httptransport.SlotWinnerResponse{
			SlotID:    winner.SlotID,
			SlotName:  winner.SlotName,
			PartyID:   winner.PartyID,
			PartyName: winner.PartyName,
			VoteCount: winner.VoteCount,
			Seats:     mapSeatHolders(winner.Seats),
		})
	}
	return response, nil
}

func (h Handler) AllCouncilVotesHandler(ctx context.Context) (httptransport.CouncilBallotListResponse, error) {
	ballots, err := h.CouncilResults.AllBallots(ctx)
	if err != nil {
		return httptransport.CouncilBallotListResponse{}, err
	}
	items := make([]httptransport.CouncilBallotResponse, 0, len(ballots))
	for _, ballot := range ballots {
		items = append(items, mapBallot(ballot))
	}
	return httptransport.CouncilBallotListResponse{Items: items}, nil
}

func (h Handler) ResetElectionHandler(ctx context.Context, adminID string) (httptransport.ResetElectionResponse, error) {
	summary, err := h.Reset.Execute(ctx, commands.ResetElectionCommand{ActorID: adminID})
	if err != nil {
		return httptransport.ResetElectionResponse{}, err
	}
	return mapResetSummary(summary), nil
}

func mapPhase(phase entities.Phase) httptransport.PhaseResponse {
	return httptransport.PhaseResponse{
		Version:   phase.Version,
		Phase:     int(phase.Number),
		Name:      phase.Name,
		ChangedBy: phase.ChangedBy,
		Reason:    phase.Reason,
		StartedAt: phase.StartedAt,
	}
}

func mapTransition(result commands.PhaseTransitionResult) httptransport.PhaseTransitionResponse {
	response := httptransport.PhaseTransitionResponse{
		Previous: mapPhase(result.Previous),
		Current:  mapPhase(result.Current),
		Tallied:  result.Tallied,
	}
	if result.Tallied {
		response.Elected = mapElectedList(result.Elected)
	}
	return response
}

func mapCandidacy(candidate entities.DelegateCandidate) httptransport.CandidacyResponse {
	return httptransport.CandidacyResponse{
		CandidateID:        candidate.CandidateID,
		StudentID:          candidate.StudentID,
		RegistrationNumber: candidate.RegistrationNumber,
		Name:               candidate.Name,
		SchoolID:           candidate.SchoolID,
		DepartmentID:       candidate.DepartmentID,
		Manifesto:          candidate.Manifesto,
		Status:             string(candidate.Status),
		VoteCount:          candidate.VoteCount,
		AdminComment:       candidate.AdminComment,
		ReviewedBy:         candidate.ReviewedBy,
		ReviewedAt:         candidate.ReviewedAt,
		CreatedAt:          candidate.CreatedAt,
	}
}

func mapCandidacyStatus(candidate entities.DelegateCandidate, found bool) httptransport.CandidacyStatusResponse {
	if !found {
		return httptransport.CandidacyStatusResponse{}
	}
	mapped := mapCandidacy(candidate)
	return httptransport.CandidacyStatusResponse{HasApplied: true, Candidacy: &mapped}
}

func mapCandidacyList(candidates []entities.DelegateCandidate) httptransport.CandidacyListResponse {
	items := make([]httptransport.CandidacyResponse, 0, len(candidates))
	for _, candidate := range candidates {
		items = append(items, mapCandidacy(candidate))
	}
	return httptransport.CandidacyListResponse{Items: items}
}

func mapElected(delegate entities.ElectedDelegate) httptransport.ElectedDelegateResponse {
	return httptransport.ElectedDelegateResponse{
		StudentID:          delegate.StudentID,
		CandidateID:        delegate.CandidateID,
		Name:               delegate.Name,
		RegistrationNumber: delegate.RegistrationNumber,
		SchoolID:           delegate.SchoolID,
		DepartmentID:       delegate.DepartmentID,
		VoteCount:          delegate.VoteCount,
		ElectedAt:          delegate.ElectedAt,
	}
}

func mapElectedList(delegates []entities.ElectedDelegate) []httptransport.ElectedDelegateResponse {
	items := make([]httptransport.ElectedDelegateResponse, 0, len(delegates))
	for _, delegate := range delegates {
		items = append(items, mapElected(delegate))
	}
	return items
}

func mapDepartmentResult(result queries.DepartmentResult) httptransport.DepartmentResultResponse {
	response := httptransport.DepartmentResultResponse{
		SchoolID:     result.Department.SchoolID,
		DepartmentID: result.Department.DepartmentID,
		HasDelegate:  result.HasDelegate,
	}
	if result.HasDelegate {
		delegate := mapElected(result.Delegate)
		response.Delegate = &delegate
	}
	return response
}

func mapParty(party entities.Party) httptransport.PartyResponse {
	slots := make([]httptransport.SlotResponse, 0, entities.SlotCount)
	for slotID, seats := range party.Slots {
		items := make([]httptransport.SeatResponse, 0, len(seats))
		for _, seat := range seats {
			items = append(items, httptransport.SeatResponse{StudentID: seat.StudentID, Position: seat.Position})
		}
		slots = append(slots, httptransport.SlotResponse{
			SlotID: slotID,
			Name:   entities.SlotName(slotID),
			Seats:  items,
		})
	}
	return httptransport.PartyResponse{
		PartyID:   party.PartyID,
		Name:      party.Name,
		Slots:     slots,
		IsActive:  party.IsActive,
		CreatedAt: party.CreatedAt,
	}
}

func mapBallot(ballot entities.DelegateBallot) httptransport.CouncilBallotResponse {
	votes := make([]httptransport.CouncilVoteResponse, 0, len(ballot.Votes))
	for _, vote := range ballot.Votes {
		votes = append(votes, httptransport.CouncilVoteResponse{
			SlotID:    vote.SlotID,
			SlotName:  entities.SlotName(vote.SlotID),
			PartyID:   vote.PartyID,
			PartyName: ballot.PartyNames[vote.PartyID],
			CreatedAt: vote.CreatedAt,
		})
	}
	return httptransport.CouncilBallotResponse{
		DelegateStudentID:  ballot.DelegateStudentID,
		Name:               ballot.Name,
		RegistrationNumber: ballot.RegistrationNumber,
		Votes:              votes,
	}
}

func mapSeatHolders(seats []entities.SeatHolder) []httptransport.SeatHolderResponse {
	items := make([]httptransport.SeatHolderResponse, 0, len(seats))
	for _, seat := range seats {
		items = append(items, httptransport.SeatHolderResponse{
			StudentID:          seat.StudentID,
			Position:           seat.Position,
			Name:               seat.Name,
			RegistrationNumber: seat.RegistrationNumber,
			SchoolID:           seat.SchoolID,
			DepartmentID:       seat.DepartmentID,
		})
	}
	return items
}

func mapResetSummary(summary ports.ResetSummary) httptransport.ResetElectionResponse {
	return httptransport.ResetElectionResponse{
		DelegateVotesDeleted:    summary.DelegateVotesDeleted,
		CouncilVotesDeleted:     summary.CouncilVotesDeleted,
		CandidatesDeleted:       summary.CandidatesDeleted,
		ElectedDelegatesDeleted: summary.ElectedDelegatesDeleted,
		PartiesDeleted:          summary.PartiesDeleted,
		Phase:                   mapPhase(summary.Phase),
	}
}
