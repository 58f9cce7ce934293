package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PhaseResponse struct {
	Version   int64     `json:"version"`
	Phase     int       `json:"phase"`
	Name      string    `json:"name"`
	ChangedBy string    `json:"changed_by"`
	Reason    string    `json:"reason"`
	StartedAt time.Time `json:"started_at"`
}

type PhaseLogResponse struct {
	Items []PhaseResponse `json:"items"`
}

type SetPhaseRequest struct {
	Phase int `json:"phase"`
}

type PhaseTransitionResponse struct {
	Previous PhaseResponse             `json:"previous"`
	Current  PhaseResponse             `json:"current"`
	Tallied  bool                      `json:"tallied"`
	Elected  []ElectedDelegateResponse `json:"elected,omitempty"`
}

type ApplyCandidacyRequest struct {
	Manifesto string `json:"manifesto"`
}

type ReviewCandidacyRequest struct {
	Decision string `json:"decision"`
	Comment  string `json:"comment,omitempty"`
}

type CandidacyResponse struct {
	CandidateID        string     `json:"candidate_id"`
	StudentID          string     `json:"student_id"`
	RegistrationNumber string     `json:"registration_number"`
	Name               string     `json:"name"`
	SchoolID           string     `json:"school_id"`
	DepartmentID       string     `json:"department_id"`
	Manifesto          string     `json:"manifesto"`
	Status             string     `json:"status"`
	VoteCount          int        `json:"vote_count"`
	AdminComment       string     `json:"admin_comment,omitempty"`
	ReviewedBy         string     `json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

type CandidacyStatusResponse struct {
	HasApplied bool               `json:"has_applied"`
	Candidacy  *CandidacyResponse `json:"candidacy,omitempty"`
}

type CandidacyListResponse struct {
	Items []CandidacyResponse `json:"items"`
}

type CastDelegateVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

type DelegateVotingStatusResponse struct {
	HasVoted    bool   `json:"has_voted"`
	CandidateID string `json:"candidate_id,omitempty"`
}

type ElectedDelegateResponse struct {
	StudentID          string    `json:"student_id"`
	CandidateID        string    `json:"candidate_id"`
	Name               string    `json:"name"`
	RegistrationNumber string    `json:"registration_number"`
	SchoolID           string    `json:"school_id"`
	DepartmentID       string    `json:"department_id"`
	VoteCount          int       `json:"vote_count"`
	ElectedAt          time.Time `json:"elected_at"`
}

type DepartmentResultResponse struct {
	SchoolID     string                   `json:"school_id"`
	DepartmentID string                   `json:"department_id"`
	HasDelegate  bool                     `json:"has_delegate"`
	Delegate     *ElectedDelegateResponse `json:"delegate,omitempty"`
}

type ElectedDelegateListResponse struct {
	Items []ElectedDelegateResponse `json:"items"`
}

type SeatRequest struct {
	StudentID string `json:"student_id"`
	Position  string `json:"position,omitempty"`
}

// RegisterPartyRequest carries slots 0 to 3 in order with 2, 2, 2 and 1 seats.
type RegisterPartyRequest struct {
	Name  string          `json:"name"`
	Slots [][]SeatRequest `json:"slots"`
}

type SeatResponse struct {
	StudentID string `json:"student_id"`
	Position  string `json:"position"`
}

type SlotResponse struct {
	SlotID int            `json:"slot_id"`
	Name   string         `json:"name"`
	Seats  []SeatResponse `json:"seats"`
}

type PartyResponse struct {
	PartyID   string         `json:"party_id"`
	Name      string         `json:"name"`
	Slots     []SlotResponse `json:"slots"`
	IsActive  bool           `json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
}

type PartyListResponse struct {
	Items []PartyResponse `json:"items"`
}

type BallotChoiceRequest struct {
	SlotID  int    `json:"slot_id"`
	PartyID string `json:"party_id"`
}

type CastCouncilBallotRequest struct {
	Votes []BallotChoiceRequest `json:"votes"`
}

type CouncilVoteResponse struct {
	SlotID    int       `json:"slot_id"`
	SlotName  string    `json:"slot_name,omitempty"`
	PartyID   string    `json:"party_id"`
	PartyName string    `json:"party_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CouncilBallotResponse struct {
	DelegateStudentID  string                `json:"delegate_student_id"`
	Name               string                `json:"name,omitempty"`
	RegistrationNumber string                `json:"registration_number,omitempty"`
	Votes              []CouncilVoteResponse `json:"votes"`
}

type CouncilVotingStatusResponse struct {
	IsDelegate bool                  `json:"is_delegate"`
	HasVoted   bool                  `json:"has_voted"`
	Votes      []CouncilVoteResponse `json:"votes"`
}

type SeatHolderResponse struct {
	StudentID          string `json:"student_id"`
	Position           string `json:"position"`
	Name               string `json:"name,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	SchoolID           string `json:"school_id,omitempty"`
	DepartmentID       string `json:"department_id,omitempty"`
}

type NomineeSlotResponse struct {
	SlotID int                  `json:"slot_id"`
	Name   string               `json:"name"`
	Seats  []SeatHolderResponse `json:"seats"`
}

type PartyResultResponse struct {
	PartyID    string                `json:"party_id"`
	Name       string                `json:"name"`
	SlotVotes  []int                 `json:"slot_votes"`
	TotalVotes int                   `json:"total_votes"`
	Nominees   []NomineeSlotResponse `json:"nominees"`
}

// SlotWinnerResponse lists the students the winning party seats in the slot.
type SlotWinnerResponse struct {
	SlotID    int                  `json:"slot_id"`
	SlotName  string               `json:"slot_name"`
	PartyID   string               `json:"party_id"`
	PartyName string               `json:"party_name"`
	VoteCount int                  `json:"vote_count"`
	Seats     []SeatHolderResponse `json:"seats"`
}

type CouncilResultsResponse struct {
	Parties     []PartyResultResponse `json:"parties"`
	Winners     []SlotWinnerResponse  `json:"winners"`
	BallotsCast int                   `json:"ballots_cast"`
	TotalVotes  int                   `json:"total_votes"`
}

type CouncilBallotListResponse struct {
	Items []CouncilBallotResponse `json:"items"`
}

type ResetElectionResponse struct {
	DelegateVotesDeleted    int64         `json:"delegate_votes_deleted"`
	CouncilVotesDeleted     int64         `json:"council_votes_deleted"`
	CandidatesDeleted       int64         `json:"candidates_deleted"`
	ElectedDelegatesDeleted int64         `json:"elected_delegates_deleted"`
	PartiesDeleted          int64         `json:"parties_deleted"`
	Phase                   PhaseResponse `json:"phase"`
}
