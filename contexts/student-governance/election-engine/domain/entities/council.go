package entities

import "time"

type CouncilVote struct {
	VoteID            string
	DelegateStudentID string
	PartyID           string
	SlotID            int
	CreatedAt         time.Time
}

type BallotChoice struct {
	SlotID  int
	PartyID string
}

// SeatHolder is a party seat with the nominee's register details. The tally
// fills Seat; the student fields come from the eligibility register.
type SeatHolder struct {
	Seat
	Name               string
	RegistrationNumber string
	SchoolID           string
	DepartmentID       string
}

func (h *SeatHolder) Describe(student Student) {
	h.Name = student.Name
	h.RegistrationNumber = student.RegistrationNumber
	h.SchoolID = student.SchoolID
	h.DepartmentID = student.DepartmentID
}

type PartySlotVotes struct {
	PartyID    string
	Name       string
	SlotVotes  [SlotCount]int
	TotalVotes int
	Nominees   [SlotCount][]SeatHolder
	CreatedAt  time.Time
}

// SlotWinner names the party that took a slot and the students it seats.
type SlotWinner struct {
	SlotID    int
	SlotName  string
	PartyID   string
	PartyName string
	VoteCount int
	Seats     []SeatHolder
}

type CouncilResults struct {
	PerParty    []PartySlotVotes
	Winners     []SlotWinner
	BallotsCast int
	TotalVotes  int
}

type DelegateBallot struct {
	DelegateStudentID  string
	Name               string
	RegistrationNumber string
	Votes              []CouncilVote
	// PartyNames resolves the parties on this ballot; it may be nil.
	PartyNames map[string]string
}
