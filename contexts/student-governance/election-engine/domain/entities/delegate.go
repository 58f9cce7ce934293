package entities

import "time"

type DelegateVote struct {
	VoteID         string
	VoterStudentID string
	CandidateID    string
	SchoolID       string
	DepartmentID   string
	CreatedAt      time.Time
}

// CandidateTally is the vote count of one candidate taken from a single
// snapshot of the delegate vote rows.
type CandidateTally struct {
	CandidateID  string
	StudentID    string
	SchoolID     string
	DepartmentID string
	Votes        int
	RegisteredAt time.Time
}

func (t CandidateTally) Department() DepartmentKey {
	return DepartmentKey{SchoolID: t.SchoolID, DepartmentID: t.DepartmentID}
}

type ElectedDelegate struct {
	StudentID          string
	CandidateID        string
	Name               string
	RegistrationNumber string
	SchoolID           string
	DepartmentID       string
	VoteCount          int
	ElectedAt          time.Time
}

func (d ElectedDelegate) Department() DepartmentKey {
	return DepartmentKey{SchoolID: d.SchoolID, DepartmentID: d.DepartmentID}
}
