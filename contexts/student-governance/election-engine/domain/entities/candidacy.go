package entities

import "time"

type CandidacyStatus string

const (
	CandidacyStatusPending  CandidacyStatus = "pending"
	CandidacyStatusApproved CandidacyStatus = "approved"
	CandidacyStatusRejected CandidacyStatus = "rejected"
)

func (s CandidacyStatus) IsDecision() bool {
	return s == CandidacyStatusApproved || s == CandidacyStatusRejected
}

const DefaultReviewer = "admin"

type DelegateCandidate struct {
	CandidateID        string
	StudentID          string
	RegistrationNumber string
	Name               string
	SchoolID           string
	DepartmentID       string
	Manifesto          string
	Status             CandidacyStatus
	VoteCount          int
	AdminComment       string
	ReviewedBy         string
	ReviewedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (c DelegateCandidate) Department() DepartmentKey {
	return DepartmentKey{SchoolID: c.SchoolID, DepartmentID: c.DepartmentID}
}

func (c DelegateCandidate) Approved() bool {
	return c.Status == CandidacyStatusApproved
}

type CandidacyReview struct {
	Decision   CandidacyStatus
	Comment    string
	ReviewedBy string
	ReviewedAt time.Time
}
