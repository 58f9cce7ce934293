package queries

import (
	"context"
	"sort"
	"strings"

	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"
)

type DelegateVotingStatus struct {
	HasVoted    bool
	CandidateID string
}

type DepartmentResult struct {
	Department  entities.DepartmentKey
	HasDelegate bool
	Delegate    entities.ElectedDelegate
}

type DelegateResultsUseCase struct {
	Students ports.EligibilityStore
	Votes    ports.DelegateVoteRepository
	Elected  ports.ElectedDelegateRepository
}

func (uc DelegateResultsUseCase) VotingStatus(ctx context.Context, voterStudentID string) (DelegateVotingStatus, error) {
	voterStudentID = strings.TrimSpace(voterStudentID)
	if voterStudentID == "" {
		return DelegateVotingStatus{}, domainerrors.ErrInvalidInput
	}
	vote, found, err := uc.Votes.GetDelegateVoteByVoter(ctx, voterStudentID)
	if err != nil {
		return DelegateVotingStatus{}, err
	}
	if !found {
		return DelegateVotingStatus{}, nil
	}
	return DelegateVotingStatus{HasVoted: true, CandidateID: vote.CandidateID}, nil
}

func (uc DelegateResultsUseCase) ElectedFor(ctx context.Context, key entities.DepartmentKey) (DepartmentResult, error) {
	key.SchoolID = strings.TrimSpace(key.SchoolID)
	key.DepartmentID = strings.TrimSpace(key.DepartmentID)
	if key.SchoolID == "" || key.DepartmentID == "" {
		return DepartmentResult{}, domainerrors.ErrInvalidInput
	}
	delegate, found, err := uc.Elected.GetElectedDelegateByDepartment(ctx, key)
	if err != nil {
		return DepartmentResult{}, err
	}
	return DepartmentResult{Department: key, HasDelegate: found, Delegate: delegate}, nil
}

func (uc DelegateResultsUseCase) MyDepartmentResult(ctx context.Context, studentID string) (DepartmentResult, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return DepartmentResult{}, domainerrors.ErrInvalidInput
	}
	student, err := uc.Students.FindStudent(ctx, studentID)
	if err != nil {
		return DepartmentResult{}, err
	}
	return uc.ElectedFor(ctx, student.Department())
}

// AllResults lists every elected delegate ordered by school then department.
func (uc DelegateResultsUseCase) AllResults(ctx context.Context) ([]entities.ElectedDelegate, error) {
	items, err := uc.Elected.ListElectedDelegates(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Department().Less(items[j].Department())
	})
	return items, nil
}
