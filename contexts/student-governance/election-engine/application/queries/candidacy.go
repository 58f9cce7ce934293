package queries

import (
	"context"
	"errors"
	"strings"

	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"
)

type CandidacyQueryUseCase struct {
	Students   ports.EligibilityStore
	Candidates ports.CandidacyRepository
}

func (uc CandidacyQueryUseCase) StatusForStudent(ctx context.Context, studentID string) (entities.DelegateCandidate, bool, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return entities.DelegateCandidate{}, false, domainerrors.ErrInvalidInput
	}
	return uc.Candidates.GetCandidacyByStudent(ctx, studentID)
}

// StatusForRegistrationNumber resolves the student first; an unknown
// registration number reports no candidacy rather than an error.
func (uc CandidacyQueryUseCase) StatusForRegistrationNumber(ctx context.Context, registrationNumber string) (entities.DelegateCandidate, bool, error) {
	registrationNumber = strings.TrimSpace(registrationNumber)
	if registrationNumber == "" {
		return entities.DelegateCandidate{}, false, domainerrors.ErrInvalidInput
	}
	student, err := uc.Students.FindStudentByRegistrationNumber(ctx, registrationNumber)
	if err != nil {
		if errors.Is(err, domainerrors.ErrStudentNotFound) {
			return entities.DelegateCandidate{}, false, nil
		}
		return entities.DelegateCandidate{}, false, err
	}
	return uc.Candidates.GetCandidacyByStudent(ctx, student.StudentID)
}

func (uc CandidacyQueryUseCase) ListPending(ctx context.Context) ([]entities.DelegateCandidate, error) {
	return uc.Candidates.ListCandidacies(ctx, ports.CandidacyFilter{
		Status:      entities.CandidacyStatusPending,
		NewestFirst: true,
	})
}

func (uc CandidacyQueryUseCase) ListApproved(ctx context.Context, key entities.DepartmentKey) ([]entities.DelegateCandidate, error) {
	key.SchoolID = strings.TrimSpace(key.SchoolID)
	key.DepartmentID = strings.TrimSpace(key.DepartmentID)
	if key.SchoolID == "" || key.DepartmentID == "" {
		return nil, domainerrors.ErrInvalidInput
	}
	return uc.Candidates.ListCandidacies(ctx, ports.CandidacyFilter{
		Status:       entities.CandidacyStatusApproved,
		SchoolID:     key.SchoolID,
		DepartmentID: key.DepartmentID,
	})
}
