package commands

import (
	"context"
	"log/slog"
	"strings"

	application "kura/contexts/student-governance/election-engine/application"
	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"
)

type ApplyCandidacyCommand struct {
	StudentID string
	Manifesto string
}

type ReviewCandidacyCommand struct {
	CandidateID string
	Decision    string
	Comment     string
	ReviewerID  string
}

// CandidacyUseCase runs the delegate candidacy lifecycle: a student applies
// while Candidate Registration is open and an admin approves or rejects the
// application exactly once.
type CandidacyUseCase struct {
	Phases     ports.PhaseRepository
	Students   ports.EligibilityStore
	Candidates ports.CandidacyRepository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CandidacyUseCase) Apply(ctx context.Context, cmd ApplyCandidacyCommand) (entities.DelegateCandidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	studentID := strings.TrimSpace(cmd.StudentID)
	logger.Info("candidacy application started",
		"event", "election_candidacy_apply_started",
		"module", "student-governance/election-engine",
		"layer", "application",
		"student_id", studentID,
	)
	if studentID == "" {
		return entities.DelegateCandidate{}, domainerrors.ErrInvalidInput
	}
	if err := requirePhase(ctx, uc.Phases, entities.PhaseCandidateRegistration); err != nil {
		return entities.DelegateCandidate{}, err
	}

	student, err := uc.Students.FindStudent(ctx, studentID)
	if err != nil {
		return entities.DelegateCandidate{}, err
	}
	if !student.Eligible() {
		logger.Warn("candidacy application rejected",
			"event", "election_candidacy_apply_not_eligible",
			"module", "student-governance/election-engine",
			"layer", "application",
			"student_id", studentID,
			"mean_score", student.MeanScore,
		)
		return entities.DelegateCandidate{}, domainerrors.ErrNotEligible
	}
	if _, found, err := uc.Candidates.GetCandidacyByStudent(ctx, studentID); err != nil {
		return entities.DelegateCandidate{}, err
	} else if found {
		logger.Warn("candidacy application rejected",
			"event", "election_candidacy_apply_duplicate",
			"module", "student-governance/election-engine",
			"layer", "application",
			"student_id", studentID,
		)
		return entities.DelegateCandidate{}, domainerrors.ErrDuplicateCandidacy
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.DelegateCandidate{}, err
	}
	now := resolveNow(uc.Clock)
	candidate := entities.DelegateCandidate{
		CandidateID:        candidateID,
		StudentID:          student.StudentID,
		RegistrationNumber: student.RegistrationNumber,
		Name:               student.Name,
		SchoolID:           student.SchoolID,
		DepartmentID:       student.DepartmentID,
		Manifesto:          strings.TrimSpace(cmd.Manifesto),
		Status:             entities.CandidacyStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	// The store re-checks uniqueness atomically; a concurrent application
	// by the same student fails here with ErrDuplicateCandidacy.
	if err := uc.Candidates.CreateCandidacy(ctx, candidate); err != nil {
		return entities.DelegateCandidate{}, err
	}

	logger.Info("candidacy application created",
		"event", "election_candidacy_created",
		"module", "student-governance/election-engine",
		"layer", "application",
		"candidate_id", candidate.CandidateID,
		"student_id", candidate.StudentID,
		"school_id", candidate.SchoolID,
		"department_id", candidate.DepartmentID,
	)
	return candidate, nil
}

func (uc CandidacyUseCase) Review(ctx context.Context, cmd ReviewCandidacyCommand) (entities.DelegateCandidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	candidateID := strings.TrimSpace(cmd.CandidateID)
	decision := entities.CandidacyStatus(strings.ToLower(strings.TrimSpace(cmd.Decision)))
	reviewer := strings.TrimSpace(cmd.ReviewerID)
	if reviewer == "" {
		reviewer = entities.DefaultReviewer
	}
	logger.Info("candidacy review started",
		"event", "election_candidacy_review_started",
		"module", "student-governance/election-engine",
		"layer", "application",
		"candidate_id", candidateID,
		"decision", string(decision),
		"reviewer_id", reviewer,
	)
	if candidateID == "" || !decision.IsDecision() {
		logger.Warn("candidacy review validation failed",
			"event", "election_candidacy_review_validation_failed",
			"module", "student-governance/election-engine",
			"layer", "application",
			"candidate_id", candidateID,
			"decision", string(decision),
		)
		return entities.DelegateCandidate{}, domainerrors.ErrInvalidInput
	}

	now := resolveNow(uc.Clock)
	candidate, err := uc.Candidates.ReviewCandidacy(ctx, candidateID, entities.CandidacyReview{
		Decision:   decision,
		Comment:    strings.TrimSpace(cmd.Comment),
		ReviewedBy: reviewer,
		ReviewedAt: now,
	})
	if err != nil {
		return entities.DelegateCandidate{}, err
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGen, "election.candidacy_reviewed", "candidate_id", candidate.CandidateID, now, map[string]any{
		"candidate_id":  candidate.CandidateID,
		"student_id":    candidate.StudentID,
		"school_id":     candidate.SchoolID,
		"department_id": candidate.DepartmentID,
		"status":        string(candidate.Status),
		"reviewed_by":   candidate.ReviewedBy,
	}); err != nil {
		return entities.DelegateCandidate{}, err
	}

	logger.Info("candidacy reviewed",
		"event", "election_candidacy_reviewed",
		"module", "student-governance/election-engine",
		"layer", "application",
		"candidate_id", candidate.CandidateID,
		"status", string(candidate.Status),
		"reviewer_id", reviewer,
	)
	return candidate, nil
}
