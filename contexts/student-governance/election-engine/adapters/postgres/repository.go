package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) FindStudent(ctx context.Context, studentID string) (entities.Student, error) {
	var row studentModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(studentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Student{}, domainerrors.ErrStudentNotFound
		}
		return entities.Student{}, r.logError("election_repo_find_student_failed", err, "student_id", strings.TrimSpace(studentID))
	}
	return row.toEntity(), nil
}

func (r *Repository) FindStudentByRegistrationNumber(ctx context.Context, registrationNumber string) (entities.Student, error) {
	var row studentModel
	err := r.db.WithContext(ctx).
		Where("registration_number = ?", strings.TrimSpace(registrationNumber)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Student{}, domainerrors.ErrStudentNotFound
		}
		return entities.Student{}, r.logError("election_repo_find_student_by_registration_failed", err,
			"registration_number", strings.TrimSpace(registrationNumber),
		)
	}
	return row.toEntity(), nil
}

// UpsertStudents loads the eligibility register. Existing rows are updated in
// place by id.
func (r *Repository) UpsertStudents(ctx context.Context, students []entities.Student) (int, error) {
	if len(students) == 0 {
		return 0, nil
	}
	rows := make([]studentModel, 0, len(students))
	for _, student := range students {
		rows = append(rows, studentModel{
			ID:                 student.StudentID,
			RegistrationNumber: student.RegistrationNumber,
			Name:               student.Name,
			SchoolID:           student.SchoolID,
			DepartmentID:       student.DepartmentID,
			MeanScore:          student.MeanScore,
		})
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"registration_number", "name", "school_id", "department_id", "mean_score"}),
		}).
		CreateInBatches(rows, 500).
		Error
	if err != nil {
		return 0, r.logError("election_repo_upsert_students_failed", err, "count", len(rows))
	}
	return len(rows), nil
}

func (r *Repository) CurrentPhase(ctx context.Context) (entities.Phase, bool, error) {
	var row phaseModel
	err := r.db.WithContext(ctx).Order("version DESC").Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Phase{}, false, nil
		}
		return entities.Phase{}, false, r.logError("election_repo_current_phase_failed", err)
	}
	return row.toEntity(), true, nil
}

// AppendPhase locks the latest log row so concurrent writers serialize, then
// inserts the entry only if it directly follows the latest version.
func (r *Repository) AppendPhase(ctx context.Context, phase entities.Phase) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.appendPhaseTx(tx, phase)
	})
	if err != nil {
		return r.passThrough("election_repo_append_phase_failed", err, "version", phase.Version)
	}
	return nil
}

func (r *Repository) appendPhaseTx(tx *gorm.DB, phase entities.Phase) error {
	var latest phaseModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Order("version DESC").Take(&latest).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		latest.Version = 0
	case err != nil:
		return r.logError("election_repo_lock_phase_failed", err)
	}
	if phase.Version != latest.Version+1 {
		return domainerrors.ErrPhaseConflict
	}
	row := phaseModelFromEntity(phase)
	if err := tx.Create(&row).Error; err != nil {
		if translated, ok := constraintError(err); ok {
			return translated
		}
		return r.logError("election_repo_insert_phase_failed", err, "version", phase.Version)
	}
	return nil
}

func (r *Repository) ListPhases(ctx context.Context) ([]entities.Phase, error) {
	var rows []phaseModel
	if err := r.db.WithContext(ctx).Order("version ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_phases_failed", err)
	}
	items := make([]entities.Phase, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// ResetElection deletes every election row and appends the reset phase in a
// single transaction. Students, the phase history and the outbox are kept.
func (r *Repository) ResetElection(ctx context.Context, phase entities.Phase) (ports.ResetSummary, error) {
	summary := ports.ResetSummary{Phase: phase}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.appendPhaseTx(tx, phase); err != nil {
			return err
		}
		deletions := []struct {
			table string
			count *int64
		}{
			{table: "council_votes", count: &summary.CouncilVotesDeleted},
			{table: "delegate_votes", count: &summary.DelegateVotesDeleted},
			{table: "elected_delegates", count: &summary.ElectedDelegatesDeleted},
			{table: "party_seats"},
			{table: "parties", count: &summary.PartiesDeleted},
			{table: "delegate_candidates", count: &summary.CandidatesDeleted},
		}
		for _, deletion := range deletions {
			result := tx.Exec("DELETE FROM " + deletion.table)
			if result.Error != nil {
				return r.logError("election_repo_reset_delete_failed", result.Error, "table", deletion.table)
			}
			if deletion.count != nil {
				*deletion.count = result.RowsAffected
			}
		}
		return nil
	})
	if err != nil {
		return ports.ResetSummary{}, r.passThrough("election_repo_reset_failed", err, "version", phase.Version)
	}
	return summary, nil
}

func (r *Repository) CreateCandidacy(ctx context.Context, candidate entities.DelegateCandidate) error {
	row := candidateModelFromEntity(candidate)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if translated, ok := constraintError(err); ok {
			return translated
		}
		return r.logError("election_repo_create_candidacy_failed", err,
			"candidate_id", row.ID,
			"student_id", row.StudentID,
		)
	}
	return nil
}

func (r *Repository) GetCandidacy(ctx context.Context, candidateID string) (entities.DelegateCandidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DelegateCandidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.DelegateCandidate{}, r.logError("election_repo_get_candidacy_failed", err,
			"candidate_id", strings.TrimSpace(candidateID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetCandidacyByStudent(ctx context.Context, studentID string) (entities.DelegateCandidate, bool, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("student_id = ?", strings.TrimSpace(studentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DelegateCandidate{}, false, nil
		}
		return entities.DelegateCandidate{}, false, r.logError("election_repo_get_candidacy_by_student_failed", err,
			"student_id", strings.TrimSpace(studentID),
		)
	}
	return row.toEntity(), true, nil
}

// ReviewCandidacy decides a pending candidacy with one conditional update.
// When no row matches, a single re-read tells a missing candidacy from one
// already decided.
func (r *Repository) ReviewCandidacy(
	ctx context.Context,
	candidateID string,
	review entities.CandidacyReview,
) (entities.DelegateCandidate, error) {
	candidateID = strings.TrimSpace(candidateID)
	reviewedAt := review.ReviewedAt.UTC()
	var updated candidateModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&candidateModel{}).
			Where("id = ? AND status = ?", candidateID, string(entities.CandidacyStatusPending)).
			Updates(map[string]any{
				"status":        string(review.Decision),
				"admin_comment": review.Comment,
				"reviewed_by":   review.ReviewedBy,
				"reviewed_at":   reviewedAt,
				"updated_at":    reviewedAt,
			})
		if result.Error != nil {
			return r.logError("election_repo_review_candidacy_failed", result.Error, "candidate_id", candidateID)
		}
		err := tx.Where("id = ?", candidateID).First(&updated).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrCandidateNotFound
		}
		if err != nil {
			return r.logError("election_repo_review_candidacy_reload_failed", err, "candidate_id", candidateID)
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAlreadyReviewed
		}
		return nil
	})
	if err != nil {
		return entities.DelegateCandidate{}, r.passThrough("election_repo_review_candidacy_tx_failed", err, "candidate_id", candidateID)
	}
	return updated.toEntity(), nil
}

func (r *Repository) ListCandidacies(ctx context.Context, filter ports.CandidacyFilter) ([]entities.DelegateCandidate, error) {
	tx := r.db.WithContext(ctx).Model(&candidateModel{})
	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}
	if strings.TrimSpace(filter.SchoolID) != "" {
		tx = tx.Where("school_id = ?", strings.TrimSpace(filter.SchoolID))
	}
	if strings.TrimSpace(filter.DepartmentID) != "" {
		tx = tx.Where("department_id = ?", strings.TrimSpace(filter.DepartmentID))
	}
	if filter.NewestFirst {
		tx = tx.Order("created_at DESC")
	} else {
		tx = tx.Order("created_at ASC")
	}
	var rows []candidateModel
	if err := tx.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_candidacies_failed", err, "status", string(filter.Status))
	}
	items := make([]entities.DelegateCandidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "student-governance/election-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return fmt.Errorf("%w: %v", domainerrors.ErrStoreUnavailable, err)
}

// passThrough returns business and already-wrapped storage errors unchanged
// and wraps anything else, such as a failed commit.
func (r *Repository) passThrough(event string, err error, attrs ...any) error {
	for _, known := range businessErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return r.logError(event, err, attrs...)
}

var businessErrors = []error{
	domainerrors.ErrStoreUnavailable,
	domainerrors.ErrNotFound,
	domainerrors.ErrInvalidInput,
	domainerrors.ErrPhaseConflict,
	domainerrors.ErrDuplicateCandidacy,
	domainerrors.ErrAlreadyReviewed,
	domainerrors.ErrAlreadyVoted,
	domainerrors.ErrDuplicateName,
	domainerrors.ErrAlreadyAssigned,
	domainerrors.ErrIncompleteBallot,
}

// constraintError maps a violated election constraint to its business error.
func constraintError(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil, false
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintPhaseVersion:
			return domainerrors.ErrPhaseConflict, true
		case constraintCandidateStudent:
			return domainerrors.ErrDuplicateCandidacy, true
		case constraintDelegateVoteVoter, constraintCouncilVoteSlot:
			return domainerrors.ErrAlreadyVoted, true
		case constraintPartyActiveName:
			return domainerrors.ErrDuplicateName, true
		case constraintPartySeatStudent:
			return domainerrors.ErrAlreadyAssigned, true
		}
	case pgForeignKeyViolation:
		switch pgErr.ConstraintName {
		case constraintDelegateVoteTarget:
			return domainerrors.ErrCandidateNotFound, true
		case constraintCouncilVoteParty:
			return domainerrors.ErrPartyNotFound, true
		}
	}
	return nil, false
}

func utcNow() time.Time {
	return time.Now().UTC()
}

var (
	_ ports.EligibilityStore    = (*Repository)(nil)
	_ ports.PhaseRepository     = (*Repository)(nil)
	_ ports.CandidacyRepository = (*Repository)(nil)
	_ ports.ResetRepository     = (*Repository)(nil)
)
