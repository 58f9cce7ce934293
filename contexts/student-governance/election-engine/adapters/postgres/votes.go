package postgresadapter

import (
	"context"
	"errors"
	"strings"

	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"

	"gorm.io/gorm"
)

// CastDelegateVote inserts the vote row and bumps the candidate counter in one
// transaction. The unique voter constraint rejects a second vote.
func (r *Repository) CastDelegateVote(ctx context.Context, vote entities.DelegateVote) (entities.DelegateCandidate, error) {
	row := delegateVoteModel{
		ID:             strings.TrimSpace(vote.VoteID),
		VoterStudentID: strings.TrimSpace(vote.VoterStudentID),
		CandidateID:    strings.TrimSpace(vote.CandidateID),
		SchoolID:       vote.SchoolID,
		DepartmentID:   vote.DepartmentID,
		CreatedAt:      vote.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = utcNow()
	}

	var updated candidateModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if translated, ok := constraintError(err); ok {
				return translated
			}
			return r.logError("election_repo_insert_delegate_vote_failed", err,
				"voter_id", row.VoterStudentID,
				"candidate_id", row.CandidateID,
			)
		}
		result := tx.Model(&candidateModel{}).
			Where("id = ? AND status = ?", row.CandidateID, string(entities.CandidacyStatusApproved)).
			Updates(map[string]any{
				"vote_count": gorm.Expr("vote_count + 1"),
				"updated_at": row.CreatedAt,
			})
		if result.Error != nil {
			return r.logError("election_repo_increment_vote_count_failed", result.Error, "candidate_id", row.CandidateID)
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrCandidateNotFound
		}
		if err := tx.Where("id = ?", row.CandidateID).First(&updated).Error; err != nil {
			return r.logError("election_repo_reload_candidate_failed", err, "candidate_id", row.CandidateID)
		}
		return nil
	})
	if err != nil {
		return entities.DelegateCandidate{}, r.passThrough("election_repo_cast_delegate_vote_failed", err,
			"voter_id", row.VoterStudentID,
		)
	}
	return updated.toEntity(), nil
}

func (r *Repository) GetDelegateVoteByVoter(ctx context.Context, voterStudentID string) (entities.DelegateVote, bool, error) {
	var row delegateVoteModel
	err := r.db.WithContext(ctx).
		Where("voter_student_id = ?", strings.TrimSpace(voterStudentID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DelegateVote{}, false, nil
		}
		return entities.DelegateVote{}, false, r.logError("election_repo_get_delegate_vote_failed", err,
			"voter_id", strings.TrimSpace(voterStudentID),
		)
	}
	return row.toEntity(), true, nil
}

// SnapshotCandidateTallies counts vote rows per approved candidate in a single
// grouped query. The stored vote_count is not read here.
func (r *Repository) SnapshotCandidateTallies(ctx context.Context) ([]entities.CandidateTally, error) {
	var rows []candidateTallyRow
	err := r.db.WithContext(ctx).
		Table("delegate_candidates AS c").
		Select("c.id AS candidate_id, c.student_id, c.school_id, c.department_id, c.created_at AS registered_at, COUNT(v.id) AS votes").
		Joins("LEFT JOIN delegate_votes AS v ON v.candidate_id = c.id").
		Where("c.status = ?", string(entities.CandidacyStatusApproved)).
		Group("c.id, c.student_id, c.school_id, c.department_id, c.created_at").
		Order("c.id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_snapshot_tallies_failed", err)
	}
	items := make([]entities.CandidateTally, 0, len(rows))
	for _, row := range rows {
		items = append(items, entities.CandidateTally{
			CandidateID:  row.CandidateID,
			StudentID:    row.StudentID,
			SchoolID:     row.SchoolID,
			DepartmentID: row.DepartmentID,
			Votes:        int(row.Votes),
			RegisteredAt: row.RegisteredAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) ReplaceElectedDelegates(ctx context.Context, delegates []entities.ElectedDelegate) error {
	rows := make([]electedDelegateModel, 0, len(delegates))
	for _, delegate := range delegates {
		rows = append(rows, electedDelegateModelFromEntity(delegate))
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM elected_delegates").Error; err != nil {
			return r.logError("election_repo_clear_elected_failed", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
			return r.logError("election_repo_insert_elected_failed", err, "count", len(rows))
		}
		return nil
	})
	if err != nil {
		return r.passThrough("election_repo_replace_elected_failed", err, "count", len(rows))
	}
	return nil
}

func (r *Repository) ListElectedDelegates(ctx context.Context) ([]entities.ElectedDelegate, error) {
	var rows []electedDelegateModel
	if err := r.db.WithContext(ctx).
		Order("school_id ASC").
		Order("department_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_elected_failed", err)
	}
	items := make([]entities.ElectedDelegate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetElectedDelegateByDepartment(
	ctx context.Context,
	key entities.DepartmentKey,
) (entities.ElectedDelegate, bool, error) {
	var row electedDelegateModel
	err := r.db.WithContext(ctx).
		Where("school_id = ? AND department_id = ?", key.SchoolID, key.DepartmentID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ElectedDelegate{}, false, nil
		}
		return entities.ElectedDelegate{}, false, r.logError("election_repo_get_elected_failed", err,
			"school_id", key.SchoolID,
			"department_id", key.DepartmentID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) IsElectedDelegate(ctx context.Context, studentID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&electedDelegateModel{}).
		Where("student_id = ?", strings.TrimSpace(studentID)).
		Count(&count).Error; err != nil {
		return false, r.logError("election_repo_is_elected_failed", err, "student_id", strings.TrimSpace(studentID))
	}
	return count > 0, nil
}

var (
	_ ports.DelegateVoteRepository    = (*Repository)(nil)
	_ ports.ElectedDelegateRepository = (*Repository)(nil)
)
