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

// CreateParty writes the party and its seats together. The partial unique
// index on active names and the unique seat index enforce the registration
// rules against concurrent writers.
func (r *Repository) CreateParty(ctx context.Context, party entities.Party) error {
	row, seats := partyModelsFromEntity(party)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if translated, ok := constraintError(err); ok {
				return translated
			}
			return r.logError("election_repo_insert_party_failed", err, "party_id", row.ID)
		}
		if err := tx.Create(&seats).Error; err != nil {
			if translated, ok := constraintError(err); ok {
				return translated
			}
			return r.logError("election_repo_insert_party_seats_failed", err, "party_id", row.ID)
		}
		return nil
	})
	if err != nil {
		return r.passThrough("election_repo_create_party_failed", err, "party_id", row.ID)
	}
	return nil
}

func (r *Repository) GetParty(ctx context.Context, partyID string) (entities.Party, error) {
	partyID = strings.TrimSpace(partyID)
	var row partyModel
	if err := r.db.WithContext(ctx).Where("id = ?", partyID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Party{}, domainerrors.ErrPartyNotFound
		}
		return entities.Party{}, r.logError("election_repo_get_party_failed", err, "party_id", partyID)
	}
	var seats []partySeatModel
	if err := r.db.WithContext(ctx).Where("party_id = ?", partyID).Find(&seats).Error; err != nil {
		return entities.Party{}, r.logError("election_repo_get_party_seats_failed", err, "party_id", partyID)
	}
	return toPartyEntity(row, seats), nil
}

func (r *Repository) ListParties(ctx context.Context) ([]entities.Party, error) {
	var rows []partyModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_parties_failed", err)
	}
	if len(rows) == 0 {
		return []entities.Party{}, nil
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var seats []partySeatModel
	if err := r.db.WithContext(ctx).Where("party_id IN ?", ids).Find(&seats).Error; err != nil {
		return nil, r.logError("election_repo_list_party_seats_failed", err)
	}
	byParty := make(map[string][]partySeatModel, len(rows))
	for _, seat := range seats {
		byParty[seat.PartyID] = append(byParty[seat.PartyID], seat)
	}
	items := make([]entities.Party, 0, len(rows))
	for _, row := range rows {
		items = append(items, toPartyEntity(row, byParty[row.ID]))
	}
	return items, nil
}

func (r *Repository) FindActivePartyByName(ctx context.Context, name string) (entities.Party, bool, error) {
	var row partyModel
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND lower(name) = lower(?)", true, strings.TrimSpace(name)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Party{}, false, nil
		}
		return entities.Party{}, false, r.logError("election_repo_find_party_by_name_failed", err, "name", strings.TrimSpace(name))
	}
	party, err := r.GetParty(ctx, row.ID)
	if err != nil {
		return entities.Party{}, false, err
	}
	return party, true, nil
}

func (r *Repository) FindSeatedNominees(ctx context.Context, studentIDs []string) (map[string]string, error) {
	seated := make(map[string]string)
	if len(studentIDs) == 0 {
		return seated, nil
	}
	var seats []partySeatModel
	if err := r.db.WithContext(ctx).
		Table("party_seats AS s").
		Select("s.party_id, s.slot_id, s.seat_index, s.student_id, s.position").
		Joins("JOIN parties AS p ON p.id = s.party_id").
		Where("p.is_active = ? AND s.student_id IN ?", true, studentIDs).
		Scan(&seats).Error; err != nil {
		return nil, r.logError("election_repo_find_seated_nominees_failed", err, "count", len(studentIDs))
	}
	for _, seat := range seats {
		seated[seat.StudentID] = seat.PartyID
	}
	return seated, nil
}

// CastCouncilBallot inserts all slot votes of one delegate or none. The
// (delegate, slot) unique constraint turns a racing second ballot into
// ErrAlreadyVoted.
func (r *Repository) CastCouncilBallot(ctx context.Context, votes []entities.CouncilVote) error {
	if len(votes) == 0 {
		return domainerrors.ErrIncompleteBallot
	}
	rows := make([]councilVoteModel, 0, len(votes))
	partyIDs := make(map[string]struct{}, len(votes))
	for _, vote := range votes {
		rows = append(rows, councilVoteModel{
			ID:                strings.TrimSpace(vote.VoteID),
			DelegateStudentID: strings.TrimSpace(vote.DelegateStudentID),
			PartyID:           strings.TrimSpace(vote.PartyID),
			SlotID:            vote.SlotID,
			CreatedAt:         vote.CreatedAt.UTC(),
		})
		partyIDs[strings.TrimSpace(vote.PartyID)] = struct{}{}
	}
	ids := make([]string, 0, len(partyIDs))
	for id := range partyIDs {
		ids = append(ids, id)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&partyModel{}).Where("id IN ? AND is_active = ?", ids, true).Count(&active).Error; err != nil {
			return r.logError("election_repo_check_ballot_parties_failed", err)
		}
		if int(active) != len(ids) {
			return domainerrors.ErrPartyNotFound
		}
		if err := tx.Create(&rows).Error; err != nil {
			if translated, ok := constraintError(err); ok {
				return translated
			}
			return r.logError("election_repo_insert_council_votes_failed", err,
				"delegate_id", rows[0].DelegateStudentID,
			)
		}
		return nil
	})
	if err != nil {
		return r.passThrough("election_repo_cast_council_ballot_failed", err, "delegate_id", rows[0].DelegateStudentID)
	}
	return nil
}

func (r *Repository) ListCouncilVotesByDelegate(ctx context.Context, delegateStudentID string) ([]entities.CouncilVote, error) {
	var rows []councilVoteModel
	if err := r.db.WithContext(ctx).
		Where("delegate_student_id = ?", strings.TrimSpace(delegateStudentID)).
		Order("slot_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_council_votes_by_delegate_failed", err,
			"delegate_id", strings.TrimSpace(delegateStudentID),
		)
	}
	return toCouncilVoteEntities(rows), nil
}

func (r *Repository) ListCouncilVotes(ctx context.Context) ([]entities.CouncilVote, error) {
	var rows []councilVoteModel
	if err := r.db.WithContext(ctx).
		Order("delegate_student_id ASC").
		Order("slot_id ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_council_votes_failed", err)
	}
	return toCouncilVoteEntities(rows), nil
}

func toCouncilVoteEntities(rows []councilVoteModel) []entities.CouncilVote {
	items := make([]entities.CouncilVote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

var (
	_ ports.PartyRepository       = (*Repository)(nil)
	_ ports.CouncilVoteRepository = (*Repository)(nil)
)
