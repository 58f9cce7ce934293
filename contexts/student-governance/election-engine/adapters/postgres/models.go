package postgresadapter

import (
	"sort"
	"strings"
	"time"

	"kura/contexts/student-governance/election-engine/domain/entities"
)

type studentModel struct {
	ID                 string  `gorm:"column:id;primaryKey"`
	RegistrationNumber string  `gorm:"column:registration_number"`
	Name               string  `gorm:"column:name"`
	SchoolID           string  `gorm:"column:school_id"`
	DepartmentID       string  `gorm:"column:department_id"`
	MeanScore          float64 `gorm:"column:mean_score"`
}

func (studentModel) TableName() string {
	return "students"
}

func (m studentModel) toEntity() entities.Student {
	return entities.Student{
		StudentID:          m.ID,
		RegistrationNumber: m.RegistrationNumber,
		Name:               m.Name,
		SchoolID:           m.SchoolID,
		DepartmentID:       m.DepartmentID,
		MeanScore:          m.MeanScore,
	}
}

type phaseModel struct {
	Version   int64     `gorm:"column:version;primaryKey;autoIncrement:false"`
	Phase     int       `gorm:"column:phase"`
	Name      string    `gorm:"column:name"`
	ChangedBy string    `gorm:"column:changed_by"`
	Reason    string    `gorm:"column:reason"`
	StartedAt time.Time `gorm:"column:started_at"`
}

func (phaseModel) TableName() string {
	return "election_phase_log"
}

func phaseModelFromEntity(phase entities.Phase) phaseModel {
	return phaseModel{
		Version:   phase.Version,
		Phase:     int(phase.Number),
		Name:      phase.Name,
		ChangedBy: phase.ChangedBy,
		Reason:    phase.Reason,
		StartedAt: phase.StartedAt.UTC(),
	}
}

func (m phaseModel) toEntity() entities.Phase {
	return entities.Phase{
		Version:   m.Version,
		Number:    entities.PhaseNumber(m.Phase),
		Name:      m.Name,
		ChangedBy: m.ChangedBy,
		Reason:    m.Reason,
		StartedAt: m.StartedAt.UTC(),
	}
}

type candidateModel struct {
	ID                 string     `gorm:"column:id;primaryKey"`
	StudentID          string     `gorm:"column:student_id"`
	RegistrationNumber string     `gorm:"column:registration_number"`
	Name               string     `gorm:"column:name"`
	SchoolID           string     `gorm:"column:school_id"`
	DepartmentID       string     `gorm:"column:department_id"`
	Manifesto          string     `gorm:"column:manifesto"`
	Status             string     `gorm:"column:status"`
	VoteCount          int        `gorm:"column:vote_count"`
	AdminComment       string     `gorm:"column:admin_comment"`
	ReviewedBy         string     `gorm:"column:reviewed_by"`
	ReviewedAt         *time.Time `gorm:"column:reviewed_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (candidateModel) TableName() string {
	return "delegate_candidates"
}

func candidateModelFromEntity(candidate entities.DelegateCandidate) candidateModel {
	row := candidateModel{
		ID:                 strings.TrimSpace(candidate.CandidateID),
		StudentID:          strings.TrimSpace(candidate.StudentID),
		RegistrationNumber: candidate.RegistrationNumber,
		Name:               candidate.Name,
		SchoolID:           candidate.SchoolID,
		DepartmentID:       candidate.DepartmentID,
		Manifesto:          candidate.Manifesto,
		Status:             string(candidate.Status),
		VoteCount:          candidate.VoteCount,
		AdminComment:       candidate.AdminComment,
		ReviewedBy:         candidate.ReviewedBy,
		ReviewedAt:         candidate.ReviewedAt,
		CreatedAt:          candidate.CreatedAt.UTC(),
		UpdatedAt:          candidate.UpdatedAt.UTC(),
	}
	if row.Status == "" {
		row.Status = string(entities.CandidacyStatusPending)
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m candidateModel) toEntity() entities.DelegateCandidate {
	var reviewedAt *time.Time
	if m.ReviewedAt != nil {
		value := m.ReviewedAt.UTC()
		reviewedAt = &value
	}
	return entities.DelegateCandidate{
		CandidateID:        m.ID,
		StudentID:          m.StudentID,
		RegistrationNumber: m.RegistrationNumber,
		Name:               m.Name,
		SchoolID:           m.SchoolID,
		DepartmentID:       m.DepartmentID,
		Manifesto:          m.Manifesto,
		Status:             entities.CandidacyStatus(m.Status),
		VoteCount:          m.VoteCount,
		AdminComment:       m.AdminComment,
		ReviewedBy:         m.ReviewedBy,
		ReviewedAt:         reviewedAt,
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}

type delegateVoteModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	VoterStudentID string    `gorm:"column:voter_student_id"`
	CandidateID    string    `gorm:"column:candidate_id"`
	SchoolID       string    `gorm:"column:school_id"`
	DepartmentID   string    `gorm:"column:department_id"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (delegateVoteModel) TableName() string {
	return "delegate_votes"
}

func (m delegateVoteModel) toEntity() entities.DelegateVote {
	return entities.DelegateVote{
		VoteID:         m.ID,
		VoterStudentID: m.VoterStudentID,
		CandidateID:    m.CandidateID,
		SchoolID:       m.SchoolID,
		DepartmentID:   m.DepartmentID,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

// candidateTallyRow is one row of the grouped tally snapshot.
type candidateTallyRow struct {
	CandidateID  string    `gorm:"column:candidate_id"`
	StudentID    string    `gorm:"column:student_id"`
	SchoolID     string    `gorm:"column:school_id"`
	DepartmentID string    `gorm:"column:department_id"`
	RegisteredAt time.Time `gorm:"column:registered_at"`
	Votes        int64     `gorm:"column:votes"`
}

type electedDelegateModel struct {
	SchoolID           string    `gorm:"column:school_id;primaryKey"`
	DepartmentID       string    `gorm:"column:department_id;primaryKey"`
	StudentID          string    `gorm:"column:student_id"`
	CandidateID        string    `gorm:"column:candidate_id"`
	Name               string    `gorm:"column:name"`
	RegistrationNumber string    `gorm:"column:registration_number"`
	VoteCount          int       `gorm:"column:vote_count"`
	ElectedAt          time.Time `gorm:"column:elected_at"`
}

func (electedDelegateModel) TableName() string {
	return "elected_delegates"
}

func electedDelegateModelFromEntity(delegate entities.ElectedDelegate) electedDelegateModel {
	return electedDelegateModel{
		SchoolID:           delegate.SchoolID,
		DepartmentID:       delegate.DepartmentID,
		StudentID:          delegate.StudentID,
		CandidateID:        delegate.CandidateID,
		Name:               delegate.Name,
		RegistrationNumber: delegate.RegistrationNumber,
		VoteCount:          delegate.VoteCount,
		ElectedAt:          delegate.ElectedAt.UTC(),
	}
}

func (m electedDelegateModel) toEntity() entities.ElectedDelegate {
	return entities.ElectedDelegate{
		StudentID:          m.StudentID,
		CandidateID:        m.CandidateID,
		Name:               m.Name,
		RegistrationNumber: m.RegistrationNumber,
		SchoolID:           m.SchoolID,
		DepartmentID:       m.DepartmentID,
		VoteCount:          m.VoteCount,
		ElectedAt:          m.ElectedAt.UTC(),
	}
}

type partyModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (partyModel) TableName() string {
	return "parties"
}

type partySeatModel struct {
	PartyID   string `gorm:"column:party_id;primaryKey"`
	SlotID    int    `gorm:"column:slot_id;primaryKey;autoIncrement:false"`
	SeatIndex int    `gorm:"column:seat_index;primaryKey;autoIncrement:false"`
	StudentID string `gorm:"column:student_id"`
	Position  string `gorm:"column:position"`
}

func (partySeatModel) TableName() string {
	return "party_seats"
}

func partyModelsFromEntity(party entities.Party) (partyModel, []partySeatModel) {
	row := partyModel{
		ID:        strings.TrimSpace(party.PartyID),
		Name:      strings.TrimSpace(party.Name),
		IsActive:  party.IsActive,
		CreatedAt: party.CreatedAt.UTC(),
		UpdatedAt: party.UpdatedAt.UTC(),
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	seats := make([]partySeatModel, 0, entities.SeatsPerSlate)
	for slotID, slot := range party.Slots {
		for index, seat := range slot {
			seats = append(seats, partySeatModel{
				PartyID:   row.ID,
				SlotID:    slotID,
				SeatIndex: index,
				StudentID: seat.StudentID,
				Position:  seat.Position,
			})
		}
	}
	return row, seats
}

func toPartyEntity(row partyModel, seats []partySeatModel) entities.Party {
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].SlotID != seats[j].SlotID {
			return seats[i].SlotID < seats[j].SlotID
		}
		return seats[i].SeatIndex < seats[j].SeatIndex
	})
	party := entities.Party{
		PartyID:   row.ID,
		Name:      row.Name,
		IsActive:  row.IsActive,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
	for _, seat := range seats {
		if !entities.ValidSlot(seat.SlotID) {
			continue
		}
		party.Slots[seat.SlotID] = append(party.Slots[seat.SlotID], entities.Seat{
			StudentID: seat.StudentID,
			Position:  seat.Position,
		})
	}
	return party
}

type councilVoteModel struct {
	ID                string    `gorm:"column:id;primaryKey"`
	DelegateStudentID string    `gorm:"column:delegate_student_id"`
	PartyID           string    `gorm:"column:party_id"`
	SlotID            int       `gorm:"column:slot_id"`
	CreatedAt         time.Time `gorm:"column:created_at"`
}

func (councilVoteModel) TableName() string {
	return "council_votes"
}

func (m councilVoteModel) toEntity() entities.CouncilVote {
	return entities.CouncilVote{
		VoteID:            m.ID,
		DelegateStudentID: m.DelegateStudentID,
		PartyID:           m.PartyID,
		SlotID:            m.SlotID,
		CreatedAt:         m.CreatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}
