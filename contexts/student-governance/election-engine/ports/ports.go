package ports

import (
	"context"
	"encoding/json"
	"time"

	"kura/contexts/student-governance/election-engine/domain/entities"
)

// EligibilityStore is the read-only view of the student register.
type EligibilityStore interface {
	FindStudent(ctx context.Context, studentID string) (entities.Student, error)
	FindStudentByRegistrationNumber(ctx context.Context, registrationNumber string) (entities.Student, error)
}

// PhaseRepository keeps the append-only phase log. AppendPhase must fail with
// ErrPhaseConflict when phase.Version is already taken.
type PhaseRepository interface {
	CurrentPhase(ctx context.Context) (entities.Phase, bool, error)
	AppendPhase(ctx context.Context, phase entities.Phase) error
	ListPhases(ctx context.Context) ([]entities.Phase, error)
}

type CandidacyFilter struct {
	Status       entities.CandidacyStatus
	SchoolID     string
	DepartmentID string
	NewestFirst  bool
}

type CandidacyRepository interface {
	CreateCandidacy(ctx context.Context, candidate entities.DelegateCandidate) error
	GetCandidacy(ctx context.Context, candidateID string) (entities.DelegateCandidate, error)
	GetCandidacyByStudent(ctx context.Context, studentID string) (entities.DelegateCandidate, bool, error)
	ReviewCandidacy(ctx context.Context, candidateID string, review entities.CandidacyReview) (entities.DelegateCandidate, error)
	ListCandidacies(ctx context.Context, filter CandidacyFilter) ([]entities.DelegateCandidate, error)
}

// DelegateVoteRepository writes a vote and its candidate counter as one
// atomic unit and exposes a consistent snapshot for the tally.
type DelegateVoteRepository interface {
	CastDelegateVote(ctx context.Context, vote entities.DelegateVote) (entities.DelegateCandidate, error)
	GetDelegateVoteByVoter(ctx context.Context, voterStudentID string) (entities.DelegateVote, bool, error)
	SnapshotCandidateTallies(ctx context.Context) ([]entities.CandidateTally, error)
}

type ElectedDelegateRepository interface {
	ReplaceElectedDelegates(ctx context.Context, delegates []entities.ElectedDelegate) error
	ListElectedDelegates(ctx context.Context) ([]entities.ElectedDelegate, error)
	GetElectedDelegateByDepartment(ctx context.Context, key entities.DepartmentKey) (entities.ElectedDelegate, bool, error)
	IsElectedDelegate(ctx context.Context, studentID string) (bool, error)
}

type PartyRepository interface {
	CreateParty(ctx context.Context, party entities.Party) error
	GetParty(ctx context.Context, partyID string) (entities.Party, error)
	ListParties(ctx context.Context) ([]entities.Party, error)
	FindActivePartyByName(ctx context.Context, name string) (entities.Party, bool, error)
	// FindSeatedNominees maps each given student already seated in an active
	// party to that party's id.
	FindSeatedNominees(ctx context.Context, studentIDs []string) (map[string]string, error)
}

type CouncilVoteRepository interface {
	CastCouncilBallot(ctx context.Context, votes []entities.CouncilVote) error
	ListCouncilVotesByDelegate(ctx context.Context, delegateStudentID string) ([]entities.CouncilVote, error)
	ListCouncilVotes(ctx context.Context) ([]entities.CouncilVote, error)
}

type ResetSummary struct {
	DelegateVotesDeleted    int64
	CouncilVotesDeleted     int64
	CandidatesDeleted       int64
	ElectedDelegatesDeleted int64
	PartiesDeleted          int64
	Phase                   entities.Phase
}

// ResetRepository clears election state and appends the fresh phase in one
// atomic unit.
type ResetRepository interface {
	ResetElection(ctx context.Context, phase entities.Phase) (ResetSummary, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
