package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"kura/contexts/student-governance/election-engine/domain/entities"
	domainerrors "kura/contexts/student-governance/election-engine/domain/errors"
	"kura/contexts/student-governance/election-engine/ports"

	"github.com/google/uuid"
)

// outboxEntry is one relayed event. The log slice keeps append order, which
// is the order the relay must publish in.
type outboxEntry struct {
	message     ports.OutboxMessage
	publishedAt time.Time
}

// Store keeps the whole election in process memory. Every uniqueness rule is
// checked and written under the same lock.
type Store struct {
	mu sync.RWMutex

	students        map[string]entities.Student
	studentsByRegNo map[string]string

	phases             []entities.Phase
	candidates         map[string]entities.DelegateCandidate
	candidateByStudent map[string]string
	delegateVotes      map[string]entities.DelegateVote
	elected            map[entities.DepartmentKey]entities.ElectedDelegate
	parties            map[string]entities.Party
	seats              map[string]string
	councilVotes       map[string][]entities.CouncilVote

	outboxLog   []outboxEntry
	outboxIndex map[string]int

	clock func() time.Time
}

func NewStore(students []entities.Student) *Store {
	store := &Store{
		students:           make(map[string]entities.Student, len(students)),
		studentsByRegNo:    make(map[string]string, len(students)),
		candidates:         make(map[string]entities.DelegateCandidate),
		candidateByStudent: make(map[string]string),
		delegateVotes:      make(map[string]entities.DelegateVote),
		elected:            make(map[entities.DepartmentKey]entities.ElectedDelegate),
		parties:            make(map[string]entities.Party),
		seats:              make(map[string]string),
		councilVotes:       make(map[string][]entities.CouncilVote),
		outboxIndex:        make(map[string]int),
	}
	for _, student := range students {
		store.putStudent(student)
	}
	return store
}

func (s *Store) SetStudent(student entities.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putStudent(student)
}

// SetClock pins the store clock; nil restores wall time.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

func (s *Store) putStudent(student entities.Student) {
	student.StudentID = strings.TrimSpace(student.StudentID)
	student.RegistrationNumber = strings.TrimSpace(student.RegistrationNumber)
	student.SchoolID = strings.TrimSpace(student.SchoolID)
	student.DepartmentID = strings.TrimSpace(student.DepartmentID)
	s.students[student.StudentID] = student
	if student.RegistrationNumber != "" {
		s.studentsByRegNo[student.RegistrationNumber] = student.StudentID
	}
}

func (s *Store) FindStudent(_ context.Context, studentID string) (entities.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[strings.TrimSpace(studentID)]
	if !ok {
		return entities.Student{}, domainerrors.ErrStudentNotFound
	}
	return student, nil
}

func (s *Store) FindStudentByRegistrationNumber(_ context.Context, registrationNumber string) (entities.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	studentID, ok := s.studentsByRegNo[strings.TrimSpace(registrationNumber)]
	if !ok {
		return entities.Student{}, domainerrors.ErrStudentNotFound
	}
	return s.students[studentID], nil
}

func (s *Store) CurrentPhase(_ context.Context) (entities.Phase, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.phases) == 0 {
		return entities.Phase{}, false, nil
	}
	return s.phases[len(s.phases)-1], true, nil
}

func (s *Store) AppendPhase(_ context.Context, phase entities.Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendPhaseLocked(phase)
}

func (s *Store) appendPhaseLocked(phase entities.Phase) error {
	var latest int64
	if len(s.phases) > 0 {
		latest = s.phases[len(s.phases)-1].Version
	}
	if phase.Version != latest+1 {
		return domainerrors.ErrPhaseConflict
	}
	s.phases = append(s.phases, phase)
	return nil
}

func (s *Store) ListPhases(_ context.Context) ([]entities.Phase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Phase, len(s.phases))
	copy(items, s.phases)
	return items, nil
}

func (s *Store) CreateCandidacy(_ context.Context, candidate entities.DelegateCandidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.candidateByStudent[candidate.StudentID]; exists {
		return domainerrors.ErrDuplicateCandidacy
	}
	s.candidates[candidate.CandidateID] = candidate
	s.candidateByStudent[candidate.StudentID] = candidate.CandidateID
	return nil
}

func (s *Store) GetCandidacy(_ context.Context, candidateID string) (entities.DelegateCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	if !ok {
		return entities.DelegateCandidate{}, domainerrors.ErrCandidateNotFound
	}
	return candidate, nil
}

func (s *Store) GetCandidacyByStudent(_ context.Context, studentID string) (entities.DelegateCandidate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidateID, ok := s.candidateByStudent[strings.TrimSpace(studentID)]
	if !ok {
		return entities.DelegateCandidate{}, false, nil
	}
	return s.candidates[candidateID], true, nil
}

func (s *Store) ReviewCandidacy(_ context.Context, candidateID string, review entities.CandidacyReview) (entities.DelegateCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	candidate, ok := s.candidates[strings.TrimSpace(candidateID)]
	if !ok {
		return entities.DelegateCandidate{}, domainerrors.ErrCandidateNotFound
	}
	if candidate.Status != entities.CandidacyStatusPending {
		return entities.DelegateCandidate{}, domainerrors.ErrAlreadyReviewed
	}
	reviewedAt := review.ReviewedAt.UTC()
	candidate.Status = review.Decision
	candidate.AdminComment = review.Comment
	candidate.ReviewedBy = review.ReviewedBy
	candidate.ReviewedAt = &reviewedAt
	candidate.UpdatedAt = reviewedAt
	s.candidates[candidate.CandidateID] = candidate
	return candidate, nil
}

func (s *Store) ListCandidacies(_ context.Context, filter ports.CandidacyFilter) ([]entities.DelegateCandidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.DelegateCandidate, 0, len(s.candidates))
	for _, candidate := range s.candidates {
		if filter.Status != "" && candidate.Status != filter.Status {
			continue
		}
		if filter.SchoolID != "" && candidate.SchoolID != filter.SchoolID {
			continue
		}
		if filter.DepartmentID != "" && candidate.DepartmentID != filter.DepartmentID {
			continue
		}
		items = append(items, candidate)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			if filter.NewestFirst {
				return items[i].CreatedAt.After(items[j].CreatedAt)
			}
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].CandidateID < items[j].CandidateID
	})
	return items, nil
}

func (s *Store) CastDelegateVote(_ context.Context, vote entities.DelegateVote) (entities.DelegateCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, voted := s.delegateVotes[vote.VoterStudentID]; voted {
		return entities.DelegateCandidate{}, domainerrors.ErrAlreadyVoted
	}
	candidate, ok := s.candidates[vote.CandidateID]
	if !ok || !candidate.Approved() {
		return entities.DelegateCandidate{}, domainerrors.ErrCandidateNotFound
	}
	candidate.VoteCount++
	candidate.UpdatedAt = vote.CreatedAt
	s.candidates[candidate.CandidateID] = candidate
	s.delegateVotes[vote.VoterStudentID] = vote
	return candidate, nil
}

func (s *Store) GetDelegateVoteByVoter(_ context.Context, voterStudentID string) (entities.DelegateVote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.delegateVotes[strings.TrimSpace(voterStudentID)]
	return vote, ok, nil
}

// SnapshotCandidateTallies counts vote rows per approved candidate under one
// read lock.
func (s *Store) SnapshotCandidateTallies(_ context.Context) ([]entities.CandidateTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int, len(s.candidates))
	for _, vote := range s.delegateVotes {
		counts[vote.CandidateID]++
	}
	items := make([]entities.CandidateTally, 0, len(s.candidates))
	for _, candidate := range s.candidates {
		if !candidate.Approved() {
			continue
		}
		items = append(items, entities.CandidateTally{
			CandidateID:  candidate.CandidateID,
			StudentID:    candidate.StudentID,
			SchoolID:     candidate.SchoolID,
			DepartmentID: candidate.DepartmentID,
			Votes:        counts[candidate.CandidateID],
			RegisteredAt: candidate.CreatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CandidateID < items[j].CandidateID })
	return items, nil
}

func (s *Store) ReplaceElectedDelegates(_ context.Context, delegates []entities.ElectedDelegate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	elected := make(map[entities.DepartmentKey]entities.ElectedDelegate, len(delegates))
	for _, delegate := range delegates {
		elected[delegate.Department()] = delegate
	}
	s.elected = elected
	return nil
}

func (s *Store) ListElectedDelegates(_ context.Context) ([]entities.ElectedDelegate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.ElectedDelegate, 0, len(s.elected))
	for _, delegate := range s.elected {
		items = append(items, delegate)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Department().Less(items[j].Department()) })
	return items, nil
}

func (s *Store) GetElectedDelegateByDepartment(_ context.Context, key entities.DepartmentKey) (entities.ElectedDelegate, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	delegate, ok := s.elected[key]
	return delegate, ok, nil
}

func (s *Store) IsElectedDelegate(_ context.Context, studentID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	studentID = strings.TrimSpace(studentID)
	for _, delegate := range s.elected {
		if delegate.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateParty(_ context.Context, party entities.Party) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if party.IsActive {
		for _, existing := range s.parties {
			if existing.IsActive && strings.EqualFold(existing.Name, party.Name) {
				return domainerrors.ErrDuplicateName
			}
		}
	}
	nominees := party.NomineeIDs()
	for _, studentID := range nominees {
		if _, seated := s.seats[studentID]; seated {
			return domainerrors.ErrAlreadyAssigned
		}
	}
	for _, studentID := range nominees {
		s.seats[studentID] = party.PartyID
	}
	s.parties[party.PartyID] = cloneParty(party)
	return nil
}

func (s *Store) GetParty(_ context.Context, partyID string) (entities.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	party, ok := s.parties[strings.TrimSpace(partyID)]
	if !ok {
		return entities.Party{}, domainerrors.ErrPartyNotFound
	}
	return cloneParty(party), nil
}

func (s *Store) ListParties(_ context.Context) ([]entities.Party, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Party, 0, len(s.parties))
	for _, party := range s.parties {
		if !party.IsActive {
			continue
		}
		items = append(items, cloneParty(party))
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].PartyID < items[j].PartyID
	})
	return items, nil
}

func (s *Store) FindActivePartyByName(_ context.Context, name string) (entities.Party, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name = strings.TrimSpace(name)
	for _, party := range s.parties {
		if party.IsActive && strings.EqualFold(party.Name, name) {
			return cloneParty(party), true, nil
		}
	}
	return entities.Party{}, false, nil
}

func (s *Store) FindSeatedNominees(_ context.Context, studentIDs []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seated := make(map[string]string)
	for _, studentID := range studentIDs {
		if partyID, ok := s.seats[strings.TrimSpace(studentID)]; ok {
			seated[studentID] = partyID
		}
	}
	return seated, nil
}

// CastCouncilBallot stores all slot votes or none of them.
func (s *Store) CastCouncilBallot(_ context.Context, votes []entities.CouncilVote) error {
	if len(votes) == 0 {
		return domainerrors.ErrIncompleteBallot
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delegateID := votes[0].DelegateStudentID
	if len(s.councilVotes[delegateID]) > 0 {
		return domainerrors.ErrAlreadyVoted
	}
	seen := make(map[int]struct{}, len(votes))
	for _, vote := range votes {
		if vote.DelegateStudentID != delegateID {
			return domainerrors.ErrInvalidInput
		}
		if _, dup := seen[vote.SlotID]; dup {
			return domainerrors.ErrAlreadyVoted
		}
		seen[vote.SlotID] = struct{}{}
		party, ok := s.parties[vote.PartyID]
		if !ok || !party.IsActive {
			return domainerrors.ErrPartyNotFound
		}
	}
	items := make([]entities.CouncilVote, len(votes))
	copy(items, votes)
	s.councilVotes[delegateID] = items
	return nil
}

func (s *Store) ListCouncilVotesByDelegate(_ context.Context, delegateStudentID string) ([]entities.CouncilVote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	votes := s.councilVotes[strings.TrimSpace(delegateStudentID)]
	items := make([]entities.CouncilVote, len(votes))
	copy(items, votes)
	return items, nil
}

func (s *Store) ListCouncilVotes(_ context.Context) ([]entities.CouncilVote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.CouncilVote, 0, len(s.councilVotes)*entities.SlotCount)
	for _, votes := range s.councilVotes {
		items = append(items, votes...)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].DelegateStudentID != items[j].DelegateStudentID {
			return items[i].DelegateStudentID < items[j].DelegateStudentID
		}
		return items[i].SlotID < items[j].SlotID
	})
	return items, nil
}

// ResetElection clears every election table and appends the reset phase.
// Students, the phase history and the outbox survive.
func (s *Store) ResetElection(_ context.Context, phase entities.Phase) (ports.ResetSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.appendPhaseLocked(phase); err != nil {
		return ports.ResetSummary{}, err
	}

	var councilVotes int64
	for _, votes := range s.councilVotes {
		councilVotes += int64(len(votes))
	}
	summary := ports.ResetSummary{
		DelegateVotesDeleted:    int64(len(s.delegateVotes)),
		CouncilVotesDeleted:     councilVotes,
		CandidatesDeleted:       int64(len(s.candidates)),
		ElectedDelegatesDeleted: int64(len(s.elected)),
		PartiesDeleted:          int64(len(s.parties)),
		Phase:                   phase,
	}

	s.candidates = make(map[string]entities.DelegateCandidate)
	s.candidateByStudent = make(map[string]string)
	s.delegateVotes = make(map[string]entities.DelegateVote)
	s.elected = make(map[entities.DepartmentKey]entities.ElectedDelegate)
	s.parties = make(map[string]entities.Party)
	s.seats = make(map[string]string)
	s.councilVotes = make(map[string][]entities.CouncilVote)
	return summary, nil
}

// AppendOutbox records an event once per event id. Replaying an id with the
// same envelope is a no-op; replaying it with a different one is rejected.
func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	eventID := strings.TrimSpace(envelope.EventID)
	if eventID == "" {
		eventID = uuid.NewString()
	}
	if at, seen := s.outboxIndex[eventID]; seen {
		if bytes.Equal(s.outboxLog[at].message.Payload, payload) {
			return nil
		}
		return domainerrors.ErrInvalidInput
	}

	createdAt := envelope.OccurredAt
	if createdAt.IsZero() {
		createdAt = s.nowLocked()
	}
	s.outboxIndex[eventID] = len(s.outboxLog)
	s.outboxLog = append(s.outboxLog, outboxEntry{message: ports.OutboxMessage{
		OutboxID:     eventID,
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		CreatedAt:    createdAt.UTC(),
	}})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	pending := make([]ports.OutboxMessage, 0, min(limit, len(s.outboxLog)))
	for _, entry := range s.outboxLog {
		if len(pending) == limit {
			break
		}
		if entry.publishedAt.IsZero() {
			pending = append(pending, entry.message)
		}
	}
	return pending, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.outboxIndex[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrNotFound
	}
	if publishedAt.IsZero() {
		publishedAt = s.nowLocked()
	}
	s.outboxLog[at].publishedAt = publishedAt.UTC()
	return nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	clock := s.clock
	s.mu.RUnlock()
	if clock != nil {
		return clock().UTC()
	}
	return time.Now().UTC()
}

// nowLocked reads the clock while s.mu is already held.
func (s *Store) nowLocked() time.Time {
	if s.clock != nil {
		return s.clock().UTC()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneParty(party entities.Party) entities.Party {
	cloned := party
	for slotID, seats := range party.Slots {
		cloned.Slots[slotID] = append([]entities.Seat(nil), seats...)
	}
	return cloned
}

var (
	_ ports.EligibilityStore          = (*Store)(nil)
	_ ports.PhaseRepository           = (*Store)(nil)
	_ ports.CandidacyRepository       = (*Store)(nil)
	_ ports.DelegateVoteRepository    = (*Store)(nil)
	_ ports.ElectedDelegateRepository = (*Store)(nil)
	_ ports.PartyRepository           = (*Store)(nil)
	_ ports.CouncilVoteRepository     = (*Store)(nil)
	_ ports.ResetRepository           = (*Store)(nil)
	_ ports.OutboxWriter              = (*Store)(nil)
	_ ports.OutboxRepository          = (*Store)(nil)
	_ ports.Clock                     = (*Store)(nil)
	_ ports.IDGenerator               = (*Store)(nil)
)
