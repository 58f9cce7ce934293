package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"kura/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	"kura/contexts/identity-access/authorization-service/domain/services"
	"kura/contexts/identity-access/authorization-service/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing repository and cache ports.
// It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	assignments map[string]entities.RoleAssignment
	cache       map[string]cacheEntry
	now         func() time.Time
}

type cacheEntry struct {
	Permissions []string
	ExpiresAt   time.Time
}

func NewStore() *Store {
	return &Store{
		assignments: make(map[string]entities.RoleAssignment),
		cache:       make(map[string]cacheEntry),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the time source; tests use it to expire grants.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) ListEffectivePermissions(_ context.Context, userID string, now time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return services.EffectivePermissions(s.userAssignmentsLocked(userID), now), nil
}

func (s *Store) ListUserRoles(_ context.Context, userID string) ([]entities.RoleAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.userAssignmentsLocked(userID)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].AssignedAt.Equal(items[j].AssignedAt) {
			return items[i].AssignedAt.After(items[j].AssignedAt)
		}
		return items[i].AssignmentID < items[j].AssignmentID
	})
	return items, nil
}

func (s *Store) GrantRole(_ context.Context, input ports.GrantRoleInput) (entities.RoleAssignment, error) {
	role, ok := entities.LookupRole(input.RoleID)
	if !ok {
		return entities.RoleAssignment{}, domainerrors.ErrRoleNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.UserID == input.UserID && existing.RoleID == input.RoleID && existing.Effective(input.AssignedAt) {
			return entities.RoleAssignment{}, domainerrors.ErrRoleAlreadyAssigned
		}
	}
	assignment := entities.RoleAssignment{
		AssignmentID: input.AssignmentID,
		UserID:       input.UserID,
		RoleID:       role.RoleID,
		RoleName:     role.RoleName,
		AssignedBy:   input.AdminID,
		Reason:       input.Reason,
		AssignedAt:   input.AssignedAt,
		ExpiresAt:    copyTime(input.ExpiresAt),
		IsActive:     true,
	}
	s.assignments[assignment.AssignmentID] = assignment
	delete(s.cache, input.UserID)
	return cloneAssignment(assignment), nil
}

func (s *Store) RevokeRole(_ context.Context, input ports.RevokeRoleInput) (entities.RoleAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.assignments {
		if existing.UserID != input.UserID || existing.RoleID != input.RoleID || !existing.Effective(input.RevokedAt) {
			continue
		}
		revokedAt := input.RevokedAt
		existing.IsActive = false
		existing.RevokedAt = &revokedAt
		s.assignments[id] = existing
		delete(s.cache, input.UserID)
		return cloneAssignment(existing), nil
	}
	return entities.RoleAssignment{}, domainerrors.ErrRoleNotAssigned
}

func (s *Store) Get(_ context.Context, userID string, now time.Time) ([]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[userID]
	if !ok || !entry.ExpiresAt.After(now) {
		return nil, false, nil
	}
	return append([]string(nil), entry.Permissions...), true, nil
}

func (s *Store) Set(_ context.Context, userID string, permissions []string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[userID] = cacheEntry{
		Permissions: append([]string(nil), permissions...),
		ExpiresAt:   expiresAt,
	}
	return nil
}

func (s *Store) Invalidate(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, userID)
	return nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) userAssignmentsLocked(userID string) []entities.RoleAssignment {
	items := make([]entities.RoleAssignment, 0)
	for _, assignment := range s.assignments {
		if assignment.UserID == userID {
			items = append(items, cloneAssignment(assignment))
		}
	}
	return items
}

func cloneAssignment(in entities.RoleAssignment) entities.RoleAssignment {
	in.ExpiresAt = copyTime(in.ExpiresAt)
	in.RevokedAt = copyTime(in.RevokedAt)
	return in
}

func copyTime(in *time.Time) *time.Time {
	if in == nil {
		return nil
	}
	value := *in
	return &value
}

var (
	_ ports.Repository      = (*Store)(nil)
	_ ports.PermissionCache = (*Store)(nil)
	_ ports.Clock           = (*Store)(nil)
	_ ports.IDGenerator     = (*Store)(nil)
)
