package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid election input")
	ErrPhaseClosed        = errors.New("operation is not open in the current phase")
	ErrInvalidPhase       = errors.New("phase number must be between 0 and 6")
	ErrSkippedPhase       = errors.New("phase 3 cannot be set directly")
	ErrTerminalPhase      = errors.New("election has already ended")
	ErrPhaseConflict      = errors.New("phase changed concurrently")
	ErrNotFound           = errors.New("not found")
	ErrNotEligible        = errors.New("student does not meet the mean score requirement")
	ErrDuplicateCandidacy = errors.New("student already has a delegate candidacy")
	ErrAlreadyReviewed    = errors.New("candidacy has already been reviewed")
	ErrSelfVote           = errors.New("self voting is forbidden")
	ErrDepartmentMismatch = errors.New("candidate is not in the voter's department")
	ErrAlreadyVoted       = errors.New("vote has already been cast")
	ErrDuplicateName      = errors.New("party name is already taken")
	ErrIncompleteSlate    = errors.New("party slate must field seats of sizes 2, 2, 2 and 1")
	ErrDuplicateNominee   = errors.New("a nominee appears more than once in the slate")
	ErrDelegateConflict   = errors.New("elected delegates cannot be party nominees")
	ErrAlreadyAssigned    = errors.New("nominee already sits in another party")
	ErrNotDelegate        = errors.New("only elected delegates may vote for the council")
	ErrIncompleteBallot   = errors.New("ballot must cover slots 0 to 3 exactly once")
	ErrStoreUnavailable   = errors.New("election store unavailable")
)

// Specific not-found kinds; each also matches ErrNotFound.
var (
	ErrStudentNotFound   = fmt.Errorf("student %w", ErrNotFound)
	ErrCandidateNotFound = fmt.Errorf("delegate candidate %w", ErrNotFound)
	ErrPartyNotFound     = fmt.Errorf("party %w", ErrNotFound)
)
