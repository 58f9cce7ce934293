package entities

import "time"

type PhaseNumber int

const (
	PhaseRegistration          PhaseNumber = 0
	PhaseCandidateRegistration PhaseNumber = 1
	PhaseDelegateVoting        PhaseNumber = 2
	PhaseNomineeRegistration   PhaseNumber = 3
	PhasePartyRegistration     PhaseNumber = 4
	PhaseCouncilVoting         PhaseNumber = 5
	PhaseEnded                 PhaseNumber = 6
)

const (
	FirstPhase = PhaseRegistration
	LastPhase  = PhaseEnded
)

var phaseNames = map[PhaseNumber]string{
	PhaseRegistration:          "Registration",
	PhaseCandidateRegistration: "Candidate Registration",
	PhaseDelegateVoting:        "Delegate Voting",
	PhaseNomineeRegistration:   "Nominee Registration",
	PhasePartyRegistration:     "Party Registration",
	PhaseCouncilVoting:         "Council Voting",
	PhaseEnded:                 "Ended",
}

func (n PhaseNumber) Valid() bool {
	return n >= FirstPhase && n <= LastPhase
}

func (n PhaseNumber) Name() string {
	if name, ok := phaseNames[n]; ok {
		return name
	}
	return "Unknown"
}

// Next returns the phase reached by automatic advancement. Nominee
// Registration is never entered automatically.
func (n PhaseNumber) Next() PhaseNumber {
	next := n + 1
	if next == PhaseNomineeRegistration {
		next = PhasePartyRegistration
	}
	return next
}

// Phase is one entry of the append-only phase log. Version increases by one
// per entry and the highest version is the current phase.
type Phase struct {
	Version   int64
	Number    PhaseNumber
	Name      string
	ChangedBy string
	Reason    string
	StartedAt time.Time
}

type PhaseChangeReason string

const (
	PhaseChangeInitialized PhaseChangeReason = "initialized"
	PhaseChangeAdvanced    PhaseChangeReason = "advanced"
	PhaseChangeSet         PhaseChangeReason = "set"
	PhaseChangeReset       PhaseChangeReason = "reset"
)

func NewPhase(version int64, number PhaseNumber, changedBy string, reason PhaseChangeReason, startedAt time.Time) Phase {
	return Phase{
		Version:   version,
		Number:    number,
		Name:      number.Name(),
		ChangedBy: changedBy,
		Reason:    string(reason),
		StartedAt: startedAt.UTC(),
	}
}
