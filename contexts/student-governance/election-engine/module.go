package electionengine

import (
	"log/slog"

	httpadapter "kura/contexts/student-governance/election-engine/adapters/http"
	"kura/contexts/student-governance/election-engine/adapters/memory"
	"kura/contexts/student-governance/election-engine/application/commands"
	"kura/contexts/student-governance/election-engine/application/queries"
	"kura/contexts/student-governance/election-engine/application/workers"
	"kura/contexts/student-governance/election-engine/domain/entities"
	"kura/contexts/student-governance/election-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Relay   workers.OutboxRelay
	Store   *memory.Store
}

type Dependencies struct {
	Students      ports.EligibilityStore
	Phases        ports.PhaseRepository
	Candidates    ports.CandidacyRepository
	DelegateVotes ports.DelegateVoteRepository
	Elected       ports.ElectedDelegateRepository
	Parties       ports.PartyRepository
	CouncilVotes  ports.CouncilVoteRepository
	Reset         ports.ResetRepository
	Outbox        ports.OutboxWriter
	OutboxReader  ports.OutboxRepository
	Publisher     ports.EventPublisher
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	tally := commands.DelegateTallyUseCase{
		Votes:    deps.DelegateVotes,
		Elected:  deps.Elected,
		Students: deps.Students,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Phases: commands.PhaseUseCase{
				Phases: deps.Phases,
				Tally:  tally,
				Outbox: deps.Outbox,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
			Candidacies: commands.CandidacyUseCase{
				Phases:     deps.Phases,
				Students:   deps.Students,
				Candidates: deps.Candidates,
				Outbox:     deps.Outbox,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			DelegateVotes: commands.DelegateVoteUseCase{
				Phases:     deps.Phases,
				Students:   deps.Students,
				Candidates: deps.Candidates,
				Votes:      deps.DelegateVotes,
				Clock:      deps.Clock,
				IDGen:      deps.IDGen,
				Logger:     deps.Logger,
			},
			Tally: tally,
			Parties: commands.PartyUseCase{
				Phases:   deps.Phases,
				Students: deps.Students,
				Elected:  deps.Elected,
				Parties:  deps.Parties,
				Outbox:   deps.Outbox,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			CouncilVotes: commands.CouncilVoteUseCase{
				Phases:  deps.Phases,
				Elected: deps.Elected,
				Parties: deps.Parties,
				Votes:   deps.CouncilVotes,
				Outbox:  deps.Outbox,
				Clock:   deps.Clock,
				IDGen:   deps.IDGen,
				Logger:  deps.Logger,
			},
			Reset: commands.ResetUseCase{
				Phases: deps.Phases,
				Reset:  deps.Reset,
				Outbox: deps.Outbox,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
			CandidacyQuery: queries.CandidacyQueryUseCase{
				Students:   deps.Students,
				Candidates: deps.Candidates,
			},
			DelegateResults: queries.DelegateResultsUseCase{
				Students: deps.Students,
				Votes:    deps.DelegateVotes,
				Elected:  deps.Elected,
			},
			PartyQuery: queries.PartyQueryUseCase{
				Parties: deps.Parties,
			},
			CouncilResults: queries.CouncilResultsUseCase{
				Students: deps.Students,
				Elected:  deps.Elected,
				Parties:  deps.Parties,
				Votes:    deps.CouncilVotes,
			},
			Logger: deps.Logger,
		},
		Relay: workers.OutboxRelay{
			Outbox:    deps.OutboxReader,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to one memory store seeded with the
// given student register.
func NewInMemoryModule(students []entities.Student, logger *slog.Logger) Module {
	store := memory.NewStore(students)
	module := NewModule(Dependencies{
		Students:      store,
		Phases:        store,
		Candidates:    store,
		DelegateVotes: store,
		Elected:       store,
		Parties:       store,
		CouncilVotes:  store,
		Reset:         store,
		Outbox:        store,
		OutboxReader:  store,
		Clock:         store,
		IDGen:         store,
		Logger:        logger,
	})
	module.Store = store
	return module
}
