package authorization

import (
	"log/slog"
	"time"

	httpadapter "kura/contexts/identity-access/authorization-service/adapters/http"
	"kura/contexts/identity-access/authorization-service/adapters/memory"
	"kura/contexts/identity-access/authorization-service/application/commands"
	"kura/contexts/identity-access/authorization-service/application/queries"
	"kura/contexts/identity-access/authorization-service/ports"
)

// Module exposes the role and permission surface to the runtime. Store is
// only set by NewInMemoryModule.
type Module struct {
	Handler    httpadapter.Handler
	SeedAdmins commands.SeedAdminsUseCase
	Store      *memory.Store
}

type Dependencies struct {
	Repository      ports.Repository
	PermissionCache ports.PermissionCache
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	// PermissionCacheTTL bounds how long a revoke can go unseen by another
	// process; zero means 30s.
	PermissionCacheTTL time.Duration
	Logger             *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			CheckPermission: queries.CheckPermissionUseCase{
				Repository:         deps.Repository,
				PermissionCache:    deps.PermissionCache,
				Clock:              deps.Clock,
				PermissionCacheTTL: deps.PermissionCacheTTL,
				Logger:             deps.Logger,
			},
			ListUserRoles: queries.ListUserRolesUseCase{Repository: deps.Repository},
			GrantRole: commands.GrantRoleUseCase{
				Repository:      deps.Repository,
				PermissionCache: deps.PermissionCache,
				Clock:           deps.Clock,
				IDGenerator:     deps.IDGenerator,
				Logger:          deps.Logger,
			},
			RevokeRole: commands.RevokeRoleUseCase{
				Repository:      deps.Repository,
				PermissionCache: deps.PermissionCache,
				Clock:           deps.Clock,
				Logger:          deps.Logger,
			},
			Logger: deps.Logger,
		},
		SeedAdmins: commands.SeedAdminsUseCase{
			Repository:      deps.Repository,
			PermissionCache: deps.PermissionCache,
			Clock:           deps.Clock,
			IDGenerator:     deps.IDGenerator,
			Logger:          deps.Logger,
		},
	}
}

// NewInMemoryModule backs every port with one memory store.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:      store,
		PermissionCache: store,
		Clock:           store,
		IDGenerator:     store,
		Logger:          logger,
	})
	module.Store = store
	return module
}
