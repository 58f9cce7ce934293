package queries

import (
	"context"
	"strings"

	"kura/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	"kura/contexts/identity-access/authorization-service/ports"
)

type ListUserRolesUseCase struct {
	Repository ports.Repository
}

// Execute returns active and historical assignments, newest first.
func (u ListUserRolesUseCase) Execute(ctx context.Context, userID string) ([]entities.RoleAssignment, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domainerrors.ErrInvalidUserID
	}
	return u.Repository.ListUserRoles(ctx, userID)
}

// ListRolesUseCase exposes the fixed role catalog.
type ListRolesUseCase struct{}

func (ListRolesUseCase) Execute() []entities.Role {
	return entities.Catalog()
}
