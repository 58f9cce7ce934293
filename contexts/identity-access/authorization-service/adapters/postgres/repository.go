package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kura/contexts/identity-access/authorization-service/domain/entities"
	domainerrors "kura/contexts/identity-access/authorization-service/domain/errors"
	"kura/contexts/identity-access/authorization-service/domain/services"
	"kura/contexts/identity-access/authorization-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type roleAssignmentModel struct {
	ID         string     `gorm:"column:id;primaryKey"`
	UserID     string     `gorm:"column:user_id"`
	RoleID     string     `gorm:"column:role_id"`
	RoleName   string     `gorm:"column:role_name"`
	AssignedBy string     `gorm:"column:assigned_by"`
	Reason     string     `gorm:"column:reason"`
	AssignedAt time.Time  `gorm:"column:assigned_at"`
	ExpiresAt  *time.Time `gorm:"column:expires_at"`
	IsActive   bool       `gorm:"column:is_active"`
	RevokedAt  *time.Time `gorm:"column:revoked_at"`
}

func (roleAssignmentModel) TableName() string {
	return "role_assignments"
}

func (m roleAssignmentModel) toEntity() entities.RoleAssignment {
	return entities.RoleAssignment{
		AssignmentID: m.ID,
		UserID:       m.UserID,
		RoleID:       m.RoleID,
		RoleName:     m.RoleName,
		AssignedBy:   m.AssignedBy,
		Reason:       m.Reason,
		AssignedAt:   m.AssignedAt.UTC(),
		ExpiresAt:    utcPtr(m.ExpiresAt),
		IsActive:     m.IsActive,
		RevokedAt:    utcPtr(m.RevokedAt),
	}
}

// Repository persists role assignments with gorm. Role permissions come from
// the in-code catalog, so only assignments live in the database.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) ListEffectivePermissions(ctx context.Context, userID string, now time.Time) ([]string, error) {
	var rows []roleAssignmentModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active", userID).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("authz_repo_list_permissions_failed", err, "user_id", userID)
	}
	assignments := make([]entities.RoleAssignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toEntity())
	}
	return services.EffectivePermissions(assignments, now), nil
}

func (r *Repository) ListUserRoles(ctx context.Context, userID string) ([]entities.RoleAssignment, error) {
	var rows []roleAssignmentModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("assigned_at DESC").
		Order("id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("authz_repo_list_roles_failed", err, "user_id", userID)
	}
	items := make([]entities.RoleAssignment, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GrantRole(ctx context.Context, input ports.GrantRoleInput) (entities.RoleAssignment, error) {
	role, ok := entities.LookupRole(input.RoleID)
	if !ok {
		return entities.RoleAssignment{}, domainerrors.ErrRoleNotFound
	}
	row := roleAssignmentModel{
		ID:         input.AssignmentID,
		UserID:     input.UserID,
		RoleID:     role.RoleID,
		RoleName:   role.RoleName,
		AssignedBy: input.AdminID,
		Reason:     input.Reason,
		AssignedAt: input.AssignedAt,
		ExpiresAt:  input.ExpiresAt,
		IsActive:   true,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lapsed grants still hold the active index slot until retired here.
		if err := tx.Model(&roleAssignmentModel{}).
			Where("user_id = ? AND role_id = ? AND is_active AND expires_at IS NOT NULL AND expires_at <= ?",
				input.UserID, input.RoleID, input.AssignedAt).
			Update("is_active", false).
			Error; err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		if isActiveAssignmentConflict(err) {
			return entities.RoleAssignment{}, domainerrors.ErrRoleAlreadyAssigned
		}
		return entities.RoleAssignment{}, r.logError("authz_repo_grant_role_failed", err,
			"user_id", input.UserID,
			"role_id", input.RoleID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) RevokeRole(ctx context.Context, input ports.RevokeRoleInput) (entities.RoleAssignment, error) {
	var row roleAssignmentModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND role_id = ? AND is_active AND (expires_at IS NULL OR expires_at > ?)",
				input.UserID, input.RoleID, input.RevokedAt).
			Take(&row).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrRoleNotAssigned
			}
			return err
		}
		revokedAt := input.RevokedAt
		row.IsActive = false
		row.RevokedAt = &revokedAt
		return tx.Model(&roleAssignmentModel{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{
				"is_active":  false,
				"revoked_at": revokedAt,
			}).
			Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrRoleNotAssigned) {
			return entities.RoleAssignment{}, err
		}
		return entities.RoleAssignment{}, r.logError("authz_repo_revoke_role_failed", err,
			"user_id", input.UserID,
			"role_id", input.RoleID,
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "identity-access/authorization-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("authorization repository operation failed", fields...)
	return fmt.Errorf("%w: %v", domainerrors.ErrStoreUnavailable, err)
}

func isActiveAssignmentConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == constraintActiveAssignment
}

func utcPtr(in *time.Time) *time.Time {
	if in == nil {
		return nil
	}
	value := in.UTC()
	return &value
}

var _ ports.Repository = (*Repository)(nil)
