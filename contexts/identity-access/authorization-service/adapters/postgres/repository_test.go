package postgresadapter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestActiveAssignmentConflictDetection(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: constraintActiveAssignment}
	assert.True(t, isActiveAssignmentConflict(dup))
	assert.True(t, isActiveAssignmentConflict(fmt.Errorf("insert: %w", dup)))

	assert.False(t, isActiveAssignmentConflict(&pgconn.PgError{Code: "23505", ConstraintName: "role_assignments_pkey"}))
	assert.False(t, isActiveAssignmentConflict(errors.New("connection reset")))
}

func TestSchemaDeclaresActiveAssignmentIndex(t *testing.T) {
	joined := strings.Join(schemaStatements, "\n")
	assert.Contains(t, joined, constraintActiveAssignment)
	assert.Contains(t, joined, "WHERE is_active")
}
