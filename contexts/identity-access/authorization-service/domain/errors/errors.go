package errors

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidPermission   = errors.New("invalid permission")
	ErrInvalidUserID       = errors.New("invalid user id")
	ErrInvalidRoleID       = errors.New("invalid role id")
	ErrInvalidAdminID      = errors.New("invalid admin id")
	ErrRoleNotFound        = errors.New("role not found")
	ErrRoleAlreadyAssigned = errors.New("role already assigned")
	ErrRoleNotAssigned     = errors.New("role not assigned")
	ErrForbidden           = errors.New("forbidden")
	ErrStoreUnavailable    = errors.New("authorization store unavailable")
)
