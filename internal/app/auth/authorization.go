package auth

import (
	"github.com/ucsb-cs156/crudapi/internal/app/models"
)

// Operation is one of the generic CRUD operations an entity route exposes.
type Operation string

const (
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// OperationRoles is the role a caller must hold for each operation.
// The table is identical for every entity type.
var OperationRoles = map[Operation]models.Role{
	OpList:   models.RoleUser,
	OpGet:    models.RoleUser,
	OpCreate: models.RoleAdmin,
	OpUpdate: models.RoleAdmin,
	OpDelete: models.RoleAdmin,
}

// RequiredRole returns the role op demands. Unknown operations require admin.
func RequiredRole(op Operation) models.Role {
	if role, ok := OperationRoles[op]; ok {
		return role
	}
	return models.RoleAdmin
}

// IsAuthorized reports whether a caller holding callerRoles may perform op.
// A caller without any role (unauthenticated) is never authorized.
func IsAuthorized(op Operation, callerRoles []models.Role) bool {
	if len(callerRoles) == 0 {
		return false
	}
	return models.HasRole(callerRoles, RequiredRole(op))
}
