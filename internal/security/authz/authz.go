// Package authz concentra los chequeos de permisos por rol.
// Los services llaman estos predicados antes de mutar estado.
package authz

import (
	"errors"

	"github.com/dropDatabas3/authkit/internal/domain/repository"
)

var ErrPermissionDenied = errors.New("permission denied")

// RequireRole falla salvo que actor tenga alguno de los roles dados.
// Admin pasa siempre.
func RequireRole(actor *repository.User, roles ...repository.Role) error {
	if actor == nil {
		return ErrPermissionDenied
	}
	if actor.IsAdmin() {
		return nil
	}
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return ErrPermissionDenied
}

// RequireAdmin atajo de RequireRole(actor, RoleAdmin).
func RequireAdmin(actor *repository.User) error {
	return RequireRole(actor, repository.RoleAdmin)
}

// CanAccessItem: dueño o admin.
func CanAccessItem(actor *repository.User, item *repository.Item) error {
	if actor == nil || item == nil {
		return ErrPermissionDenied
	}
	if actor.IsAdmin() || item.OwnerID == actor.ID {
		return nil
	}
	return ErrPermissionDenied
}

// CanReadUser: uno mismo o admin.
func CanReadUser(actor *repository.User, targetID string) error {
	if actor == nil {
		return ErrPermissionDenied
	}
	if actor.IsAdmin() || actor.ID == targetID {
		return nil
	}
	return ErrPermissionDenied
}

// CanManageUser: sólo admin, y nunca sobre sí mismo.
func CanManageUser(actor *repository.User, targetID string) error {
	if actor == nil || !actor.IsAdmin() {
		return ErrPermissionDenied
	}
	if actor.ID == targetID {
		return ErrPermissionDenied
	}
	return nil
}
