// Package authz implements the role hierarchy and the guards layered on top
// of it for moderation actions.
package authz

import (
	"errors"

	"shayarihub/internal/models"
)

var (
	ErrUnauthenticated  = models.NewUnauthorizedError("Authentication required")
	ErrBanned           = models.NewForbiddenError("banned")
	ErrInsufficientRank = models.NewForbiddenError("insufficient permissions")
	ErrSelfTarget       = models.NewForbiddenError("cannot modify own account")
	ErrPromotion        = models.NewForbiddenError("only super admin may promote")
	ErrRoleChange       = models.NewForbiddenError("only super admin may change roles")
	ErrInvalidRole      = models.NewValidationError("Invalid role")
)

var ranks = map[models.Role]int{
	models.RoleUser:       0,
	models.RoleAdmin:      1,
	models.RoleSuperAdmin: 2,
}

// Rank returns the position of role in the hierarchy. Unknown roles rank 0.
func Rank(role models.Role) int {
	return ranks[role]
}

// ParseRole accepts exactly the three known role names.
func ParseRole(s string) (models.Role, bool) {
	role := models.Role(s)
	_, ok := ranks[role]
	return role, ok
}

// Authorize allows iff actual ranks at least as high as required.
func Authorize(actual, required models.Role) error {
	if Rank(actual) >= Rank(required) {
		return nil
	}
	return ErrInsufficientRank
}

// Actor is the caller of an operation as resolved from the store for the
// current request.
type Actor struct {
	ID       uint
	Role     models.Role
	IsActive bool
}

// ActorFromUser builds an Actor from a freshly loaded user record.
func ActorFromUser(u *models.User) *Actor {
	if u == nil {
		return nil
	}
	return &Actor{ID: u.ID, Role: u.Role, IsActive: u.IsActive}
}

// Require runs the account checks followed by the rank comparison.
func Require(actor *Actor, required models.Role) error {
	if actor == nil || actor.ID == 0 {
		return ErrUnauthenticated
	}
	if !actor.IsActive {
		return ErrBanned
	}
	return Authorize(actor.Role, required)
}

// NotSelf rejects operations where the actor targets their own account.
func NotSelf(actor *Actor, targetID uint) error {
	if actor != nil && actor.ID == targetID {
		return ErrSelfTarget
	}
	return nil
}

// CanAssign validates a role change requested by actor. Role changes are
// re-authorized at super_admin rank on top of the admin endpoint check, and
// granting super_admin needs the caller to hold it already.
func CanAssign(actor *Actor, role string) (models.Role, error) {
	if err := Require(actor, models.RoleSuperAdmin); err != nil {
		if errors.Is(err, ErrInsufficientRank) {
			return "", ErrRoleChange
		}
		return "", err
	}
	parsed, ok := ParseRole(role)
	if !ok {
		return "", ErrInvalidRole
	}
	if parsed == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		return "", ErrPromotion
	}
	return parsed, nil
}
