package kernel

import (
	"fmt"
	"strings"

	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

// Role is the marketplace role an authenticated user acts under.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RolePartner  Role = "PARTNER"
	RoleCourier  Role = "COURIER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole normalises s to a known role. Unknown roles are returned as-is so
// read paths can fall back to their default scope; callers that mutate state
// should check IsKnown.
func ParseRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// IsKnown reports whether r is one of the four marketplace roles.
func (r Role) IsKnown() bool {
	switch r {
	case RoleCustomer, RolePartner, RoleCourier, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// ErrActorIsNotConstructed is returned for a zero-value Actor.
var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor")

// Actor is the identity supplied by the authentication collaborator. The core
// trusts it unconditionally.
type Actor struct {
	userID UUID
	role   Role
	guard  guard.ConstructorGuard
}

// NewActor validates the user id; any role string is accepted.
func NewActor(userID UUID, role Role) (Actor, error) {
	if err := userID.Validate(); err != nil {
		return Actor{}, fmt.Errorf("actor user id: %w", err)
	}
	if role == "" {
		return Actor{}, errs.NewValueIsRequiredError("role")
	}
	return Actor{userID: userID, role: role, guard: guard.NewConstructorGuard()}, nil
}

// Validate fails for a zero-value Actor.
func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

// UserID returns the authenticated user's id.
func (a Actor) UserID() UUID {
	return a.userID
}

// Role returns the authenticated user's role.
func (a Actor) Role() Role {
	return a.role
}

// Is reports whether the actor acts under role.
func (a Actor) Is(role Role) bool {
	return a.role == role
}
