// Package permissions holds the access policy as pure predicates over an
// explicit Actor. Predicates compose with plain boolean operators; they never
// read request state and never touch the store.
package permissions

import (
	"net/http"

	"reviewhub/internal/api/apperr"
	"reviewhub/internal/api/models"
)

// Actor is the acting identity of a request. The zero value is anonymous.
type Actor struct {
	ID            string
	Role          string
	Staff         bool
	Authenticated bool
}

func Anonymous() Actor {
	return Actor{}
}

// FromUser builds an authenticated Actor from a stored user.
func FromUser(user *models.User) Actor {
	return Actor{
		ID:            user.ID,
		Role:          user.Role,
		Staff:         user.Staff,
		Authenticated: true,
	}
}

// IsSafeMethod reports whether method is a read-only HTTP verb.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsAdmin is true for an authenticated actor with the admin role or the
// staff flag.
func IsAdmin(actor Actor) bool {
	return actor.Authenticated && (actor.Role == models.RoleAdmin || actor.Staff)
}

func IsModerator(actor Actor) bool {
	return actor.Authenticated && actor.Role == models.RoleModerator
}

// CanWriteCatalog governs Category/Genre/Title: anyone may read, only
// admins may mutate.
func CanWriteCatalog(actor Actor, method string) bool {
	return IsSafeMethod(method) || IsAdmin(actor)
}

// CanModifyContent governs mutation of a Review or Comment owned by
// authorID. Retrieval is public and never passes through here.
func CanModifyContent(actor Actor, authorID string) bool {
	return IsAdmin(actor) || IsModerator(actor) ||
		(actor.Authenticated && actor.ID == authorID)
}

// IsSelf governs the self-profile endpoint.
func IsSelf(actor Actor, userID string) bool {
	return actor.Authenticated && actor.ID == userID
}

// Denial translates a failed check into the taxonomy error the caller
// returns: anonymous actors get ErrUnauthorized, everyone else ErrForbidden.
func Denial(actor Actor) error {
	if !actor.Authenticated {
		return apperr.ErrUnauthorized
	}
	return apperr.ErrForbidden
}
