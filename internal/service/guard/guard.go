// Package guard decides whether a verified identity may act on a resource
// owned by a given user. The decision is a pure equality check with no I/O.
package guard

import (
	"errors"

	"github.com/google/uuid"
)

// ErrOwnerMismatch is returned when the verified subject does not own the
// requested resource scope. It maps to 403 at the API boundary, distinct
// from not-found: a mismatch is only reported when the request itself
// names a foreign owner, so the existence of other users' resources never
// leaks through it.
var ErrOwnerMismatch = errors.New("authenticated user does not match resource owner")

// Authorize allows the operation iff the verified subject equals the
// resource owner. Callers run this on every owner-scoped request,
// including create, where the owner is the subject by construction; the
// uniform check keeps the contract boring and hard to skip.
func Authorize(subject, owner uuid.UUID) error {
	if subject == uuid.Nil || owner == uuid.Nil {
		return ErrOwnerMismatch
	}
	if subject != owner {
		return ErrOwnerMismatch
	}
	return nil
}
