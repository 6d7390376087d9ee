// Package access decides who may see and who may change a memory.
//
// The rules are deliberately asymmetric: reads are granted by
// public-or-owner, writes strictly by authenticated-and-owner. The public
// flag never grants write access. Decisions are pure functions over the
// acting identity and the target row; existence checks happen before these
// are consulted, so a policy error always refers to a row that exists.
package access

import (
	"github.com/dmitrijs2005/memorylane/internal/common"
	"github.com/dmitrijs2005/memorylane/internal/server/models"
)

// Actor is the identity a request acts as: a local user id, or anonymous.
type Actor struct {
	UserID string
}

// Anonymous is the actor of an unauthenticated request.
var Anonymous = Actor{}

// Authenticated reports whether the actor carries a user id.
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// CanView permits reading a single memory: public rows are visible to
// everyone, private rows only to their owner. Returns
// common.ErrorForbidden otherwise.
func CanView(actor Actor, m *models.Memory) error {
	if m.IsPublic {
		return nil
	}
	if actor.Authenticated() && actor.UserID == m.UserID {
		return nil
	}
	return common.ErrorForbidden
}

// CanMutate permits update and delete: only the authenticated owner.
// Returns common.ErrorForbidden otherwise.
func CanMutate(actor Actor, m *models.Memory) error {
	if actor.Authenticated() && actor.UserID == m.UserID {
		return nil
	}
	return common.ErrorForbidden
}
