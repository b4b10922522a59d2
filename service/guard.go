package service

import "github.com/Luismorlan/tunemux/model"

type Decision int

const (
	Deny Decision = iota
	Permit
)

// Authorize permits the actor iff it owns the resource.
func Authorize(actorID uint, resource model.Owned) Decision {
	if resource.OwnerID() == actorID {
		return Permit
	}
	return Deny
}

// requireOwner turns a Deny into an Unauthorized error carrying the denial
// message of the attempted operation. The resource must already be resolved,
// missing resources are reported as NotFound before this is reached.
func requireOwner(actor *model.User, resource model.Owned, denial string) error {
	if Authorize(actor.Id, resource) == Deny {
		return Unauthorized(denial)
	}
	return nil
}
