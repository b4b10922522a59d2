package model

// Owned is implemented by every entity whose mutations are restricted to the
// user that created it.
type Owned interface {
	OwnerID() uint
}
