package model

import "errors"

const (
	DefaultTake = 10
	DefaultSkip = 0
)

var ErrInvalidPage = errors.New("take and skip must be non-negative integers")

// Page is an offset window over an ordered listing.
type Page struct {
	Take int
	Skip int
}

func DefaultPage() Page {
	return Page{Take: DefaultTake, Skip: DefaultSkip}
}

func (p Page) Validate() error {
	if p.Take < 0 || p.Skip < 0 {
		return ErrInvalidPage
	}
	return nil
}
