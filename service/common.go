package service

import (
	"time"

	"github.com/Luismorlan/tunemux/model"
	"github.com/Luismorlan/tunemux/repository"
	"github.com/pkg/errors"
)

// notFoundOr reports a missing record as NotFound with message, other errors
// pass through.
func notFoundOr(err error, message string) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return NotFound(message)
	}
	return err
}

func validatePage(page model.Page) error {
	if err := page.Validate(); err != nil {
		return BadRequest(MsgInvalidPage)
	}
	return nil
}

// Clock is swapped in tests to get stable storage keys.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}
