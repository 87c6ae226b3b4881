package quire

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateBlockIdentifier is matched by every DuplicateBlockError.
	ErrDuplicateBlockIdentifier = errors.New("duplicate block identifier")
	ErrBlockNotFound            = errors.New("block not found")
	ErrDocumentNotFound         = errors.New("document not found")
	ErrGeneratorUnavailable     = errors.New("content generator not configured")
	ErrObjectNotFound           = errors.New("object not found")
	ErrInvalidArgument          = errors.New("invalid argument")
)

// DuplicateBlockError reports the first candidate whose ID collided with an
// existing block or with an earlier candidate in the same batch.
type DuplicateBlockError struct {
	ID string
}

func (e *DuplicateBlockError) Error() string {
	return fmt.Sprintf("duplicate block identifier: %s", e.ID)
}

func (e *DuplicateBlockError) Is(target error) bool {
	return target == ErrDuplicateBlockIdentifier
}
