package quire

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the timestamps written to CreatedAt and UpdatedAt.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now().UTC() }

// IDGenerator mints block and document identifiers. Every identifier it
// returns must be unique across all documents.
type IDGenerator interface {
	New() string
}

// UUIDGenerator mints random (version 4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.NewString() }

// IDFunc adapts a plain function to IDGenerator.
type IDFunc func() string

func (f IDFunc) New() string { return f() }
