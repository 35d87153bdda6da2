package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates lexically sortable IDs. Trust entries written in
// the same microsecond are ordered by ID, so IDs from one process must be
// monotonic.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate returns a new ULID. ulid.Make draws from a process-wide monotonic
// entropy source.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
