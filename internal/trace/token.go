package trace

import "github.com/google/uuid"

// RunTokenGenerator produces unique tokens identifying recorded runs.
// Implemented by UUIDv7Generator (production) and
// testutil.FixedRunTokenGenerator (tests).
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens. UUIDv7 embeds
// a timestamp in the most significant bits, so tokens listed from the
// store sort by creation time.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7 as a hyphenated string. Panics if UUID
// generation fails, which does not happen in practice.
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
