package maelstrom

import (
	"github.com/google/uuid"
)

// NewUniqueID returns a UUIDv7 string: a millisecond unix timestamp followed
// by random bits. IDs are unique across nodes without coordination and
// strictly increasing within a process.
func NewUniqueID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
