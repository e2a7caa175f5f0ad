package uuidx

import (
	"strings"

	"github.com/google/uuid"
)

// New generates a new UUID using the version 7 format and returns it.
// It panics if the UUID generation fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString generates a new UUID using the version 7 format and returns it as a string.
// It utilizes the New function to create the UUID and then converts it to a string.
func NewString() string {
	return New().String()
}

// Short returns the first segment of the string form of the given UUID.
// Listener and request identifiers use it to keep log lines readable.
//
// Parameters:
//   - id: The UUID to abbreviate.
//
// Returns:
//   - string: The characters before the first dash of the canonical form.
func Short(id uuid.UUID) string {
	s := id.String()
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}
