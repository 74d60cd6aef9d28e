package service

import "github.com/google/uuid"

// newID builds a prefixed entity ID, e.g. "attempt_5f0c...".
func newID(prefix string) string {
	return prefix + uuid.NewString()
}
