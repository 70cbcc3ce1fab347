package model

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

// NewShortID generates a short, URL-safe ID: a UUID v4 encoded in unpadded
// base32 (16 bytes -> 26 lowercase characters). Used for history entries,
// which have no natural key.
func NewShortID() string {
	id := uuid.New()
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(id[:])
	return strings.ToLower(encoded)
}

// ValidShortID reports whether an ID looks like one of ours. Case-insensitive
// and length-tolerant so hand-shortened prefixes still fail cleanly at lookup
// rather than here.
func ValidShortID(id string) bool {
	if len(id) < 10 || len(id) > 30 {
		return false
	}
	for _, c := range id {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}
