package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// NewReference builds a human-facing reference like "APP-20260115-3F9A2C".
// Used for application numbers and mortgage numbers; uniqueness is enforced
// by the DB index, the random suffix just keeps collisions unlikely.
func NewReference(prefix string, at time.Time) string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%s-%s-%s", strings.ToUpper(prefix), at.UTC().Format("20060102"), strings.ToUpper(hex.EncodeToString(b)))
}
