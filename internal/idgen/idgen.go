// Package idgen generates entity identifiers. Identifiers are random, not
// wall-clock derived, so concurrent creation cannot collide.
package idgen

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// New returns an identifier of the form "<prefix>_<uuid>".
func New(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// Market returns a new market identifier.
func Market() string { return New("market") }

// Product returns a new product identifier.
func Product() string { return New("prod") }

// Listing returns a new listing identifier.
func Listing() string { return New("listing") }

// StallNumber formats a claim-flow stall number from a store sequence.
func StallNumber(seq int64) string {
	return fmt.Sprintf("S-%03d", seq)
}

// IsGenerated reports whether id carries the given generated prefix.
func IsGenerated(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}
