package domain

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes a deterministic digest of a validation payload, used as
// the cache key. Distinct payloads (including whitespace changes) produce
// distinct fingerprints.
func Fingerprint(payload string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(payload))
}
