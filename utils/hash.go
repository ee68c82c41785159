package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// DeterministicIDLen keeps generated identifiers inside varchar(32) columns.
const DeterministicIDLen = 20

// DeterministicID derives a stable identifier from its parts, joined with
// ":" and hashed. The same inputs always yield the same id, which turns
// repeated generation of the same logical item into an upsert merge instead
// of a duplicate.
func DeterministicID(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{':'})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))[:DeterministicIDLen]
}
