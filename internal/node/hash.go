package node

import (
	"strconv"

	"github.com/mitchellh/hashstructure"
)

// Fingerprint returns a stable hash of the tree.
// Object keys order does not matter; list order does.
func Fingerprint(v any) (uint64, error) {
	return hashstructure.Hash(v, nil)
}

// FingerprintString is Fingerprint in hex, "" on error.
func FingerprintString(v any) string {
	sum, err := Fingerprint(v)
	if err != nil {
		return ""
	}
	return strconv.FormatUint(sum, 16)
}
