package content

import (
	apperrors "github.com/openlens/trustfeed/internal/errors"
)

const (
	minCidLength = 16
	maxCidLength = 128
)

// IsValidCid reports whether cid matches the strict identifier format:
// base32/base58-safe alphanumerics only, bounded length. Anything with
// separators or dots is rejected before a storage path or URL is built
// from it.
func IsValidCid(cid string) bool {
	if len(cid) < minCidLength || len(cid) > maxCidLength {
		return false
	}
	for i := 0; i < len(cid); i++ {
		c := cid[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// ValidateCid returns an InvalidCid error for a malformed identifier.
func ValidateCid(cid string) error {
	if !IsValidCid(cid) {
		return apperrors.InvalidCid(cid)
	}
	return nil
}
