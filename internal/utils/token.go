package utils // helpers for guest manage tokens

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewManageToken mints the opaque token a guest receives when booking
// without an account.  Presenting it later authorizes cancellation of that
// reservation.  Only the SHA-256 digest is stored, so a leaked database
// row cannot be replayed against the cancel endpoint.
func NewManageToken() string {
	return uuid.NewString()
}

// HashManageToken returns the hex SHA-256 digest stored alongside the
// reservation.
func HashManageToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
