package telemetry

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

const hashedIDLength = 12

// HashClientID returns a salted, truncated SHA-256 of the client identity.
// 12 hex chars (48 bits) are enough for abuse correlation and cannot be
// reversed to an address.
func HashClientID(salt, clientID string) string {
	sum := sha256.Sum256([]byte(salt + ":" + clientID))

	return hex.EncodeToString(sum[:])[:hashedIDLength]
}

// NewRequestID returns a unique ID for log correlation.
func NewRequestID() string {
	return uuid.NewString()
}
