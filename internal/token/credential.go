package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// credentialEntropyBytes gives 256 bits of entropy, well above the
// 128-bit floor required for single-use credential tokens.
const credentialEntropyBytes = 32

// NewCredentialToken mints an opaque URL-safe secret for magic-link and
// password-reset flows.
func NewCredentialToken() (string, error) {
	buf := make([]byte, credentialEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
