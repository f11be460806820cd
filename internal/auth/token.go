package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// AccessTokenLength is the length of tokens returned by GenerateAccessToken.
const AccessTokenLength = 43

// GenerateAccessToken returns a random URL-safe bearer token of
// AccessTokenLength characters (32 random bytes, unpadded base64url).
func GenerateAccessToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
