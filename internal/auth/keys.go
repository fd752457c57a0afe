// Package auth issues and verifies admin API keys protecting the crisis
// event review endpoints.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Key format: rg_{env}_{id}_{secret}
// - id: 12 hex chars
// - secret: 32 hex chars
// Tokens are hex so the underscore-delimited format always splits cleanly.
func GenerateAPIKey(env string) (id string, rawKey string, secretHash []byte, err error) {
	id, secret := randomToken(12), randomToken(32)
	if id == "" || secret == "" {
		return "", "", nil, fmt.Errorf("failed to generate token")
	}
	rawKey = fmt.Sprintf("rg_%s_%s_%s", env, id, secret)
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", nil, err
	}
	return id, rawKey, hash, nil
}

// ParseAPIKey splits into env, id, secret
func ParseAPIKey(raw string) (env string, id string, secret string, ok bool) {
	parts := strings.Split(raw, "_")
	if len(parts) != 4 || parts[0] != "rg" {
		return "", "", "", false
	}
	return parts[1], parts[2], parts[3], true
}

// VerifySecret checks a parsed key secret against its stored bcrypt hash.
func VerifySecret(secretHash []byte, secret string) bool {
	return bcrypt.CompareHashAndPassword(secretHash, []byte(secret)) == nil
}

// SecretAuthorizer authorizes against a configured shared secret using a
// constant-time comparison. An empty secret authorizes nothing.
func SecretAuthorizer(secret string) func(string) bool {
	return func(presented string) bool {
		if secret == "" {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) == 1
	}
}

// KeyAuthorizer authorizes a generated API key: the presented value must
// parse, carry the expected key ID, and its secret must verify against the
// stored bcrypt hash. Only the hash needs to be retained after issuance.
func KeyAuthorizer(id string, secretHash []byte) func(string) bool {
	return func(presented string) bool {
		_, parsedID, secret, ok := ParseAPIKey(presented)
		if !ok || parsedID != id {
			return false
		}
		return VerifySecret(secretHash, secret)
	}
}

func randomToken(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	s := hex.EncodeToString(b)
	if len(s) > n {
		return s[:n]
	}
	return s
}
