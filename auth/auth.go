// Package auth implements the admin gate: a single shared secret unlocking
// statistics, export and bulk-delete operations. There are no roles,
// sessions or lockouts.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type Gate struct {
	secret string
}

func NewGate(secret string) *Gate {
	return &Gate{secret: secret}
}

// Authorize checks a candidate secret. When the configured secret is a
// bcrypt hash ($2a$/$2b$/$2y$ prefix) the candidate is compared against the
// hash; otherwise a constant-time plaintext comparison is used.
func (g *Gate) Authorize(candidate string) bool {
	if g.secret == "" {
		return false
	}
	if strings.HasPrefix(g.secret, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(g.secret), []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(g.secret), []byte(candidate)) == 1
}
