// Package testfixtures holds deterministic helpers shared by package tests.
package testfixtures

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const signingSecret = "test-only-secret"

// ReferenceTime is the fixed "now" used across tests: Wednesday 2025-03-12 09:30 UTC.
func ReferenceTime() time.Time {
	return time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC)
}

// Credential mints a signed credential shaped like the scheduling backend's
// access tokens. A zero exp leaves the claim out.
func Credential(t testing.TB, id int64, username, role string, exp time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": map[string]any{
			"id":       id,
			"username": username,
			"role":     role,
		},
		"iat": jwt.NewNumericDate(ReferenceTime().Add(-time.Hour)),
	}
	if !exp.IsZero() {
		claims["exp"] = jwt.NewNumericDate(exp)
	}

	return Sign(t, claims)
}

// Sign signs arbitrary claims with HS256.
func Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return token
}

// RawCredential assembles a credential whose payload segment is the
// base64url encoding of payload, bypassing JSON marshalling.
func RawCredential(payload []byte) string {
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString(payload) + ".c2ln"
}
