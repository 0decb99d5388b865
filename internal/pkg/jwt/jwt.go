// Package jwt reads bearer credentials issued by the scheduling backend.
//
// Signatures are never verified here; the backend checks them on every API
// call. This package only turns the payload segment into a typed claim set and
// decides whether that claim set can still be used.
package jwt

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"room-scheduler/internal/core/domain"
)

var (
	ErrTokenExpired = domain.ErrExpiredCredential
	ErrTokenInvalid = domain.ErrDecodeFailure
)

var urlAlphabet = strings.NewReplacer("-", "+", "_", "/")

// Decode parses the payload segment of a credential into a ClaimSet.
// Any malformed input yields an error wrapping ErrTokenInvalid.
func Decode(credential string) (*domain.ClaimSet, error) {
	segments := strings.Split(credential, ".")
	if len(segments) < 2 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrTokenInvalid, len(segments))
	}

	payload, err := decodeSegment(segments[1])
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not base64: %v", ErrTokenInvalid, err)
	}
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", ErrTokenInvalid)
	}

	var claims domain.ClaimSet
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%w: payload is not a claim set: %v", ErrTokenInvalid, err)
	}

	return &claims, nil
}

// decodeSegment maps the base64url alphabet onto the standard one and
// restores any stripped padding before decoding.
func decodeSegment(seg string) ([]byte, error) {
	seg = urlAlphabet.Replace(seg)
	if l := len(seg) % 4; l > 0 {
		seg += strings.Repeat("=", 4-l)
	}
	return base64.StdEncoding.DecodeString(seg)
}

// Check returns nil when claims are structurally usable and not expired at now.
func Check(claims *domain.ClaimSet, now time.Time) error {
	if claims == nil || claims.Subject == nil {
		return fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}
	if claims.Subject.Role == "" {
		return fmt.Errorf("%w: missing role", ErrTokenInvalid)
	}
	if claims.ExpiresAt == nil {
		return fmt.Errorf("%w: missing exp", ErrTokenInvalid)
	}

	// exp is whole seconds since epoch; compare in the same unit
	if claims.ExpiresAt.Unix() <= now.Unix() {
		return ErrTokenExpired
	}

	return nil
}

// IsUsable reports whether claims can authorize a navigation at now
func IsUsable(claims *domain.ClaimSet, now time.Time) bool {
	return Check(claims, now) == nil
}

// DecodeUsable decodes a credential and checks it in one step
func DecodeUsable(credential string, now time.Time) (*domain.ClaimSet, error) {
	claims, err := Decode(credential)
	if err != nil {
		return nil, err
	}
	if err := Check(claims, now); err != nil {
		return nil, err
	}
	return claims, nil
}
