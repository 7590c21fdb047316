// Package auth verifies the HS256 bearer tokens that identify the acting
// user on booking.
package auth

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken  = errors.New("missing bearer token")
	ErrNotConfigured = errors.New("authentication is not configured")
)

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(raw), nil
}

// UserFromToken verifies raw against secret and returns the positive user
// id held by the "sub" or "userId" claim.
func UserFromToken(raw, secret string) (int64, error) {
	if secret == "" {
		return 0, ErrNotConfigured
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	for _, name := range []string{"sub", "userId"} {
		if id, ok := claimID(claims[name]); ok {
			return id, nil
		}
	}
	return 0, errors.New("invalid token: no user id claim")
}

// UserFromHeader combines BearerToken and UserFromToken.
func UserFromHeader(header, secret string) (int64, error) {
	raw, err := BearerToken(header)
	if err != nil {
		return 0, err
	}
	return UserFromToken(raw, secret)
}

func claimID(v any) (int64, bool) {
	switch v := v.(type) {
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		return id, err == nil && id > 0
	case float64:
		// JSON numbers decode as float64; fractional or out of range ids are rejected
		if v <= 0 || v != math.Trunc(v) || v >= math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}
