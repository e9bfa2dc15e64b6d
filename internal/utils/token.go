package utils // package utils provides helpers for session tokens, hashing and request metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and validating signed tokens

	"github.com/mwakyusa/parish-management/internal/model"
)

// ErrTokenInvalid is returned when a session token fails signature,
// expiry or shape checks.  Callers treat the holder as anonymous.
var ErrTokenInvalid = errors.New("invalid session token")

// SessionToken is the signed credential stored inside the server-side
// session cookie.  It binds the session to a user and to a fingerprint
// of their current password hash: when the password changes the
// fingerprint changes, so every other session holding an old token
// stops authenticating while the session that performed the change is
// re-issued a fresh token.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for an authenticated
// user.  Claims: sub (user ID), role, fp (credential fingerprint),
// exp and iat.
func NewSessionToken(secret string, u *model.User, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"fp":   CredentialFingerprint(u.PasswordHash),
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a session token and returns the user ID
// and credential fingerprint it carries.  Any parse failure, a wrong
// signing method, an expired token or missing claims yield
// ErrTokenInvalid.
func ParseSessionToken(secret, raw string) (userID uint64, fingerprint string, err error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrTokenInvalid
	}
	sub, ok := claims["sub"].(float64) // numeric claims decode as float64
	if !ok || sub <= 0 {
		return 0, "", ErrTokenInvalid
	}
	fp, ok := claims["fp"].(string)
	if !ok || fp == "" {
		return 0, "", ErrTokenInvalid
	}
	return uint64(sub), fp, nil
}

// CredentialFingerprint derives a stable, non-reversible fingerprint
// from a password hash.  The fingerprint, not the hash itself, travels
// inside session tokens.
func CredentialFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:])
}
