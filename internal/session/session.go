package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned when a session has no bearer token.
var ErrNoToken = errors.New("no session token")

// Session carries the bearer token for API calls. It is passed explicitly to
// every request instead of living in client state.
type Session struct {
	Token string
}

// New builds a session for the given bearer token.
func New(token string) Session {
	return Session{Token: strings.TrimSpace(token)}
}

// Valid reports whether the session has a token at all.
func (s Session) Valid() bool {
	return s.Token != ""
}

// Authorization returns the Authorization header value, or "" without a token.
func (s Session) Authorization() string {
	if !s.Valid() {
		return ""
	}
	return "Bearer " + s.Token
}

// Claims is the subset of token claims the client displays.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims decodes the token payload without verifying its signature. The
// backend is the only verifier; the client reads claims for display and
// expiry warnings.
func (s Session) Claims() (Claims, error) {
	if !s.Valid() {
		return Claims{}, ErrNoToken
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, mc); err != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}

	var out Claims
	if sub, ok := mc["sub"]; ok && sub != nil {
		out.Subject = fmt.Sprint(sub)
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

// Expired reports whether the token carries an expiry that is before now.
// Tokens without a readable expiry are treated as not expired.
func (s Session) Expired(now time.Time) bool {
	claims, err := s.Claims()
	if err != nil || claims.ExpiresAt.IsZero() {
		return false
	}
	return now.After(claims.ExpiresAt)
}
