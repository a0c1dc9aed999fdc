package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is the fixed lifetime of a session token.
const SessionTTL = 7 * 24 * time.Hour

// Claims are the identity facts carried by a session token.
// Times are UTC with second precision, matching the token encoding.
type Claims struct {
	SubjectID string
	Email     string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewClaims builds claims issued at issuedAt and expiring SessionTTL later.
func NewClaims(subjectID, email, username string, issuedAt time.Time) Claims {
	iat := issuedAt.UTC().Truncate(time.Second)
	return Claims{
		SubjectID: subjectID,
		Email:     email,
		Username:  username,
		IssuedAt:  iat,
		ExpiresAt: iat.Add(SessionTTL),
	}
}

// Expired reports whether the claims are past their expiry at now.
func (c Claims) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// tokenClaims is the JSON payload of a session token. Field names follow the
// tokens minted by the previous deployment: id, email, username, iat, exp.
type tokenClaims struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

func (c Claims) toToken() tokenClaims {
	return tokenClaims{
		ID:       c.SubjectID,
		Email:    c.Email,
		Username: c.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
	}
}

func (t tokenClaims) toClaims() Claims {
	return Claims{
		SubjectID: t.ID,
		Email:     t.Email,
		Username:  t.Username,
		IssuedAt:  t.IssuedAt.Time.UTC(),
		ExpiresAt: t.ExpiresAt.Time.UTC(),
	}
}
