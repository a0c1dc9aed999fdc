package auth

import (
	"crypto/hmac"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var signingMethod = jwt.SigningMethodHS256

// Codec issues and verifies session tokens signed with one process-wide key.
type Codec struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// CodecOption customizes a Codec.
type CodecOption func(*Codec)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.now = now
	}
}

// NewCodec returns a Codec signing with secret. The key is copied; an empty
// key is rejected with ErrEmptySecret.
func NewCodec(secret []byte, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingMethod.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClaims builds claims for the identity issued at the codec's current time.
func (c *Codec) NewClaims(subjectID, email, username string) Claims {
	return NewClaims(subjectID, email, username, c.now())
}

// Issue signs claims. ExpiresAt is always recomputed from IssuedAt so a
// token never outlives SessionTTL; a zero IssuedAt means now.
func (c *Codec) Issue(claims Claims) (string, error) {
	issuedAt := claims.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = c.now()
	}
	claims = NewClaims(claims.SubjectID, claims.Email, claims.Username, issuedAt)

	token := jwt.NewWithClaims(signingMethod, claims.toToken())
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature over the exact bytes received, then decodes
// the payload, then checks expiry. Failures are ErrInvalidSignature,
// ErrMalformedToken or ErrTokenExpired, in that order of precedence.
func (c *Codec) Verify(token string) (Claims, error) {
	dot := strings.LastIndexByte(token, '.')
	if dot <= 0 {
		return Claims{}, ErrMalformedToken
	}

	ok, err := c.signatureMatches(token[:dot], token[dot+1:])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if !ok {
		return Claims{}, ErrInvalidSignature
	}

	var tc tokenClaims
	if _, err := c.parser.ParseWithClaims(token, &tc, c.key); err != nil {
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	if tc.ID == "" || tc.IssuedAt == nil || tc.ExpiresAt == nil {
		return Claims{}, ErrMalformedToken
	}

	claims := tc.toClaims()
	if claims.Expired(c.now()) {
		return Claims{}, ErrTokenExpired
	}
	return claims, nil
}

// Authenticate runs the gate over a raw Authorization value and reports the
// state the request ended in.
func (c *Codec) Authenticate(header string) (Claims, GateState, error) {
	token, err := ParseBearer(header)
	if err != nil {
		return Claims{}, stateForHeaderError(err), err
	}

	claims, err := c.Verify(token)
	if err != nil {
		return Claims{}, StateTokenRejected, err
	}
	return claims, StateAuthenticated, nil
}

// signatureMatches compares the received encoded signature with the expected
// one as strings, so no two distinct inputs can decode to the same bytes.
func (c *Codec) signatureMatches(signingString, signature string) (bool, error) {
	raw, err := signingMethod.Sign(signingString, c.secret)
	if err != nil {
		return false, err
	}
	expected := base64.RawURLEncoding.EncodeToString(raw)
	return hmac.Equal([]byte(expected), []byte(signature)), nil
}

func (c *Codec) key(*jwt.Token) (any, error) {
	return c.secret, nil
}
