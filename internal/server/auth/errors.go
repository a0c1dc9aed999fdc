package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySecret is returned by NewCodec when no signing key is configured.
	ErrEmptySecret = errors.New("signing key must not be empty")

	// Authorization header errors.
	ErrMissingToken    = errors.New("missing token")
	ErrMalformedHeader = errors.New("malformed authorization header")

	// ErrInvalidToken is the parent of every token verification failure.
	ErrInvalidToken     = errors.New("invalid token")
	ErrMalformedToken   = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrInvalidSignature = fmt.Errorf("%w: signature mismatch", ErrInvalidToken)
	ErrTokenExpired     = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrAuthenticationRequired means no identity is attached to the request.
	ErrAuthenticationRequired = errors.New("authentication required")
)

// Messages shown to clients. Token failures share one message.
const (
	MessageNoToken                = "No token provided"
	MessageInvalidToken           = "Invalid token"
	MessageAuthenticationRequired = "Authentication required"
)

// PublicMessage maps an authentication error to the message a client may see.
// Unknown errors map to MessageInvalidToken so nothing internal leaks.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrMalformedHeader):
		return MessageNoToken
	case errors.Is(err, ErrAuthenticationRequired):
		return MessageAuthenticationRequired
	default:
		return MessageInvalidToken
	}
}
