package auth

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

// GateState is where a request ended up in the authentication gate.
type GateState string

const (
	StateNoHeader        GateState = "no_header"
	StateMalformedHeader GateState = "malformed_header"
	StateTokenRejected   GateState = "token_rejected"
	StateAuthenticated   GateState = "authenticated"
)

// ParseBearer extracts the token from an Authorization value of the exact
// form "Bearer <token>". The token must be non-empty and free of whitespace.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return "", ErrMalformedHeader
	}

	token := header[len(common.BearerPrefix):]
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", ErrMalformedHeader
	}
	return token, nil
}

func stateForHeaderError(err error) GateState {
	if errors.Is(err, ErrMissingToken) {
		return StateNoHeader
	}
	return StateMalformedHeader
}
