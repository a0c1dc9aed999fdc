// Package common contains shared constants and sentinel errors used across
// blogkeeper components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on HTTP requests.
	AuthorizationHeaderName = "Authorization"

	// AuthorizationMetadataKey is the gRPC metadata key for the bearer token.
	// gRPC lowercases all metadata keys.
	AuthorizationMetadataKey = "authorization"

	// BearerPrefix precedes the token inside the authorization value.
	BearerPrefix = "Bearer "

	// UserStorageKey is the durable client storage key holding the
	// authenticated identity and its token.
	UserStorageKey = "user"
)
