// Package auth holds the server-side authentication core:
//
//   - Hasher: one-way password hashing (argon2id, PHC-style strings) with
//     verification of legacy bcrypt hashes;
//   - Codec: issuing and verifying HS256 session tokens that carry
//     SessionClaims and expire after SessionTTL;
//   - the per-request gate: ParseBearer, Codec.Authenticate and the
//     claims context helpers shared by the HTTP and gRPC transports.
//
// Verification errors are precise (ErrMalformedToken, ErrInvalidSignature,
// ErrTokenExpired, all wrapping ErrInvalidToken) so they can be logged and
// tested. Transports must not show them to callers; PublicMessage collapses
// them into the fixed client-facing messages.
//
// Codec and Hasher are immutable after construction and safe for concurrent use.
package auth
