package jwtcodec

import (
	"errors"
	"fmt"

	"github.com/cybergodev/jwtcodec/internal/core"
	"github.com/cybergodev/jwtcodec/internal/signing"
)

// Predefined errors. Codec failures match exactly one of them under
// errors.Is.
var (
	// Argument and configuration errors
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidConfig   = errors.New("invalid configuration")

	// Algorithm and key errors
	ErrUnsupportedAlgorithm = signing.ErrUnsupportedAlgorithm
	ErrKey                  = signing.ErrInvalidKey

	// Structural errors
	ErrMalformedToken  = core.ErrMalformed
	ErrInvalidEncoding = core.ErrInvalidEncoding
	ErrInvalidHeader   = errors.New("invalid token header")
	ErrClaimType       = errors.New("invalid claim type")

	// Verification errors
	ErrSignatureVerification = errors.New("signature verification failed")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenNotYetValid      = errors.New("token is not valid yet")
)

// ValidationError represents a validation error for a specific header field
// or claim. Err is the sentinel the failure belongs to.
type ValidationError struct {
	Field   string // The header field or claim that failed validation
	Message string // Human-readable error message
	Err     error  // Sentinel error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: field '%s' %s", e.Err, e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// errorKinds maps sentinels to the short names used in logs and metrics.
var errorKinds = []struct {
	err  error
	name string
}{
	{ErrInvalidArgument, "invalid_argument"},
	{ErrInvalidConfig, "invalid_config"},
	{ErrUnsupportedAlgorithm, "unsupported_algorithm"},
	{ErrKey, "invalid_key"},
	{ErrMalformedToken, "malformed_token"},
	{ErrInvalidEncoding, "invalid_encoding"},
	{ErrInvalidHeader, "invalid_header"},
	{ErrClaimType, "claim_type"},
	{ErrSignatureVerification, "signature_invalid"},
	{ErrTokenExpired, "expired"},
	{ErrTokenNotYetValid, "not_yet_valid"},
}

// ErrorKind returns a stable short name for err, "ok" for nil and
// "internal" for errors outside the taxonomy.
func ErrorKind(err error) string {
	if err == nil {
		return "ok"
	}
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}
