package jwtcodec

import (
	"fmt"
	"math"
	"time"

	"github.com/cybergodev/jwtcodec/internal/core"
)

func validateHeader(header Header) error {
	if typ, ok := header["typ"].(string); !ok || typ != core.TokenType {
		return &ValidationError{
			Field:   "typ",
			Message: fmt.Sprintf("must be %q, got %v", core.TokenType, header["typ"]),
			Err:     ErrInvalidHeader,
		}
	}

	raw, present := header["alg"]
	if !present {
		return &ValidationError{Field: "alg", Message: "is missing", Err: ErrInvalidHeader}
	}
	if _, ok := raw.(string); !ok {
		return &ValidationError{
			Field:   "alg",
			Message: fmt.Sprintf("must be a string, got %T", raw),
			Err:     ErrInvalidHeader,
		}
	}
	return nil
}

// validateTimeClaimTypes rejects exp and nbf values that are not numbers.
// Absent claims are fine.
func validateTimeClaimTypes(claims Claims) error {
	for _, name := range [...]string{"exp", "nbf"} {
		raw, present := claims[name]
		if !present {
			continue
		}
		if _, ok := numericValue(raw); !ok {
			return &ValidationError{
				Field:   name,
				Message: fmt.Sprintf("must be a numeric date, got %T", raw),
				Err:     ErrClaimType,
			}
		}
	}
	return nil
}

// validateTimeWindow enforces now < exp and now >= nbf, each widened by
// leeway. Callers must have run validateTimeClaimTypes first.
func validateTimeWindow(claims Claims, now time.Time, leeway time.Duration) error {
	current := float64(now.Unix())
	skew := math.Floor(leeway.Seconds())

	if exp, ok := numericValue(claims["exp"]); ok {
		if current >= exp+skew {
			return &ValidationError{
				Field:   "exp",
				Message: fmt.Sprintf("expired at %s", unixString(exp)),
				Err:     ErrTokenExpired,
			}
		}
	}

	if nbf, ok := numericValue(claims["nbf"]); ok {
		if current+skew < nbf {
			return &ValidationError{
				Field:   "nbf",
				Message: fmt.Sprintf("not valid before %s", unixString(nbf)),
				Err:     ErrTokenNotYetValid,
			}
		}
	}

	return nil
}

func unixString(secs float64) string {
	switch {
	case math.IsInf(secs, 1):
		return "+Inf"
	case math.IsInf(secs, -1):
		return "-Inf"
	}
	return time.Unix(int64(secs), 0).UTC().Format(time.RFC3339)
}
