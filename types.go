package jwtcodec

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/cybergodev/jwtcodec/internal/core"
	"github.com/cybergodev/jwtcodec/internal/signing"
)

// Algorithm identifies a signing algorithm carried in the "alg" header.
type Algorithm string

const (
	// HS256 uses HMAC with SHA-256 (the default)
	HS256 Algorithm = "HS256"
	// HS384 uses HMAC with SHA-384
	HS384 Algorithm = "HS384"
	// HS512 uses HMAC with SHA-512
	HS512 Algorithm = "HS512"

	// RS256 uses RSASSA-PKCS1-v1_5 with SHA-256
	RS256 Algorithm = "RS256"
	// RS384 uses RSASSA-PKCS1-v1_5 with SHA-384
	RS384 Algorithm = "RS384"
	// RS512 uses RSASSA-PKCS1-v1_5 with SHA-512
	RS512 Algorithm = "RS512"
)

// Valid reports whether a is in the algorithm registry.
func (a Algorithm) Valid() bool {
	_, err := signing.Lookup(string(a))
	return err == nil
}

// Symmetric reports whether a signs and verifies with the same shared secret.
func (a Algorithm) Symmetric() bool {
	method, err := signing.Lookup(string(a))
	return err == nil && method.Family() == signing.FamilyHMAC
}

// Algorithms lists every supported algorithm in sorted order.
func Algorithms() []Algorithm {
	names := signing.Algorithms()
	algs := make([]Algorithm, len(names))
	for i, name := range names {
		algs[i] = Algorithm(name)
	}
	return algs
}

// Header is a decoded token header.
type Header map[string]any

// Algorithm returns the "alg" header, or "" when absent or not a string.
func (h Header) Algorithm() string {
	s, _ := h["alg"].(string)
	return s
}

// Type returns the "typ" header.
func (h Header) Type() string {
	s, _ := h["typ"].(string)
	return s
}

// KeyID returns the "kid" header.
func (h Header) KeyID() string {
	s, _ := h["kid"].(string)
	return s
}

// Claims is a token payload. Decoded numbers are json.Number values so that
// integers survive unchanged; use the typed accessors to read them.
type Claims map[string]any

// String returns the named claim if it is a string.
func (c Claims) String(name string) (string, bool) {
	s, ok := c[name].(string)
	return s, ok
}

// Int64 returns the named claim if it is an integral number.
func (c Claims) Int64(name string) (int64, bool) {
	switch v := c[name].(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int64(v), true
		}
	}
	return 0, false
}

// Time returns a numeric date claim (exp, nbf, iat) as a time.
func (c Claims) Time(name string) (time.Time, bool) {
	secs, ok := numericValue(c[name])
	if !ok || math.IsInf(secs, 0) {
		return time.Time{}, false
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC(), true
}

// Bind copies the claims into v, which is typically a pointer to a struct
// with json tags.
func (c Claims) Bind(v any) error {
	data, err := core.MarshalObject(map[string]any(c))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// numericValue reports whether v is a JSON number and returns it as seconds.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		// Literals beyond float64 range come back as ±Inf with ErrRange.
		// They are still numbers and compare as "never" and "forever".
		f, err := n.Float64()
		return f, err == nil || errors.Is(err, strconv.ErrRange)
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case NumericDate:
		return float64(n.Unix()), true
	}
	return 0, false
}
