// Package signing holds the closed set of signature algorithms a token may
// name in its "alg" header, behind one sign/verify capability interface.
package signing

import (
	"crypto"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	_ "crypto/sha256"
	_ "crypto/sha512"
)

var (
	// ErrUnsupportedAlgorithm is returned for identifiers outside the registry.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

	// ErrInvalidKey is returned when key material cannot be turned into the
	// form the algorithm needs.
	ErrInvalidKey = errors.New("invalid key")
)

// Family groups algorithms by key model.
type Family string

const (
	FamilyHMAC Family = "HMAC"
	FamilyRSA  Family = "RSA"
)

// Method represents a signing method for JWT tokens
type Method interface {
	Alg() string
	Hash() crypto.Hash
	Family() Family

	// Sign returns the raw signature bytes over data.
	Sign(data, key []byte) ([]byte, error)

	// Verify reports whether sig is a valid signature of data under key.
	// A mismatch is (false, nil); an error means the key itself is unusable.
	Verify(data, sig, key []byte) (bool, error)
}

// registry is fixed at package initialization and never written afterwards,
// so concurrent lookups need no locking.
var registry = func() map[string]Method {
	methods := []Method{
		hmacHS256, hmacHS384, hmacHS512,
		rsaRS256, rsaRS384, rsaRS512,
	}
	m := make(map[string]Method, len(methods))
	for _, method := range methods {
		m[method.Alg()] = method
	}
	return m
}()

// Lookup returns the method registered under alg. Matching is exact and
// case-sensitive.
func Lookup(alg string) (Method, error) {
	method, ok := registry[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
	return method, nil
}

// Algorithms returns every registered identifier in sorted order.
func Algorithms() []string {
	names := lo.Keys(registry)
	slices.Sort(names)
	return names
}
