package signing

import (
	"crypto"
	"crypto/hmac"
	"fmt"

	"github.com/cybergodev/jwtcodec/internal/security"
)

type hmacSigningMethod struct {
	name     string
	hashFunc crypto.Hash
}

var (
	hmacHS256 = &hmacSigningMethod{"HS256", crypto.SHA256}
	hmacHS384 = &hmacSigningMethod{"HS384", crypto.SHA384}
	hmacHS512 = &hmacSigningMethod{"HS512", crypto.SHA512}
)

func (h *hmacSigningMethod) Alg() string {
	return h.name
}

func (h *hmacSigningMethod) Hash() crypto.Hash {
	return h.hashFunc
}

func (h *hmacSigningMethod) Family() Family {
	return FamilyHMAC
}

func (h *hmacSigningMethod) Sign(data, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: HMAC secret must not be empty", ErrInvalidKey)
	}
	return security.WithKey(key, func(k []byte) ([]byte, error) {
		return h.sum(data, k), nil
	})
}

func (h *hmacSigningMethod) Verify(data, sig, key []byte) (bool, error) {
	if len(key) == 0 {
		return false, fmt.Errorf("%w: HMAC secret must not be empty", ErrInvalidKey)
	}
	return security.WithKey(key, func(k []byte) (bool, error) {
		expected := h.sum(data, k)
		defer security.ZeroBytes(expected)

		return security.SecureCompare(sig, expected), nil
	})
}

func (h *hmacSigningMethod) sum(data, key []byte) []byte {
	mac := hmac.New(h.hashFunc.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
