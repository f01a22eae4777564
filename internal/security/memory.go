// Package security holds the small primitives shared by the signing methods:
// constant-time comparison and scrubbing of per-call key material.
package security

import (
	"runtime"
)

// SecureCompare reports whether a and b are equal. The running time depends
// only on the length of the longer input, never on where the inputs differ.
func SecureCompare(a, b []byte) bool {
	lenA, lenB := len(a), len(b)

	maxLen := lenA
	if lenB > maxLen {
		maxLen = lenB
	}

	var diff byte
	for i := 0; i < maxLen; i++ {
		var aVal, bVal byte
		if i < lenA {
			aVal = a[i]
		}
		if i < lenB {
			bVal = b[i]
		}
		diff |= aVal ^ bVal
	}

	return diff == 0 && lenA == lenB
}

// ZeroBytes overwrites data with zeros.
func ZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}
	clear(data)
	runtime.KeepAlive(data)
}

// WithKey copies key into a scratch buffer, hands it to fn and zeroes the
// buffer once fn returns. Key bytes never outlive the call.
func WithKey[T any](key []byte, fn func(k []byte) (T, error)) (T, error) {
	scratch := make([]byte, len(key))
	copy(scratch, key)
	defer ZeroBytes(scratch)

	return fn(scratch)
}
