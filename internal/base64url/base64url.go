// Package base64url implements the unpadded, URL-safe base64 alphabet used by
// every token segment.
package base64url

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrDecode is returned for any segment that is not valid base64url.
var ErrDecode = errors.New("base64url decode failed")

// urlAlphabet marks the only bytes a segment may contain. The std decoder
// silently skips CR and LF, so they must be rejected up front.
var urlAlphabet = func() (t [256]bool) {
	for _, c := range "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_" {
		t[c] = true
	}
	return t
}()

var (
	toURL = strings.NewReplacer("+", "-", "/", "_")
	toStd = strings.NewReplacer("-", "+", "_", "/")
)

// Encode encodes data without padding.
func Encode(data []byte) string {
	s := base64.StdEncoding.EncodeToString(data)
	return strings.TrimRight(toURL.Replace(s), "=")
}

// Decode restores the standard alphabet and padding, then decodes s.
func Decode(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if !urlAlphabet[s[i]] {
			return nil, fmt.Errorf("%w: invalid character %q at offset %d", ErrDecode, s[i], i)
		}
	}

	std := toStd.Replace(s)
	if pad := (4 - len(std)%4) % 4; pad > 0 {
		std += strings.Repeat("=", pad)
	}

	data, err := base64.StdEncoding.DecodeString(std)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return data, nil
}
