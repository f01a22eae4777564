package core

import (
	"errors"
	"fmt"

	"github.com/cybergodev/jwtcodec/internal/base64url"
)

// ErrMalformed is returned when a token does not have three segments.
var ErrMalformed = errors.New("malformed token")

var (
	errEmptyToken         = fmt.Errorf("%w: empty token", ErrMalformed)
	errInvalidTokenFormat = fmt.Errorf("%w: expected three dot-separated segments", ErrMalformed)
)

// fastSplit3 splits on the first two occurrences of sep. Anything after the
// second separator, further separators included, is the third part.
func fastSplit3(s string, sep byte) (string, string, string, bool) {
	first := -1
	second := -1

	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			if first == -1 {
				first = i
			} else {
				second = i
				break
			}
		}
	}

	if first == -1 || second == -1 {
		return "", "", "", false
	}

	return s[:first], s[first+1 : second], s[second+1:], true
}

// Split returns the header, payload and signature segments of token.
func Split(token string, maxSize int) (string, string, string, error) {
	if len(token) == 0 {
		return "", "", "", errEmptyToken
	}
	if maxSize > 0 && len(token) > maxSize {
		return "", "", "", fmt.Errorf("%w: token too large: maximum %d characters allowed", ErrMalformed, maxSize)
	}

	header, payload, signature, ok := fastSplit3(token, '.')
	if !ok {
		return "", "", "", errInvalidTokenFormat
	}
	return header, payload, signature, nil
}

// Parse splits token and decodes every segment. It performs no validation
// beyond structure and encoding.
func Parse(token string, maxSize int) (*Token, error) {
	rawHeader, rawClaims, rawSig, err := Split(token, maxSize)
	if err != nil {
		return nil, err
	}

	header, err := DecodeSegment(rawHeader)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}

	claims, err := DecodeSegment(rawClaims)
	if err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}

	sig, err := base64url.Decode(rawSig)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w: %v", ErrInvalidEncoding, err)
	}

	return &Token{
		Header:       header,
		Claims:       claims,
		Signature:    sig,
		RawHeader:    rawHeader,
		RawClaims:    rawClaims,
		RawSignature: rawSig,
		Raw:          token,
	}, nil
}

// ParseHeader decodes only the header segment.
func ParseHeader(token string, maxSize int) (map[string]any, error) {
	rawHeader, _, _, err := Split(token, maxSize)
	if err != nil {
		return nil, err
	}

	header, err := DecodeSegment(rawHeader)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	return header, nil
}
