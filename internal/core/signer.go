package core

import (
	"fmt"
	"strings"

	"github.com/cybergodev/jwtcodec/internal/base64url"
	"github.com/cybergodev/jwtcodec/internal/signing"
)

// NewHeader returns the header the encoder emits for method, merged over
// extra. "typ" and "alg" always win over caller-supplied values.
func NewHeader(method signing.Method, extra map[string]any) map[string]any {
	header := make(map[string]any, len(extra)+2)
	for k, v := range extra {
		header[k] = v
	}
	header["typ"] = TokenType
	header["alg"] = method.Alg()
	return header
}

// SignedString serializes header and claims, signs the signing input with
// method and returns the assembled token.
func SignedString(header map[string]any, claims any, method signing.Method, key []byte) (string, error) {
	headerSegment, err := EncodeSegment(header)
	if err != nil {
		return "", fmt.Errorf("encode header: %w", err)
	}

	claimsSegment, err := EncodeSegment(claims)
	if err != nil {
		return "", fmt.Errorf("encode claims: %w", err)
	}

	var b strings.Builder
	b.Grow(len(headerSegment) + len(claimsSegment) + 2 + base64EncodedLen(method.Hash().Size()))
	b.WriteString(headerSegment)
	b.WriteByte('.')
	b.WriteString(claimsSegment)

	signature, err := method.Sign([]byte(b.String()), key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	b.WriteByte('.')
	b.WriteString(base64url.Encode(signature))
	return b.String(), nil
}

func base64EncodedLen(n int) int {
	return (n*8 + 5) / 6
}
