package jwtcodec

import (
	"sync"
)

var defaultCodec = sync.OnceValue(func() *Codec {
	c, err := New()
	if err != nil {
		panic("jwtcodec: default configuration rejected: " + err.Error())
	}
	return c
})

// Encode signs claims with key under alg using the default codec.
// An empty alg means HS256.
func Encode(claims Claims, key string, alg Algorithm) (string, error) {
	return defaultCodec().Encode(claims, key, alg)
}

// Decode verifies token with key using the default codec and returns its
// claims.
func Decode(token, key string) (Claims, error) {
	return defaultCodec().Decode(token, key)
}

// DecodeUnverified returns the claims of token without any verification.
// Use it only to inspect tokens, never to make trust decisions.
func DecodeUnverified(token string) (Claims, error) {
	return defaultCodec().DecodeUnverified(token)
}

// DecodeHeader returns the unverified header of token.
func DecodeHeader(token string) (Header, error) {
	return defaultCodec().DecodeHeader(token)
}
