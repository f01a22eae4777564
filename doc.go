// Package jwtcodec encodes claims into signed, URL-safe JSON Web Tokens and
// decodes them back with signature verification and exp/nbf checks.
//
// A token is three base64url segments joined by dots: the JSON header, the
// JSON claims and the raw signature. The signature covers the first two
// segments exactly as transmitted.
//
// Supported algorithms are fixed at build time: HS256, HS384 and HS512 with a
// shared secret, and RS256, RS384 and RS512 with an RSA private key for
// signing and an RSA public key or X.509 certificate (PEM or DER) for
// verification.
//
//	token, err := jwtcodec.Encode(jwtcodec.Claims{"sub": "u1", "exp": exp}, secret, jwtcodec.HS256)
//	claims, err := jwtcodec.Decode(token, secret)
//
// Failures match one of the package sentinels under errors.Is, for example
// ErrSignatureVerification or ErrTokenExpired. The Context variants also
// return the context's own error when it is already done.
package jwtcodec
