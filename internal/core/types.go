package core

// Token is a split and decoded token. The raw segments are kept verbatim:
// the signature covers RawHeader + "." + RawClaims as transmitted, not a
// re-serialization of Header and Claims.
type Token struct {
	Header    map[string]any
	Claims    map[string]any
	Signature []byte

	RawHeader    string
	RawClaims    string
	RawSignature string
	Raw          string
}

// SigningInput returns the exact bytes the signature was computed over.
func (t *Token) SigningInput() []byte {
	return []byte(t.RawHeader + "." + t.RawClaims)
}

const (
	// TokenType is the only accepted value of the "typ" header.
	TokenType = "JWT"

	// DefaultMaxTokenSize bounds the token length accepted by Parse.
	DefaultMaxTokenSize = 64 << 10
)
