package core

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/cybergodev/jwtcodec/internal/base64url"
)

var (
	// ErrInvalidEncoding covers base64url and JSON failures on any segment.
	ErrInvalidEncoding = errors.New("invalid token encoding")

	// ErrNotObject is returned when a value does not serialize to a JSON object.
	ErrNotObject = errors.New("value is not a JSON object")
)

// MarshalObject serializes v to canonical JSON (map keys sorted) and insists
// the result is an object.
func MarshalObject(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: got %.16s", ErrNotObject, data)
	}
	return data, nil
}

// EncodeSegment marshals v and base64url-encodes the JSON.
func EncodeSegment(v any) (string, error) {
	data, err := MarshalObject(v)
	if err != nil {
		return "", err
	}
	return base64url.Encode(data), nil
}

// DecodeSegment base64url-decodes a segment and parses it as a JSON object.
// Numbers are kept as json.Number so integer claims survive untouched.
func DecodeSegment(segment string) (map[string]any, error) {
	data, err := base64url.Decode(segment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return decodeObject(data)
}

func decodeObject(data []byte) (map[string]any, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidEncoding)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: segment is not a JSON object", ErrInvalidEncoding)
	}
	return obj, nil
}
