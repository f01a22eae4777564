package jwtcodec

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Clock abstracts the wall clock so callers can pin "now" in tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now returns f().
func (f ClockFunc) Now() time.Time {
	return f()
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// NumericDate represents a JSON numeric date value as specified in RFC 7519.
// It marshals to whole Unix seconds, which is what the exp and nbf checks read.
type NumericDate struct {
	time.Time
}

// NewNumericDate creates a new NumericDate from time.Time
func NewNumericDate(t time.Time) NumericDate {
	return NumericDate{Time: t.Truncate(time.Second)}
}

// MarshalJSON implements json.Marshaler interface
func (date NumericDate) MarshalJSON() ([]byte, error) {
	if date.Time.IsZero() {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, date.Unix(), 10), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (date *NumericDate) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "" || s == "null" {
		date.Time = time.Time{}
		return nil
	}

	secs, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(secs, 0) {
		return fmt.Errorf("%w: numeric date must be a JSON number, got %s", ErrClaimType, s)
	}

	whole, frac := math.Modf(secs)
	date.Time = time.Unix(int64(whole), int64(frac*1e9)).UTC()
	return nil
}
