package jwtcodec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/cybergodev/jwtcodec/internal/core"
	"github.com/cybergodev/jwtcodec/internal/signing"
)

// Codec encodes and decodes signed tokens. A Codec is immutable after New and
// safe for concurrent use.
type Codec struct {
	defaultAlg   Algorithm
	allowed      map[string]struct{}
	leeway       time.Duration
	maxTokenSize int
	clock        Clock
	logger       *slog.Logger
	metrics      *instruments
}

// New creates a Codec with optional configuration
func New(config ...Config) (*Codec, error) {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	} else {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	if cfg.DefaultAlgorithm == "" {
		cfg.DefaultAlgorithm = HS256
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	metrics, err := newInstruments(cfg.MeterProvider)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var allowed map[string]struct{}
	if len(cfg.AllowedAlgorithms) > 0 {
		allowed = lo.SliceToMap(cfg.AllowedAlgorithms, func(a Algorithm) (string, struct{}) {
			return string(a), struct{}{}
		})
	}

	return &Codec{
		defaultAlg:   cfg.DefaultAlgorithm,
		allowed:      allowed,
		leeway:       cfg.Leeway,
		maxTokenSize: cfg.MaxTokenSize,
		clock:        cfg.Clock,
		logger:       cfg.Logger,
		metrics:      metrics,
	}, nil
}

// Encode signs claims with key under alg and returns the token. An empty alg
// selects the configured default algorithm.
func (c *Codec) Encode(claims Claims, key string, alg Algorithm) (string, error) {
	return c.EncodeContext(context.Background(), claims, key, alg)
}

// EncodeContext is Encode with a context for cancellation and telemetry.
func (c *Codec) EncodeContext(ctx context.Context, claims Claims, key string, alg Algorithm) (string, error) {
	if claims == nil {
		return c.finishEncode(ctx, alg, "", fmt.Errorf("%w: claims must be a non-nil mapping", ErrInvalidArgument))
	}
	return c.encode(ctx, map[string]any(claims), key, alg, nil)
}

// EncodeValue signs any value whose JSON form is an object, such as a struct
// with json tags.
func (c *Codec) EncodeValue(v any, key string, alg Algorithm) (string, error) {
	return c.encode(context.Background(), v, key, alg, nil)
}

// EncodeWithHeader is Encode with extra header fields such as "kid". The
// "typ" and "alg" fields are always set by the codec.
func (c *Codec) EncodeWithHeader(claims Claims, key string, alg Algorithm, header Header) (string, error) {
	if claims == nil {
		return c.finishEncode(context.Background(), alg, "", fmt.Errorf("%w: claims must be a non-nil mapping", ErrInvalidArgument))
	}
	return c.encode(context.Background(), map[string]any(claims), key, alg, header)
}

// EncodeWithID stamps a fresh random "jti" claim on a copy of claims and
// returns the token together with the generated ID.
func (c *Codec) EncodeWithID(claims Claims, key string, alg Algorithm) (string, string, error) {
	if claims == nil {
		_, err := c.EncodeContext(context.Background(), nil, key, alg)
		return "", "", err
	}

	stamped := make(Claims, len(claims)+1)
	for k, v := range claims {
		stamped[k] = v
	}
	id := uuid.NewString()
	stamped["jti"] = id

	token, err := c.Encode(stamped, key, alg)
	if err != nil {
		return "", "", err
	}
	return token, id, nil
}

func (c *Codec) encode(ctx context.Context, claims any, key string, alg Algorithm, extra Header) (string, error) {
	if alg == "" {
		alg = c.defaultAlg
	}
	if err := ctx.Err(); err != nil {
		return c.finishEncode(ctx, alg, "", err)
	}
	if key == "" {
		return c.finishEncode(ctx, alg, "", fmt.Errorf("%w: key must not be empty", ErrInvalidArgument))
	}

	method, err := signing.Lookup(string(alg))
	if err != nil {
		return c.finishEncode(ctx, alg, "", err)
	}

	token, err := core.SignedString(core.NewHeader(method, extra), claims, method, []byte(key))
	if errors.Is(err, core.ErrNotObject) {
		err = fmt.Errorf("%w: claims must serialize to a JSON object: %v", ErrInvalidArgument, err)
	}
	return c.finishEncode(ctx, alg, token, err)
}

func (c *Codec) finishEncode(ctx context.Context, alg Algorithm, token string, err error) (string, error) {
	c.metrics.recordEncode(ctx, string(alg), err)
	c.logEvent(ctx, tokenEvent{Operation: "encode", Algorithm: string(alg), Token: token, Err: err})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Decode verifies token with key and returns its claims. The token must carry
// typ "JWT", a registered alg, a valid signature and, when present, numeric
// exp and nbf claims that bracket the current time.
func (c *Codec) Decode(token, key string) (Claims, error) {
	return c.DecodeContext(context.Background(), token, key)
}

// DecodeContext is Decode with a context for cancellation and telemetry.
func (c *Codec) DecodeContext(ctx context.Context, token, key string) (Claims, error) {
	start := time.Now()
	if key == "" {
		return c.finishDecode(ctx, "", token, true, start, nil,
			fmt.Errorf("%w: key is required to verify a token", ErrInvalidArgument))
	}
	return c.decode(ctx, start, token, []byte(key), true)
}

// DecodeUnverified returns the claims without checking the signature, the
// header or any time bound. The result must not be trusted.
func (c *Codec) DecodeUnverified(token string) (Claims, error) {
	return c.decode(context.Background(), time.Now(), token, nil, false)
}

// DecodeHeader returns the unverified header, typically to pick a key by
// "kid" before calling Decode.
func (c *Codec) DecodeHeader(token string) (Header, error) {
	header, err := core.ParseHeader(token, c.maxTokenSize)
	if err != nil {
		return nil, err
	}
	return Header(header), nil
}

func (c *Codec) decode(ctx context.Context, start time.Time, token string, key []byte, verify bool) (Claims, error) {
	if err := ctx.Err(); err != nil {
		return c.finishDecode(ctx, "", token, verify, start, nil, err)
	}

	parsed, err := core.Parse(token, c.maxTokenSize)
	if err != nil {
		return c.finishDecode(ctx, "", token, verify, start, nil, err)
	}

	header := Header(parsed.Header)
	claims := Claims(parsed.Claims)
	if !verify {
		return c.finishDecode(ctx, header.Algorithm(), token, verify, start, claims, nil)
	}

	err = c.verify(parsed, header, claims, key)
	return c.finishDecode(ctx, header.Algorithm(), token, verify, start, claims, err)
}

func (c *Codec) verify(parsed *core.Token, header Header, claims Claims, key []byte) error {
	if err := validateHeader(header); err != nil {
		return err
	}
	if err := validateTimeClaimTypes(claims); err != nil {
		return err
	}

	method, err := c.lookupAllowed(header.Algorithm())
	if err != nil {
		return err
	}

	ok, err := method.Verify(parsed.SigningInput(), parsed.Signature, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSignatureVerification
	}

	return validateTimeWindow(claims, c.clock.Now(), c.leeway)
}

func (c *Codec) lookupAllowed(alg string) (signing.Method, error) {
	method, err := signing.Lookup(alg)
	if err != nil {
		return nil, err
	}
	if c.allowed != nil {
		if _, ok := c.allowed[alg]; !ok {
			return nil, fmt.Errorf("%w: %q is not allowed by this codec", ErrUnsupportedAlgorithm, alg)
		}
	}
	return method, nil
}

func (c *Codec) finishDecode(ctx context.Context, alg, token string, verified bool, start time.Time, claims Claims, err error) (Claims, error) {
	elapsed := time.Since(start)
	c.metrics.recordDecode(ctx, alg, verified, err, elapsed)
	c.logEvent(ctx, tokenEvent{
		Operation: "decode",
		Algorithm: alg,
		Verified:  verified,
		Token:     token,
		Err:       err,
		Latency:   elapsed,
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
