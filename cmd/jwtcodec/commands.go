package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/cybergodev/jwtcodec"
)

var timeNow = time.Now

func encodeFlags(fs *pflag.FlagSet) {
	fs.String("alg", string(jwtcodec.HS256), "signing algorithm")
	addKeyFlags(fs)
	fs.String("claims", "{}", "claims as a JSON object, or - to read stdin")
	fs.Duration("ttl", 0, "set exp (and iat) this far in the future")
	fs.Duration("nbf", 0, "set nbf relative to now")
	fs.Bool("jti", false, "stamp a random token ID")
	fs.String("kid", "", "key ID header")
}

func decodeFlags(fs *pflag.FlagSet) {
	addKeyFlags(fs)
	fs.Bool("unverified", false, "skip signature and time checks")
}

func runEncode(e *env, fs *pflag.FlagSet) error {
	opts, err := loadOptions(fs)
	if err != nil {
		return err
	}
	key, err := opts.key()
	if err != nil {
		return err
	}

	raw, _ := fs.GetString("claims")
	if raw == "-" {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return fmt.Errorf("read claims: %w", err)
		}
		raw = string(data)
	}
	claims, err := parseClaims(raw)
	if err != nil {
		return err
	}

	now := timeNow()
	if ttl, _ := fs.GetDuration("ttl"); ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
		if _, ok := claims["iat"]; !ok {
			claims["iat"] = now.Unix()
		}
	}
	if fs.Changed("nbf") {
		nbf, _ := fs.GetDuration("nbf")
		claims["nbf"] = now.Add(nbf).Unix()
	}
	if stamp, _ := fs.GetBool("jti"); stamp {
		claims["jti"] = uuid.NewString()
	}

	var header jwtcodec.Header
	if kid, _ := fs.GetString("kid"); kid != "" {
		header = jwtcodec.Header{"kid": kid}
	}

	codec, err := opts.newCodec(newLogger(e.stderr, opts.Verbose))
	if err != nil {
		return err
	}
	token, err := codec.EncodeWithHeader(claims, key, jwtcodec.Algorithm(opts.Algorithm), header)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(e.stdout, token)
	return err
}

func runDecode(e *env, fs *pflag.FlagSet) error {
	opts, err := loadOptions(fs)
	if err != nil {
		return err
	}
	token, err := readToken(e, fs)
	if err != nil {
		return err
	}
	codec, err := opts.newCodec(newLogger(e.stderr, opts.Verbose))
	if err != nil {
		return err
	}

	var claims jwtcodec.Claims
	if unverified, _ := fs.GetBool("unverified"); unverified {
		claims, err = codec.DecodeUnverified(token)
	} else {
		var key string
		if key, err = opts.key(); err != nil {
			return err
		}
		claims, err = codec.Decode(token, key)
	}
	if err != nil {
		return err
	}
	return writeJSON(e.stdout, claims)
}

func runInspect(e *env, fs *pflag.FlagSet) error {
	opts, err := loadOptions(fs)
	if err != nil {
		return err
	}
	token, err := readToken(e, fs)
	if err != nil {
		return err
	}
	codec, err := opts.newCodec(newLogger(e.stderr, opts.Verbose))
	if err != nil {
		return err
	}

	header, err := codec.DecodeHeader(token)
	if err != nil {
		return err
	}
	claims, err := codec.DecodeUnverified(token)
	if err != nil {
		return err
	}
	return writeJSON(e.stdout, map[string]any{"header": header, "claims": claims})
}

func runAlgs(e *env, _ *pflag.FlagSet) error {
	for _, alg := range jwtcodec.Algorithms() {
		family := "RSA"
		if alg.Symmetric() {
			family = "HMAC"
		}
		if _, err := fmt.Fprintf(e.stdout, "%s\t%s\n", alg, family); err != nil {
			return err
		}
	}
	return nil
}

// parseClaims reads a JSON object, keeping numbers as json.Number so large
// integers pass through unchanged.
func parseClaims(raw string) (jwtcodec.Claims, error) {
	// A decoder stops after the first value, so trailing input is checked here.
	if !json.Valid([]byte(raw)) {
		return nil, fmt.Errorf("%w: claims must be a JSON object: not a single valid JSON value", jwtcodec.ErrInvalidArgument)
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var claims jwtcodec.Claims
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: claims must be a JSON object: %v", jwtcodec.ErrInvalidArgument, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: claims must be a JSON object", jwtcodec.ErrInvalidArgument)
	}
	return claims, nil
}

func readToken(e *env, fs *pflag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", errors.New("expected exactly one TOKEN argument")
	}
	token := fs.Arg(0)
	if token == "-" {
		data, err := io.ReadAll(e.stdin)
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		token = string(data)
	}
	return strings.TrimSpace(token), nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
