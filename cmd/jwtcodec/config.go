package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cybergodev/jwtcodec"
)

const envPrefix = "JWTCODEC"

// options are the settings that may come from flags, JWTCODEC_* environment
// variables or a config file, in that order of precedence.
type options struct {
	Algorithm         string        `mapstructure:"alg" validate:"omitempty,jwtalg"`
	AllowedAlgorithms []string      `mapstructure:"allowed-algs" validate:"dive,jwtalg"`
	Key               string        `mapstructure:"key"`
	KeyFile           string        `mapstructure:"key-file" validate:"omitempty,file"`
	Leeway            time.Duration `mapstructure:"leeway" validate:"gte=0s,lte=24h"`
	MaxTokenSize      int           `mapstructure:"max-token-size" validate:"gte=0"`
	Verbose           bool          `mapstructure:"verbose"`
}

// keySource is validated only by commands that need key material.
type keySource struct {
	Key     string `validate:"required_without=KeyFile,excluded_with=KeyFile"`
	KeyFile string `validate:"required_without=Key"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("jwtalg", func(fl validator.FieldLevel) bool {
		return jwtcodec.Algorithm(fl.Field().String()).Valid()
	})
	return v
}

// addCommonFlags registers the flags every command understands.
func addCommonFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (yaml, json or toml)")
	fs.Bool("verbose", false, "log debug events to stderr")
	fs.Duration("leeway", 0, "clock skew tolerance for exp and nbf")
	fs.Int("max-token-size", jwtcodec.DefaultConfig().MaxTokenSize, "reject tokens longer than this many bytes (0 disables)")
	fs.StringSlice("allowed-algs", nil, "algorithms accepted when decoding (default all)")
}

func addKeyFlags(fs *pflag.FlagSet) {
	fs.String("key", "", "HMAC secret or RSA key in PEM")
	fs.String("key-file", "", "file holding the key, read verbatim (PEM or DER)")
}

func loadOptions(fs *pflag.FlagSet) (*options, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var opts options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validate.Struct(&opts); err != nil {
		return nil, fmt.Errorf("%w: %v", jwtcodec.ErrInvalidConfig, err)
	}
	return &opts, nil
}

func (o *options) key() (string, error) {
	src := keySource{Key: o.Key, KeyFile: o.KeyFile}
	if err := validate.Struct(&src); err != nil {
		return "", errors.New("exactly one of --key or --key-file is required")
	}
	if o.Key != "" {
		return o.Key, nil
	}
	data, err := os.ReadFile(o.KeyFile)
	if err != nil {
		return "", fmt.Errorf("read key file: %w", err)
	}
	return string(data), nil
}

func (o *options) newCodec(logger *slog.Logger) (*jwtcodec.Codec, error) {
	return jwtcodec.New(jwtcodec.Config{
		DefaultAlgorithm: jwtcodec.Algorithm(o.Algorithm),
		AllowedAlgorithms: lo.Map(o.AllowedAlgorithms, func(a string, _ int) jwtcodec.Algorithm {
			return jwtcodec.Algorithm(a)
		}),
		Leeway:       o.Leeway,
		MaxTokenSize: o.MaxTokenSize,
		Logger:       logger,
	})
}
