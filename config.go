package jwtcodec

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/metric"

	"github.com/cybergodev/jwtcodec/internal/core"
	"github.com/cybergodev/jwtcodec/internal/signing"
)

// Config represents codec configuration
type Config struct {
	// DefaultAlgorithm is used by Encode when no algorithm is given
	DefaultAlgorithm Algorithm `yaml:"default_algorithm" json:"default_algorithm" validate:"omitempty,jwtalg"`

	// AllowedAlgorithms restricts which "alg" headers Decode accepts.
	// Empty means every registered algorithm.
	AllowedAlgorithms []Algorithm `yaml:"allowed_algorithms" json:"allowed_algorithms" validate:"dive,jwtalg"`

	// Leeway widens the exp/nbf window to absorb clock skew
	Leeway time.Duration `yaml:"leeway" json:"leeway" validate:"gte=0s,lte=24h"`

	// MaxTokenSize bounds the accepted token length in bytes (0 disables the bound)
	MaxTokenSize int `yaml:"max_token_size" json:"max_token_size" validate:"gte=0"`

	// Clock supplies the current time for exp/nbf checks
	Clock Clock `yaml:"-" json:"-" validate:"-"`

	// Logger receives encode/decode events; nil discards them
	Logger *slog.Logger `yaml:"-" json:"-" validate:"-"`

	// MeterProvider receives encode/decode metrics; nil disables them
	MeterProvider metric.MeterProvider `yaml:"-" json:"-" validate:"-"`
}

// DefaultConfig returns the configuration New uses when none is given
func DefaultConfig() Config {
	return Config{
		DefaultAlgorithm: HS256,
		MaxTokenSize:     core.DefaultMaxTokenSize,
	}
}

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("jwtalg", func(fl validator.FieldLevel) bool {
		_, err := signing.Lookup(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c == nil {
		return ErrInvalidConfig
	}
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
