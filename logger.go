package jwtcodec

import (
	"context"
	"log/slog"
	"time"
)

// tokenEvent is a structured log entry for one encode or decode call. Keys
// are never part of it and tokens are redacted.
type tokenEvent struct {
	Operation string
	Algorithm string
	Verified  bool
	Token     string
	Err       error
	Latency   time.Duration
}

// LogValue implements slog.LogValuer
func (e tokenEvent) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("op", e.Operation),
		slog.String("alg", e.Algorithm),
		slog.Bool("verified", e.Verified),
		slog.String("token", redactToken(e.Token)),
		slog.Duration("latency", e.Latency),
	}
	if e.Err != nil {
		attrs = append(attrs,
			slog.String("failure_reason", ErrorKind(e.Err)),
			slog.String("error", e.Err.Error()),
		)
	}
	return slog.GroupValue(attrs...)
}

func redactToken(token string) string {
	if len(token) == 0 {
		return ""
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "..."
}

func (c *Codec) logEvent(ctx context.Context, e tokenEvent) {
	switch {
	case e.Err == nil:
		c.logger.LogAttrs(ctx, slog.LevelDebug, "token "+e.Operation+"d", slog.Any("jwt", e))
	case e.Verified:
		c.logger.LogAttrs(ctx, slog.LevelWarn, "token rejected", slog.Any("jwt", e))
	default:
		c.logger.LogAttrs(ctx, slog.LevelDebug, "token "+e.Operation+" failed", slog.Any("jwt", e))
	}
}
