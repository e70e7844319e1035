package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a middleware that logs each HTTP request as one JSON line through
// the global zerolog logger. Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (in milliseconds, as float)
func Logger() fiber.Handler {
	return accessLog(log.Logger)
}

// LoggerWithWriter is Logger writing to w instead of the global logger.
func LoggerWithWriter(w io.Writer) fiber.Handler {
	return accessLog(zerolog.New(w).With().Timestamp().Logger())
}

func accessLog(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		rid, _ := c.Locals(RequestIDLocalKey).(string)

		event := logger.Info()
		if status >= fiber.StatusInternalServerError {
			event = logger.Error()
		}
		event.
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Msg("request")

		return err
	}
}
