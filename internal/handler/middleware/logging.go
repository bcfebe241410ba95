package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"parkshare/internal/pkg/config"
	"parkshare/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const (
	ctxRequestIDKey  = "request_id"
	headerRequestID  = "X-Request-ID"
	maxErrStackLines = 12
)

func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = generateRequestID(startTime)
		}
		c.Set(ctxRequestIDKey, requestID)
		c.Header(headerRequestID, requestID)

		logAttrs := []slog.Attr{
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("client_ip", c.ClientIP()),
		}

		logger.LogAttrs(c.Request.Context(), slog.LevelDebug, "Request started", logAttrs...)

		c.Next()

		// identity is only known once auth middleware has run
		if userID, role := extractUserContext(c); userID != "" {
			logAttrs = append(logAttrs, slog.String("user_id", userID), slog.String("role", role))
		}

		statusCode := c.Writer.Status()
		logAttrs = append(logAttrs,
			slog.Int("status_code", statusCode),
			slog.Duration("duration", time.Since(startTime)),
		)

		if responseSize := c.Writer.Size(); responseSize > 0 {
			logAttrs = append(logAttrs, slog.Int("response_size", responseSize))
		}

		if len(c.Errors) > 0 {
			logAttrs = append(logAttrs, slog.String("errors", c.Errors.String()))
		}

		logLevel := slog.LevelInfo
		if statusCode >= 500 {
			logLevel = slog.LevelError
			if last := c.Errors.Last(); last != nil {
				logAttrs = append(logAttrs, slog.Any("stack", errs.ExtractStackLines(last.Err, maxErrStackLines)))
			}
		} else if statusCode >= 400 {
			logLevel = slog.LevelWarn
		}

		logger.LogAttrs(c.Request.Context(), logLevel, "Request completed", logAttrs...)
	}
}

// NewLogger builds the process logger: JSON in release mode, text otherwise.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	timezone := time.FixedZone(cfg.TimeZone, cfg.TimeZoneOffset)

	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.In(timezone).Format(cfg.TimeFormat))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if gin.Mode() == gin.ReleaseMode {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(ctxRequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

func generateRequestID(now time.Time) string {
	timestamp := now.UTC().Format("20060102150405")

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Sprintf("%s-fallback-%d", timestamp, now.UnixNano()%100000000)
	}

	return fmt.Sprintf("%s-%s", timestamp, hex.EncodeToString(randomBytes))
}

func extractUserContext(c *gin.Context) (userID, role string) {
	if claims, exists := c.Get("jwt_claims"); exists {
		if claimsMap, ok := claims.(map[string]any); ok {
			userID, _ = claimsMap["user_id"].(string)
			role, _ = claimsMap["role"].(string)
		}
	}
	return
}
