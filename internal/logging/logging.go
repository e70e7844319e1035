package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"ayopashop/internal/config"
)

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.999999999Z07:00"
}

// Setup configures the global zerolog logger from cfg and returns it.
// Entries are written as JSON lines to stdout and, when cfg.File is set, to a
// rotating file as well.
func Setup(cfg config.LogConfig) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))

	var w io.Writer = os.Stdout
	if cfg.File != "" {
		fw, err := fileWriter(cfg)
		if err != nil {
			log.Logger = New(os.Stdout)
			log.Error().Err(err).Str("path", cfg.File).Msg("failed to prepare log directory; logging to console only")
			return log.Logger
		}
		w = zerolog.MultiLevelWriter(os.Stdout, fw)
	}

	log.Logger = New(w)
	return log.Logger
}

// New returns a JSON logger writing to w with timestamps.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func fileWriter(cfg config.LogConfig) (io.Writer, error) {
	if dir := filepath.Dir(cfg.File); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}, nil
}
