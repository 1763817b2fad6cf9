package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	outputMu sync.RWMutex
	output   io.Writer = os.Stderr
	console  bool
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// Configure sets the global level and output format. Format is "json" or
// "console"; an empty value keeps the APP_ENV based default.
func Configure(level, format string) error {
	if level != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("logging level %q: %w", level, err)
		}
		zerolog.SetGlobalLevel(lvl)
	}
	outputMu.Lock()
	defer outputMu.Unlock()
	switch strings.ToLower(format) {
	case "":
		console = strings.ToLower(os.Getenv("APP_ENV")) == "dev"
	case "json":
		console = false
	case "console", "text":
		console = true
	default:
		return fmt.Errorf("logging format %q: want json or console", format)
	}
	return nil
}

// SetOutput redirects loggers created afterwards.
func SetOutput(w io.Writer) {
	outputMu.Lock()
	output = w
	outputMu.Unlock()
}

// NewZerologLogger creates a ZerologLogger tagged with the component field.
// APP_ENV=dev selects the console writer unless Configure chose a format.
func NewZerologLogger(component string) Logger {
	outputMu.RLock()
	w, pretty := output, console
	outputMu.RUnlock()
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		pretty = true
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Infow(msg string, fields map[string]any) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
