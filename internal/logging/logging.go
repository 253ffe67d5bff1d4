package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"

	"github.com/sebvdn/carte-gpx/internal/config"
)

// ParseLevel converts a string log level to a zerolog.Level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup builds the session logger. Output goes to the console with colors,
// to the given file without colors, and to Graylog when enabled. The file
// writer may be nil.
func Setup(file io.Writer, level string, graylog config.GraylogConfig) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	writers := []io.Writer{
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		},
	}
	if file != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
	}
	if graylog.Enabled {
		gw, err := gelf.NewWriter(graylog.Address)
		if err == nil {
			writers = append(writers, gw)
		}
		// a missing graylog endpoint never blocks local logging
	}

	mlw := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(mlw).With().Timestamp().Logger()
	logger.Info().Str("loglevel", logger.GetLevel().String()).Msg("Logging set up")
	return logger
}

// LogFilePath builds a log file path using OS-appropriate path separators.
func LogFilePath(logsDir string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("carte.%s.log", sessionStart.Format("20060102_150405")),
	)
}
