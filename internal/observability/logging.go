package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-component-service/internal/config"
	"github.com/tbourn/go-component-service/internal/sysutil"
)

// logOutput is where SetupLogging writes; tests swap it.
var logOutput io.Writer = os.Stdout

// SetupLogging configures the global zerolog logger from cfg:
//
//   - level from LOG_LEVEL (see sysutil.SetLogLevel)
//   - JSON lines by default, human-readable console output when LOG_PRETTY
//   - RFC 3339 timestamps with nanoseconds
//   - a "component" field carrying COMPONENT_NAME on every line
//
// It returns the configured logger, which is also installed as log.Logger.
func SetupLogging(cfg config.Config) zerolog.Logger {
	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = logOutput
	if cfg.LogPretty {
		w = zerolog.ConsoleWriter{
			Out:        logOutput,
			TimeFormat: time.RFC3339,
			NoColor:    sysutil.IsTruthy(os.Getenv("NO_COLOR")),
		}
	}

	l := zerolog.New(w).With().
		Timestamp().
		Str("component", cfg.ComponentName).
		Logger()
	log.Logger = l
	return l
}
