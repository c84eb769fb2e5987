package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

// Setup installs a JSON slog logger as the process default and returns it.
// Every line carries the service name, plus the deployment environment when
// set, so aggregated output from several spotwin processes stays
// attributable.
func Setup(service, env string) *slog.Logger {
	return setup(os.Stdout, service, env)
}

func setup(w io.Writer, service, env string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		ReplaceAttr: renameAttr,
	})

	logger := slog.New(handler).With(slog.String("service", strings.TrimSpace(service)))
	if env = strings.TrimSpace(env); env != "" {
		logger = logger.With(slog.String("env", env))
	}
	slog.SetDefault(logger)

	// Route the standard library logger through the same handler so stray
	// log.Printf calls in dependencies keep the JSON shape.
	bridge := slog.NewLogLogger(logger.Handler(), slog.LevelInfo)
	bridge.SetFlags(0)
	log.SetOutput(bridge.Writer())
	log.SetFlags(0)
	log.SetPrefix("")

	return logger
}

// renameAttr maps slog's default keys onto the field names the log pipeline
// indexes on.
func renameAttr(_ []string, attr slog.Attr) slog.Attr {
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "timestamp"
	case slog.LevelKey:
		return slog.String("severity", strings.ToUpper(attr.Value.String()))
	case slog.MessageKey:
		attr.Key = "message"
	}
	return attr
}
