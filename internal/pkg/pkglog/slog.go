package pkglog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ServiceName is attached to every record emitted through the default logger.
const ServiceName = "godash"

//nolint:gochecknoglobals // shared level so config can raise or lower verbosity after boot
var level = new(slog.LevelVar)

// InitLogging configures the default slog logger for the application.
//
// Records are written as JSON to stdout with "ts", "severity" and a short
// "file" source reference. The level starts at info and can be changed later
// with SetLevel once configuration has been loaded.
func InitLogging() {
	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})

	slog.SetDefault(slog.New(&contextHandler{Handler: jsonHandler, service: ServiceName}))
}

// SetLevel changes the minimum level of the default logger.
// Unknown names leave the level untouched and report an error.
func SetLevel(name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}

	level.Set(lvl)
	return nil
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		if strings.Contains(src.File, "/internal/") {
			relPath := filepath.Join("internal", strings.SplitAfter(src.File, "/internal/")[1])
			return slog.Attr{
				Key:   "file",
				Value: slog.StringValue(fmt.Sprintf("%s:%d", relPath, src.Line)),
			}
		}
		return slog.Attr{}
	}
	return a
}

type contextHandler struct {
	slog.Handler
	service string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if cID := GetCorrelationID(ctx); cID != "" && cID != invalidCorrelationID {
		r.AddAttrs(slog.String("_cID", cID))
	}
	if h.service != "" {
		r.AddAttrs(slog.String("service", h.service))
	}

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), service: h.service}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), service: h.service}
}
