package log

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	woeerrors "github.com/YuminosukeSato/woebin/pkg/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = StacktraceKey
)

// SetupLogger installs a zerolog provider writing to w at the given level and
// routes library warnings through it. A nil writer means stderr.
func SetupLogger(loglevel string, w io.Writer) error {
	level, err := ToLogLevel(loglevel)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	p := NewZerologProvider(w, level)
	SetProvider(p)
	woeerrors.SetZerologWarnFunc(p.warn)
	return nil
}

// ToLogLevel parses "debug", "info", "warn" or "error".
func ToLogLevel(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, woeerrors.NewValidationError("log_level", "must be one of debug, info, warn, error", level)
	}
}

// ErrAttr is a helper to pass err as a structured field.
//
//	logger.Error("save failed", log.ErrAttr(err)...)
func ErrAttr(err error) []any {
	return []any{ErrAttrKey, err}
}
