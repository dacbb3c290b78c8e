package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	sfmt "github.com/samber/slog-formatter"
)

// Extra levels beyond the slog defaults
const (
	LevelTrace = slog.LevelDebug - 4
	LevelFatal = slog.LevelError + 4
)

// ParseLevel parses a level name with an optional offset,
// e.g. "debug", "INFO", "warn+2", "trace-1".
func ParseLevel(s string) (v slog.Level, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("log: level string %q: %w", s, err)
		}
	}()

	name := s
	offset := 0
	if i := strings.IndexAny(s, "+-"); i >= 0 {
		name = s[:i]
		offset, err = strconv.Atoi(s[i:])
		if err != nil {
			return // info, err
		}
	}
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		v = LevelTrace
	case "DEBUG":
		v = slog.LevelDebug
	case "INFO":
		v = slog.LevelInfo
	case "WARN":
		v = slog.LevelWarn
	case "ERROR":
		v = slog.LevelError
	case "FATAL":
		v = LevelFatal
	default:
		err = errors.New("unknown name")
		return // info, err
	}
	v += slog.Level(offset)
	return // v, nil
}

// colorize reports whether output is a terminal
// and colors are enabled with $LINEMSG_LOG_COLOR.
func colorize(output io.Writer) bool {
	enabled, _ := strconv.ParseBool(
		os.Getenv("LINEMSG_LOG_COLOR"),
	)
	if !enabled {
		return false
	}
	file, ok := output.(interface{ Fd() uintptr })
	return ok && isatty.IsTerminal(file.Fd())
}

// Console returns the human readable handler
// writing records at or above level to output.
func Console(output io.Writer, level slog.Leveler) slog.Handler {
	return sfmt.NewFormatterHandler(
		sfmt.ErrorFormatter("error"),
	)(
		tint.NewHandler(output, &tint.Options{
			AddSource:  false,
			Level:      level,
			TimeFormat: "Jan 02 15:04:05.000", // time.StampMilli,
			NoColor:    !colorize(output),
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == slog.LevelKey && len(groups) == 0 {
					if lvl, ok := attr.Value.Any().(slog.Level); ok {
						switch {
						case lvl < slog.LevelDebug:
							attr.Value = slog.StringValue("TRC")
						case lvl >= LevelFatal:
							attr.Value = slog.StringValue("FTL")
						}
					}
				}
				return attr
			},
		}),
	)
}
