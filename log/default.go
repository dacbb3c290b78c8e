package log

import (
	"log/slog"
	"os"
	"strings"
)

var (
	// $LINEMSG_LOG_LEVEL
	verbose slog.LevelVar
)

// Verbose returns the current log level.
func Verbose() slog.Level {
	return verbose.Level()
}

// SetLevel parses and sets the level of the default logger.
// An empty string keeps the current level.
func SetLevel(s string) error {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	level, err := ParseLevel(s)
	if err != nil {
		return err
	}
	verbose.Set(level)
	return nil
}

func init() {

	// default:
	verbose.Set(
		// -"debug" ; [ +"info" ] ; +"warn" ; +"error"
		slog.LevelInfo,
	)

	// CUSTOM
	_ = SetLevel(os.Getenv("LINEMSG_LOG_LEVEL"))

	// log[/slog]
	slog.SetDefault(slog.New(
		Console(os.Stderr, &verbose),
	))
}
