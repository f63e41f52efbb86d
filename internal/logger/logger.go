package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var once sync.Once
var Log zerolog.Logger

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// consoleLogger writes human-readable lines with millisecond timestamps.
// Colours are only used when w is a terminal.
func consoleLogger(w io.Writer) zerolog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: timeFormat,
		NoColor:    noColor,
	}
	return zerolog.New(output).With().Timestamp().Logger()
}

func configure() {
	zerolog.TimeFieldFormat = timeFormat
	Log = consoleLogger(os.Stdout)
}

// GetLoggerConfigured also sets the global level, so a test can silence
// packages that grabbed the logger during init.
func GetLoggerConfigured(level zerolog.Level) *zerolog.Logger {
	once.Do(configure)
	zerolog.SetGlobalLevel(level)
	return &Log
}

func GetLogger() *zerolog.Logger {
	once.Do(configure)
	return &Log
}

// SetLevel changes the global level by name ("debug", "info", ...).
func SetLevel(name string) error {
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

// SetOutput redirects every package logger to w. Not safe while other
// goroutines are logging.
func SetOutput(w io.Writer) {
	once.Do(configure)
	Log = consoleLogger(w)
}
