package cmds

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogSettings controls where and how verbosely promptweaver logs. Logs always
// go to stderr since stdout carries the rendered prompt.
type LogSettings struct {
	Level      string
	Format     string
	File       string
	WithCaller bool
	Verbose    bool
}

func (s LogSettings) level() (zerolog.Level, error) {
	if s.Verbose && s.Level != "trace" {
		return zerolog.DebugLevel, nil
	}
	if s.Level == "" {
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s.Level)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(err, "invalid log level %q", s.Level)
	}
	return lvl, nil
}

func (s LogSettings) writer(stderr io.Writer) io.Writer {
	var w io.Writer = stderr
	if s.Format != "json" {
		w = zerolog.ConsoleWriter{Out: stderr}
	}
	if s.File == "" {
		return w
	}

	rotated := &lumberjack.Logger{
		Filename:   s.File,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return zerolog.MultiLevelWriter(w, zerolog.ConsoleWriter{Out: rotated, NoColor: true})
}

// NewLogger builds the logger described by s, writing to stderr and to the
// rotated log file if one is configured.
func NewLogger(s LogSettings, stderr io.Writer) (zerolog.Logger, error) {
	lvl, err := s.level()
	if err != nil {
		return zerolog.Nop(), err
	}

	ctx := zerolog.New(s.writer(stderr)).Level(lvl).With().Timestamp()
	if s.WithCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), nil
}

// DefaultLogger is NewLogger writing to os.Stderr.
func DefaultLogger(s LogSettings) (zerolog.Logger, error) {
	return NewLogger(s, os.Stderr)
}
