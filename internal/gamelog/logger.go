// Package gamelog provides the leveled console logger used by the renderer
// and the hello_triangle command.
//
// Lines are rendered as "[Level] message key=value ..." and coloured by
// severity: Info is green, Warning yellow, Error red. Logger wraps a
// *slog.Logger so callers can also hand it to anything that speaks slog.
package gamelog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// Options configures a Handler.
type Options struct {
	// Level is the minimum level written. Defaults to slog.LevelInfo.
	Level slog.Leveler
	// Color enables ANSI colour escapes around each line.
	Color bool
}

// Handler is a slog.Handler that writes one coloured line per record.
type Handler struct {
	mu    *sync.Mutex
	out   io.Writer
	opts  Options
	pre   string
	group string
}

// NewHandler creates a Handler writing to out.
func NewHandler(out io.Writer, opts *Options) *Handler {
	h := &Handler{mu: &sync.Mutex{}, out: out}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	prefix, color := levelPrefix(r.Level)
	if h.opts.Color {
		sb.WriteString(color)
	}
	sb.WriteString(prefix)
	sb.WriteByte(' ')
	sb.WriteString(r.Message)

	sb.WriteString(h.pre)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.group, a)
		return true
	})

	if h.opts.Color {
		sb.WriteString(colorReset)
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, sb.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	for _, a := range attrs {
		writeAttr(&sb, h.group, a)
	}
	h2 := *h
	h2.pre += sb.String()
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	if h2.group != "" {
		h2.group += "." + name
	} else {
		h2.group = name
	}
	return &h2
}

func levelPrefix(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return "[Error]", colorRed
	case level >= slog.LevelWarn:
		return "[Warning]", colorYellow
	case level >= slog.LevelInfo:
		return "[Info]", colorGreen
	default:
		return "[Debug]", colorGray
	}
}

func writeAttr(sb *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := a.Key
		if group != "" {
			sub = group + "." + a.Key
		}
		for _, ga := range a.Value.Group() {
			writeAttr(sb, sub, ga)
		}
		return
	}

	sb.WriteByte(' ')
	if group != "" {
		sb.WriteString(group)
		sb.WriteByte('.')
	}
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\"=") {
		val = fmt.Sprintf("%q", val)
	}
	sb.WriteString(val)
}

// Logger is the process logger. The zero value is not usable; use New.
type Logger struct {
	*slog.Logger

	verbose bool
	exit    func(int)
}

// New creates a Logger writing to out. Verbose lowers the level to Debug and
// makes Fatal print the full error detail, including stack traces.
func New(out io.Writer, verbose, color bool) *Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return &Logger{
		Logger:  slog.New(NewHandler(out, &Options{Level: level, Color: color})),
		verbose: verbose,
		exit:    os.Exit,
	}
}

// Discard returns a Logger that drops everything. Used by tests.
func Discard() *Logger {
	return &Logger{
		Logger: slog.New(NewHandler(io.Discard, &Options{Level: slog.LevelError + 1})),
		exit:   os.Exit,
	}
}

// Warning logs at warning level.
func (l *Logger) Warning(msg string, args ...any) {
	l.Logger.Warn(msg, args...)
}

// With returns a Logger carrying the given attributes on every line.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), verbose: l.verbose, exit: l.exit}
}

// Fatal logs err at error level and terminates the process with status 1.
func (l *Logger) Fatal(err error) {
	if l.verbose {
		l.Logger.Error(fmt.Sprintf("%+v", err))
	} else {
		l.Logger.Error(err.Error())
	}
	l.exit(1)
}
