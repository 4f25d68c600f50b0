package gamelog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestHandlerPrefixes(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelInfo, "[Info] hello\n"},
		{slog.LevelWarn, "[Warning] hello\n"},
		{slog.LevelError, "[Error] hello\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		l := slog.New(NewHandler(&buf, nil))
		l.Log(context.Background(), tt.level, "hello")
		if buf.String() != tt.want {
			t.Errorf("level %v: got %q, want %q", tt.level, buf.String(), tt.want)
		}
	}
}

func TestHandlerColor(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, &Options{Color: true}))

	l.Error("boom")
	got := buf.String()
	if !strings.HasPrefix(got, colorRed+"[Error] boom") {
		t.Errorf("error line not red: %q", got)
	}
	if !strings.HasSuffix(got, colorReset+"\n") {
		t.Errorf("colour not reset at end of line: %q", got)
	}

	buf.Reset()
	l.Info("ok")
	if !strings.HasPrefix(buf.String(), colorGreen) {
		t.Errorf("info line not green: %q", buf.String())
	}

	buf.Reset()
	l.Warn("careful")
	if !strings.HasPrefix(buf.String(), colorYellow) {
		t.Errorf("warning line not yellow: %q", buf.String())
	}
}

func TestHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, &Options{Level: slog.LevelWarn}))

	l.Info("dropped")
	l.Debug("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warning, got %q", buf.String())
	}

	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("warning line missing: %q", buf.String())
	}
}

func TestHandlerAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, nil)).With("stage", "device").WithGroup("queue")

	l.Info("created", "family", 2, "name", "graphics queue")
	want := `[Info] created stage=device queue.family=2 queue.name="graphics queue"` + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLoggerWarning(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, false)

	l.Warning("layer missing", "layer", "VK_LAYER_KHRONOS_validation")
	want := "[Warning] layer missing layer=VK_LAYER_KHRONOS_validation\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLoggerVerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug written without verbose: %q", buf.String())
	}

	New(&buf, true, false).Debug("shown")
	if buf.String() != "[Debug] shown\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestLoggerFatal(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, true)

	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal(errors.New("failed to create device"))

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	want := colorRed + "[Error] failed to create device" + colorReset + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLoggerFatalVerboseIncludesStack(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true, false)
	l.exit = func(int) {}

	l.Fatal(errors.New("failed to create device"))

	if !strings.Contains(buf.String(), "TestLoggerFatalVerboseIncludesStack") {
		t.Errorf("expected stack trace in verbose fatal output, got %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard logger should not be enabled for errors")
	}
}
