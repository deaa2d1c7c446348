package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", LogInfo, func(l *log.Logger) { l.Info("interpreted") }, true},
		{"debug at info level", LogInfo, func(l *log.Logger) { l.Debug("stage complete") }, false},
		{"debug at debug level", LogDebug, func(l *log.Logger) { l.Debug("stage complete") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressStages(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogDebug))

	prog.stage("interpret", "form", "graph", "directives", 1)
	prog.stage("render", "formats", []string{"dot"})
	prog.done("Rendered layout.txt")

	out := buf.String()
	for _, want := range []string{"stage=interpret", "form=graph", "directives=1", "stage=render", "Rendered layout.txt ("} {
		if !strings.Contains(out, want) {
			t.Errorf("progress output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "stage=interpret") > strings.Index(out, "stage=render") {
		t.Errorf("stages logged out of order:\n%s", out)
	}
}

func TestProgressStagesHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, LogInfo))
	prog.stage("interpret")
	if buf.Len() != 0 {
		t.Errorf("stage should log at debug level only, got %q", buf.String())
	}
	prog.done("Interpreted <inline>")
	if !strings.Contains(buf.String(), "Interpreted <inline>") {
		t.Errorf("done should log at info level, got %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	custom := newLogger(&buf, LogInfo)

	if got := loggerFromContext(withLogger(context.Background(), custom)); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext should fall back to log.Default()")
	}
}

func TestCommandsLogThroughContext(t *testing.T) {
	c, _ := testCLI(t, "")
	var logs bytes.Buffer
	c.Logger = newLogger(&logs, LogDebug)

	base := t.TempDir() + "/out"
	if err := execute(c, "render", "-e", "layout graph criteria planarity", "-f", "dot", "-o", base, "--no-cache"); err != nil {
		t.Fatalf("render error: %v", err)
	}

	out := logs.String()
	for _, want := range []string{"stage=interpret", "form=graph", "stage=render", "Rendered <inline>"} {
		if !strings.Contains(out, want) {
			t.Errorf("render logs missing %q:\n%s", want, out)
		}
	}
}
