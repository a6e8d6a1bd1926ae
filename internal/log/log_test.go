package log

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestLevelsAndOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel(LevelWarn)

	SetLevel(LevelWarn)
	Info("hidden info")
	Warn("shown warning", "line", 3)
	Error("shown error", errors.New("boom"), "path", "x.ics")

	out := buf.String()
	if strings.Contains(out, "hidden info") {
		t.Errorf("info logged at warn level: %q", out)
	}
	for _, want := range []string{"WARN", "shown warning", "ERROR", "boom", "x.ics"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}

	buf.Reset()
	SetLevel(LevelDebug)
	Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug not logged at debug level: %q", buf.String())
	}
	if !enabled(LevelDebug) {
		t.Error("enabled(LevelDebug) = false at debug level")
	}
}

func TestLevelForVerbosity(t *testing.T) {
	cases := map[int]Level{-1: LevelWarn, 0: LevelWarn, 1: LevelInfo, 2: LevelDebug, 5: LevelDebug}
	for v, want := range cases {
		if got := LevelForVerbosity(v); got != want {
			t.Errorf("LevelForVerbosity(%d) = %s, want %s", v, got, want)
		}
	}
}
