package btadapter

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l, err := NewLogger("warn", buf)
	if err != nil {
		t.Fatal(err)
	}

	l.Info("hidden")
	l.ChildLogger(map[string]interface{}{"session": "s1"}).Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info logged at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "session=s1") {
		t.Fatalf("missing warn line or tags: %q", out)
	}

	if _, err := NewLogger("loud", buf); err == nil {
		t.Fatal("expected error for bad level")
	}
}

func TestSetLogLevel(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	buf := &bytes.Buffer{}
	l, err := NewLogger("info", buf)
	if err != nil {
		t.Fatal(err)
	}
	SetLogger(l)

	GetLogger().Debug("before")
	if err := SetLogLevel("debug"); err != nil {
		t.Fatal(err)
	}
	GetLogger().Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Fatalf("level not applied: %q", out)
	}

	if err := SetLogLevel("loud"); err == nil {
		t.Fatal("expected error for bad level")
	}
}

// recordingLogger is a Logger that is not backed by logrus.
type recordingLogger struct {
	Logger
	warnings []string
}

func (r *recordingLogger) Warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, format)
}

func TestSetLogLevelCustomLogger(t *testing.T) {
	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	r := &recordingLogger{}
	SetLogger(r)

	if err := SetLogLevel("debug"); err != nil {
		t.Fatal(err)
	}
	if len(r.warnings) != 1 || !strings.Contains(r.warnings[0], "non-default logger") {
		t.Fatalf("expected one non-default logger warning, have %v", r.warnings)
	}
}
