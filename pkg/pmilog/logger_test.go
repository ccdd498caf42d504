package pmilog

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewRespectsLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	l.Infof("should not appear")
	l.Warnf("should appear: %d", 42)

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("Infof logged below the Warn threshold: %q", out)
	}
	if !strings.Contains(out, "should appear: 42") {
		t.Errorf("Warnf message missing from output: %q", out)
	}
}

func TestTracefOnlyAppearsAtTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &buf})
	l.Tracef("trace line")
	if strings.Contains(buf.String(), "trace line") {
		t.Error("Tracef logged below the Trace threshold")
	}

	buf.Reset()
	l = New(Config{Level: LevelTrace, Format: FormatJSON, Output: &buf})
	l.Tracef("trace line")
	if !strings.Contains(buf.String(), "trace line") {
		t.Error("Tracef did not log at the Trace threshold")
	}
}

func TestWithFieldAddsStructuredField(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})
	child := l.WithField("mode", "pmix")
	child.Infof("hello")

	if !strings.Contains(buf.String(), `"mode":"pmix"`) {
		t.Errorf("output missing the mode field: %q", buf.String())
	}
}
