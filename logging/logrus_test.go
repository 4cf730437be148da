package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSimpleFormatterLine(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogrusLogger(Options{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	log.WithFields(map[string]interface{}{"tick": 3, "entity": "1v0"}).Debugf("landed at %.1f", 1.5)

	line := buf.String()
	for _, want := range []string{"[DEB] landed at 1.5", "entity=1v0 tick=3"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("expected trailing newline")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogrusLogger(Options{Level: "warn", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.Infof("hidden")
	log.Warnf("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestJSONFormatAndUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewLogrusLogger(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.WithField("state", "skill1").Infof("enter")
	if !strings.Contains(buf.String(), `"state":"skill1"`) {
		t.Fatalf("expected json field, got %q", buf.String())
	}

	if _, err := NewLogrusLogger(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestNopLogger(t *testing.T) {
	l := OrNop(nil)
	l.WithField("a", 1).WithFields(nil).Infof("ignored")
}
