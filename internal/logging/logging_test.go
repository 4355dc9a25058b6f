package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLevel_FromEnv(t *testing.T) {
	cases := map[string]log.Level{
		"":        log.WarnLevel,
		"debug":   log.DebugLevel,
		" ERROR ": log.ErrorLevel,
		"bogus":   log.WarnLevel,
	}
	for raw, want := range cases {
		t.Setenv(EnvLevel, raw)
		if got := Level(); got != want {
			t.Fatalf("%q: got %v, want %v", raw, got, want)
		}
	}
}

func TestNewWithWriter_PrefixesComponent(t *testing.T) {
	t.Setenv(EnvLevel, "info")
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "attachment")
	l.Info("upload resolved", "file", "a.png")

	out := buf.String()
	if !strings.Contains(out, "attachment") || !strings.Contains(out, "upload resolved") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatalf("expected a logger")
	}
	l := Discard()
	if OrDiscard(l) != l {
		t.Fatalf("expected the same logger back")
	}
}
