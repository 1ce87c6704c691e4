package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"bogus": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	log.Info().Msg("refresh done")
	if !strings.Contains(buf.String(), "refresh done") {
		t.Fatalf("output = %q, want message", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))
	log := FromContext(ctx)
	log.Info().Msg("from ctx")
	if buf.Len() == 0 {
		t.Fatal("expected output from the context logger")
	}

	if FromContext(context.Background()).GetLevel() != zerolog.WarnLevel {
		t.Fatal("default logger should be warn level")
	}
}

func TestWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithFields(NewWithWriter(buf), map[string]any{"sheet": "PLAN", "rows": 12})
	log.Info().Msg("read")
	out := buf.String()
	if !strings.Contains(out, `"sheet":"PLAN"`) || !strings.Contains(out, `"rows":12`) {
		t.Fatalf("output = %q, want fields", out)
	}
}
