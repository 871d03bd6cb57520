package logging

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core).Named("controller").With(String("request_id", "r1"))

	l.Warn("ai extraction failed",
		String("failure_kind", "timeout"),
		Int("attempt", 2),
		Duration("elapsed", 3*time.Second),
		Err(errors.New("deadline exceeded")))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.LoggerName != "controller" || e.Level != zapcore.WarnLevel {
		t.Errorf("entry = %s/%s", e.LoggerName, e.Level)
	}
	fields := e.ContextMap()
	if fields["request_id"] != "r1" || fields["failure_kind"] != "timeout" || fields["error"] != "deadline exceeded" {
		t.Errorf("fields = %v", fields)
	}
	if fields["attempt"] != int64(2) {
		t.Errorf("attempt = %#v", fields["attempt"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"WARN":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"":      zapcore.InfoLevel,
		"bogus": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(LogConfig{Level: "debug", Format: format, OutputPaths: []string{"stderr"}})
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		l.Debug("ready")
	}
}

func TestDefaultAndOrDefault(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := Default()
	defer SetDefault(prev)

	SetDefault(NewLoggerFromCore(core))
	SetDefault(nil)
	OrDefault(nil).Info("via default")

	if logs.Len() != 1 {
		t.Errorf("default logger not used, got %d entries", logs.Len())
	}
	if OrDefault(NewNopLogger()) == Default() {
		t.Error("explicit logger should win")
	}
}
