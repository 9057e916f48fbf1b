package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	orig := GetGlobalLogger()
	t.Cleanup(func() {
		SetGlobalLogger(orig)
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	})
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{"INFO", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, false},
		{"WARNING", zerolog.WarnLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"ERROR", zerolog.ErrorLevel, false},
		{"CRITICAL", zerolog.FatalLevel, false},
		{" info ", zerolog.InfoLevel, false},
		{"verbose", zerolog.NoLevel, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestSetupEmptyLevelIsNoop(t *testing.T) {
	restoreGlobals(t)
	before := GetGlobalLogger()

	var buf bytes.Buffer
	if err := SetupWithWriter(&buf, "", "svc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GetGlobalLogger() != before {
		t.Error("empty level must not replace the global logger")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestSetupFormat(t *testing.T) {
	restoreGlobals(t)

	var buf bytes.Buffer
	if err := SetupWithWriter(&buf, "INFO", "billing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Logging initialized.") {
		t.Fatalf("expected confirmation message, got %q", out)
	}
	for _, want := range []string{
		"INFO",
		"billing",
		fmt.Sprintf("(%d):", os.Getpid()),
		"setup.go:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if !strings.HasPrefix(out, "[") {
		t.Errorf("expected bracketed timestamp first, got %q", out)
	}
}

func TestSetupThreshold(t *testing.T) {
	restoreGlobals(t)

	var buf bytes.Buffer
	if err := SetupWithWriter(&buf, "ERROR", "svc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Info("should be filtered")
	Error("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Errorf("info line leaked past ERROR threshold: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("expected error line, got %q", out)
	}
}

func TestSetupTwiceDoesNotDuplicate(t *testing.T) {
	restoreGlobals(t)

	var first, second bytes.Buffer
	if err := SetupWithWriter(&first, "INFO", "svc"); err != nil {
		t.Fatal(err)
	}
	if err := SetupWithWriter(&second, "INFO", "svc"); err != nil {
		t.Fatal(err)
	}
	first.Reset()
	second.Reset()

	Info("once")
	if first.Len() != 0 {
		t.Errorf("replaced writer still receives lines: %q", first.String())
	}
	if n := strings.Count(second.String(), "once"); n != 1 {
		t.Errorf("expected exactly one line, got %d in %q", n, second.String())
	}
}

func TestSetupInvalidLevel(t *testing.T) {
	restoreGlobals(t)
	if err := SetupWithWriter(&bytes.Buffer{}, "LOUD", "svc"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestCallerPointsAtCallSite(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel, "svc")
	l.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "logger_test.go:") {
		t.Errorf("expected caller file in %q", out)
	}
	if !strings.Contains(out, "TestCallerPointsAtCallSite") {
		t.Errorf("expected caller function in %q", out)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel, "svc").WithComponent("probes")
	if l.service != "svc" {
		t.Errorf("service should be preserved, got %q", l.service)
	}
	l.Warn("careful", Fields("attempt", 2))

	out := buf.String()
	if !strings.Contains(out, "probes") {
		t.Errorf("expected component in %q", out)
	}
	if !strings.Contains(out, "attempt=2") {
		t.Errorf("expected field in %q", out)
	}
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, zerolog.DebugLevel, "svc").WithComponent("probes").WithComponent("reactor")
	l.Info("hello")

	var event map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if event[FieldComponent] != "reactor" {
		t.Errorf("component = %v, want reactor", event[FieldComponent])
	}
	if n := strings.Count(buf.String(), `"`+FieldComponent+`"`); n != 1 {
		t.Errorf("expected one component key, got %d in %s", n, buf.String())
	}
	if _, ok := event[FieldPID]; !ok {
		t.Errorf("expected pid to survive WithComponent in %s", buf.String())
	}
}

func TestWriterAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel, "svc")
	w := l.Writer(zerolog.ErrorLevel)

	n, err := w.Write([]byte("http: TLS handshake error\n"))
	if err != nil || n == 0 {
		t.Fatalf("unexpected write result n=%d err=%v", n, err)
	}
	if !strings.Contains(buf.String(), "ERROR") || !strings.Contains(buf.String(), "TLS handshake error") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestFields(t *testing.T) {
	f := Fields("op", "save", "id", 42, "dangling")
	if f["op"] != "save" || f["id"] != 42 {
		t.Errorf("unexpected fields %v", f)
	}
	if _, ok := f["dangling"]; ok {
		t.Error("odd trailing key must be dropped")
	}
}

func TestErrorFields(t *testing.T) {
	f := ErrorFields("liveness", fmt.Errorf("db down"))
	if f[FieldOperation] != "liveness" || f[FieldError] != "db down" {
		t.Errorf("unexpected fields %v", f)
	}
	if _, ok := ErrorFields("x", nil)[FieldError]; ok {
		t.Error("nil error must not produce an error field")
	}
}
