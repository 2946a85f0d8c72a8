package debug

import (
	"bytes"
	"strings"
	"testing"

	"text2midi/theme"
)

func TestEnable_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Enable(&buf, "loud", nil); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestLogger_Prefix(t *testing.T) {
	var buf bytes.Buffer
	if err := Enable(&buf, "info", nil); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer Disable()

	Logger("table").Info("loaded", "rows", 3)

	out := buf.String()
	if !strings.Contains(out, "table") || !strings.Contains(out, "loaded") || !strings.Contains(out, "rows=3") {
		t.Errorf("unexpected log output: %q", out)
	}
}

func TestLog_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Enable(&buf, "info", theme.Default()); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer Disable()

	Log("sequencer", "note %d", 1)
	if buf.Len() != 0 {
		t.Errorf("debug message written at info level: %q", buf.String())
	}

	if err := Enable(&buf, "debug", theme.Default()); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	Log("sequencer", "note %d", 1)
	if !strings.Contains(buf.String(), "note 1") {
		t.Errorf("debug message missing: %q", buf.String())
	}
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	if err := Enable(&buf, "debug", nil); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, "table", "row")
	}
	if got := strings.Count(buf.String(), "every 5"); got != 2 {
		t.Errorf("expected 2 log lines, got %d: %q", got, buf.String())
	}
}

func TestDisable(t *testing.T) {
	var buf bytes.Buffer
	if err := Enable(&buf, "debug", nil); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	Disable()
	Logger("cli").Error("dropped")
	if buf.Len() != 0 {
		t.Errorf("output after Disable: %q", buf.String())
	}
}
