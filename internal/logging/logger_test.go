package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

// testLogger captures output in a buffer at the given level.
func testLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{
		level:  level,
		output: &buf,
		fields: make(map[string]interface{}),
	}, &buf
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	logger, buf := testLogger(WARN)

	logger.Debug("turn phase")
	logger.Info("server started")
	if buf.Len() > 0 {
		t.Errorf("DEBUG/INFO leaked through WARN level: %q", buf.String())
	}

	logger.Warn("broadcast queue full")
	logger.Error("shutdown error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want WARN and ERROR only", len(lines))
	}
	if !strings.Contains(lines[0], "[WARN]") || !strings.Contains(lines[1], "[ERROR]") {
		t.Errorf("output = %q, want WARN then ERROR", buf.String())
	}
}

func TestLogger_FormatArgs(t *testing.T) {
	logger, buf := testLogger(DEBUG)

	logger.Info("tool call failed: %v", "boom")

	if !strings.Contains(buf.String(), "tool call failed: boom") {
		t.Errorf("output = %q, want formatted message", buf.String())
	}
}

func TestLogger_FieldsRendered(t *testing.T) {
	logger, buf := testLogger(DEBUG)

	logger.WithFields(map[string]interface{}{
		"turn": "ab12cd34",
		"mode": "planner",
	}).Debug("turn phase")

	output := buf.String()
	if !strings.Contains(output, "turn=ab12cd34") {
		t.Errorf("output %q missing turn field", output)
	}
	if !strings.Contains(output, "mode=planner") {
		t.Errorf("output %q missing mode field", output)
	}
}

func TestLogger_WithFieldDoesNotMutateParent(t *testing.T) {
	base, _ := testLogger(INFO)
	base.fields["base"] = "value"

	derived := base.WithField("turn", "ab12cd34")
	derived.fields["extra"] = "value"

	if derived.fields["base"] != "value" {
		t.Error("derived logger lost the parent field")
	}
	if _, ok := base.fields["turn"]; ok {
		t.Error("WithField mutated the parent logger")
	}
	if _, ok := base.fields["extra"]; ok {
		t.Error("writing to the derived logger reached the parent")
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	origOutput := defaultLogger.output
	origLevel := defaultLogger.level
	defer func() {
		defaultLogger.output = origOutput
		defaultLogger.level = origLevel
	}()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(DEBUG)

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")

	output := buf.String()
	for _, level := range []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]"} {
		if !strings.Contains(output, level) {
			t.Errorf("output missing %s line", level)
		}
	}

	// The daemon bumps the level for --debug; everything below is dropped.
	buf.Reset()
	SetLevel(ERROR)
	Debug("hidden")
	Info("hidden")
	if buf.Len() > 0 {
		t.Errorf("messages leaked through ERROR level: %q", buf.String())
	}
}

func TestLogger_ConcurrentWrites(t *testing.T) {
	logger, buf := testLogger(DEBUG)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info("message %d", n)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 10 {
		t.Errorf("got %d lines, want 10 intact lines", len(lines))
	}
}
