package logging

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// captureLogOutput captures a single log entry emitted by logFn and returns it as a map.
func captureLogOutput(t *testing.T, logFn func(*zap.Logger)) map[string]any {
	t.Helper()

	resetLoggerForTest()
	t.Cleanup(resetLoggerForTest)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer func() { _ = r.Close() }()

	origStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	logger := Logger()
	logFn(logger)
	_ = logger.Sync()

	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close writer: %v", closeErr)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read log output: %v", err)
	}

	line := strings.TrimSpace(string(data))
	if line == "" {
		t.Fatalf("expected log output, got empty string")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("failed to unmarshal log JSON: %v", err)
	}
	return payload
}

// resetLoggerForTest clears the singleton state so tests can capture fresh log output.
func resetLoggerForTest() {
	loggerOnce = sync.Once{}
	baseLogger = nil
	loggerErr = nil
}

func TestLoggerStructuredOutput(t *testing.T) {
	payload := captureLogOutput(t, func(l *zap.Logger) {
		l.Info("GET /hello/World")
	})

	if got := payload["severity"]; got != "INFO" {
		t.Fatalf("expected severity INFO, got %v", got)
	}
	if _, exists := payload["level"]; exists {
		t.Fatalf("did not expect level field")
	}
	if msg, ok := payload["message"].(string); !ok || msg != "GET /hello/World" {
		t.Fatalf("expected message 'GET /hello/World', got %v", payload["message"])
	}
	ts, ok := payload["timestamp"].(string)
	if !ok {
		t.Fatalf("expected timestamp field to be a string, got %T", payload["timestamp"])
	}
	if _, err := time.Parse(RFC3339Micros, ts); err != nil {
		t.Fatalf("timestamp is not RFC3339Micros: %v", err)
	}
	if _, ok := payload["caller"]; !ok {
		t.Fatalf("expected caller field, got %v", payload)
	}
}

func TestWarnStructuredOutput(t *testing.T) {
	payload := captureLogOutput(t, func(l *zap.Logger) {
		l.Warn("slow response", zap.Int("latency_ms", 120))
	})

	if got := payload["severity"]; got != "WARNING" {
		t.Fatalf("expected severity WARNING, got %v", got)
	}
	if latency, ok := payload["latency_ms"].(float64); !ok || latency != 120 {
		t.Fatalf("expected latency_ms 120, got %v", payload["latency_ms"])
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv(levelEnv, "debug")
	payload := captureLogOutput(t, func(l *zap.Logger) {
		l.Debug("verbose")
	})
	if got := payload["severity"]; got != "DEBUG" {
		t.Fatalf("expected severity DEBUG, got %v", got)
	}
}

func TestInvalidLogLevelReportsErr(t *testing.T) {
	t.Setenv(levelEnv, "chatty")
	resetLoggerForTest()
	t.Cleanup(resetLoggerForTest)

	if Logger() == nil {
		t.Fatal("expected a usable logger despite the invalid level")
	}
	if err := Err(); err == nil || !strings.Contains(err.Error(), levelEnv) {
		t.Fatalf("expected error mentioning %s, got %v", levelEnv, err)
	}
}

func TestEncodeSeverityMapping(t *testing.T) {
	tests := []struct {
		level    zapcore.Level
		expected string
	}{
		{zapcore.DebugLevel, "DEBUG"},
		{zapcore.InfoLevel, "INFO"},
		{zapcore.WarnLevel, "WARNING"},
		{zapcore.ErrorLevel, "ERROR"},
		{zapcore.DPanicLevel, "CRITICAL"},
		{zapcore.PanicLevel, "ALERT"},
		{zapcore.FatalLevel, "EMERGENCY"},
		{zapcore.Level(99), "DEFAULT"},
	}

	for _, tt := range tests {
		enc := &captureArrayEncoder{}
		encodeSeverity(tt.level, enc)
		if len(enc.values) != 1 || enc.values[0] != tt.expected {
			t.Fatalf("encodeSeverity(%v) = %v, want %s", tt.level, enc.values, tt.expected)
		}
	}
}

func TestEncodeTimeMicrosFormatsCorrectly(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{"utc with micros", time.Date(2024, 6, 15, 10, 30, 45, 123456000, time.UTC), "2024-06-15T10:30:45.123456Z"},
		{"zero micros", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024-01-01T00:00:00.000000Z"},
		{"converts to utc", time.Date(2024, 6, 15, 12, 0, 0, 500000000, time.FixedZone("EST", -5*60*60)), "2024-06-15T17:00:00.500000Z"},
		{"truncates nanos", time.Date(2024, 3, 20, 8, 15, 30, 999999999, time.UTC), "2024-03-20T08:15:30.999999Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := &captureArrayEncoder{}
			encodeTimeMicros(tt.input, enc)
			if len(enc.values) != 1 || enc.values[0] != tt.expected {
				t.Fatalf("encodeTimeMicros() = %v, want %s", enc.values, tt.expected)
			}
		})
	}
}

func TestLoggerSingletonBehavior(t *testing.T) {
	resetLoggerForTest()
	t.Cleanup(resetLoggerForTest)

	if Logger() != Logger() {
		t.Fatal("expected Logger() to return the same instance")
	}
}

func TestErrReturnsNilOnSuccess(t *testing.T) {
	resetLoggerForTest()
	t.Cleanup(resetLoggerForTest)

	if err := Err(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestLoggerConcurrentAccess(t *testing.T) {
	resetLoggerForTest()
	t.Cleanup(resetLoggerForTest)

	const n = 50
	results := make(chan *zap.Logger, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- Logger()
		}()
	}
	wg.Wait()
	close(results)

	var first *zap.Logger
	for l := range results {
		if first == nil {
			first = l
			continue
		}
		if l != first {
			t.Fatal("concurrent Logger() calls returned different instances")
		}
	}
}

// captureArrayEncoder collects strings appended via the PrimitiveArrayEncoder interface.
type captureArrayEncoder struct {
	values []string
}

func (c *captureArrayEncoder) AppendBool(bool)             {}
func (c *captureArrayEncoder) AppendByteString([]byte)     {}
func (c *captureArrayEncoder) AppendComplex128(complex128) {}
func (c *captureArrayEncoder) AppendComplex64(complex64)   {}
func (c *captureArrayEncoder) AppendFloat64(float64)       {}
func (c *captureArrayEncoder) AppendFloat32(float32)       {}
func (c *captureArrayEncoder) AppendInt(int)               {}
func (c *captureArrayEncoder) AppendInt64(int64)           {}
func (c *captureArrayEncoder) AppendInt32(int32)           {}
func (c *captureArrayEncoder) AppendInt16(int16)           {}
func (c *captureArrayEncoder) AppendInt8(int8)             {}
func (c *captureArrayEncoder) AppendString(s string)       { c.values = append(c.values, s) }
func (c *captureArrayEncoder) AppendUint(uint)             {}
func (c *captureArrayEncoder) AppendUint64(uint64)         {}
func (c *captureArrayEncoder) AppendUint32(uint32)         {}
func (c *captureArrayEncoder) AppendUint16(uint16)         {}
func (c *captureArrayEncoder) AppendUint8(uint8)           {}
func (c *captureArrayEncoder) AppendUintptr(uintptr)       {}
