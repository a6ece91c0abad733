package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testRoot = "1-5759e988-bd862e3fe1be46a994272793"

func TestTraceFields(t *testing.T) {
	header := "Root=" + testRoot + ";Parent=53995c3f42cd8ad8;Sampled=1"

	fields := traceFields(header)
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].Key != "xray.trace_id" || fields[0].String != testRoot {
		t.Fatalf("unexpected trace field: %+v", fields[0])
	}
	if fields[1].Key != "xray.parent_id" || fields[1].String != "53995c3f42cd8ad8" {
		t.Fatalf("unexpected parent field: %+v", fields[1])
	}
	if fields[2].Key != "xray.sampled" || fields[2].Type != zapcore.BoolType || fields[2].Integer != 1 {
		t.Fatalf("unexpected sampled field: %+v", fields[2])
	}
}

func TestTraceFieldsRootOnly(t *testing.T) {
	// The load balancer sends only the root segment when no upstream tracer is present.
	fields := traceFields("Root=" + testRoot)
	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].String != testRoot {
		t.Fatalf("unexpected trace field: %+v", fields[0])
	}
}

func TestTraceFieldsNotSampled(t *testing.T) {
	fields := traceFields("Root=" + testRoot + ";Sampled=0")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[1].Key != "xray.sampled" || fields[1].Integer != 0 {
		t.Fatalf("expected unsampled field, got %+v", fields[1])
	}
}

func TestTraceFieldsInvalid(t *testing.T) {
	tests := []string{
		"",
		"invalid",
		"Root=2-5759e988-bd862e3fe1be46a994272793",
		"Root=1-5759e988-bd862e3fe1be46a99427279",
		"Root=1-5759e98g-bd862e3fe1be46a994272793",
		"Parent=53995c3f42cd8ad8;Sampled=1",
	}
	for _, header := range tests {
		if fields := traceFields(header); fields != nil {
			t.Fatalf("expected nil fields for %q, got %v", header, fields)
		}
		if root := traceRoot(header); root != "" {
			t.Fatalf("expected empty root for %q, got %q", header, root)
		}
	}
}

func TestTraceRoot(t *testing.T) {
	if got := traceRoot("Self=1-67891234-12456789abcdef012345678;Root=" + testRoot); got != testRoot {
		t.Fatalf("expected %s, got %q", testRoot, got)
	}
}

func TestLoggerWithTraceAddsRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	logger := loggerWithTrace(zap.New(core), "Root="+testRoot, "req-1")
	logger.Info("hello")

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := fieldMap(entries[0])
	if fields["xray.trace_id"].String != testRoot {
		t.Fatalf("expected trace field, got %+v", fields)
	}
	if fields["requestId"].String != "req-1" {
		t.Fatalf("expected requestId field, got %+v", fields)
	}
}

func TestLoggerWithTraceNoFieldsReturnsBase(t *testing.T) {
	base := zap.NewNop()
	if got := loggerWithTrace(base, "", ""); got != base {
		t.Fatal("expected base logger when no fields apply")
	}
	if got := loggerWithTrace(nil, "", ""); got == nil {
		t.Fatal("expected nop logger for nil base")
	}
}
