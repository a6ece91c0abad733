package logging

import (
	"strings"

	"go.uber.org/zap"
)

// amznTraceHeader is added by the Application Load Balancer in front of the ECS service.
// Format: Root=1-5759e988-bd862e3fe1be46a994272793;Parent=53995c3f42cd8ad8;Sampled=1
const amznTraceHeader = "X-Amzn-Trace-Id"

type xrayTrace struct {
	root    string
	parent  string
	sampled string
}

func parseTraceHeader(header string) (xrayTrace, bool) {
	var tr xrayTrace
	for part := range strings.SplitSeq(header, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "Root":
			tr.root = value
		case "Parent":
			tr.parent = value
		case "Sampled":
			tr.sampled = value
		}
	}
	if !validRoot(tr.root) {
		return xrayTrace{}, false
	}
	return tr, true
}

// validRoot checks the "1-{8 hex time}-{24 hex id}" shape of an X-Ray root id.
func validRoot(root string) bool {
	if len(root) != 35 || root[0] != '1' || root[1] != '-' || root[10] != '-' {
		return false
	}
	for i := 2; i < len(root); i++ {
		if i == 10 {
			continue
		}
		if !isHex(root[i]) {
			return false
		}
	}
	return true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func loggerWithTrace(base *zap.Logger, header, requestID string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	fields := traceFields(header)
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

func traceFields(header string) []zap.Field {
	tr, ok := parseTraceHeader(header)
	if !ok {
		return nil
	}
	fields := []zap.Field{zap.String("xray.trace_id", tr.root)}
	if tr.parent != "" {
		fields = append(fields, zap.String("xray.parent_id", tr.parent))
	}
	if tr.sampled == "0" || tr.sampled == "1" {
		fields = append(fields, zap.Bool("xray.sampled", tr.sampled == "1"))
	}
	return fields
}

func traceRoot(header string) string {
	tr, ok := parseTraceHeader(header)
	if !ok {
		return ""
	}
	return tr.root
}
