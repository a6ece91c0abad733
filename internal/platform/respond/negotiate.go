package respond

import (
	"strconv"
	"strings"
)

type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

// parseAccept splits an Accept header into media ranges. Malformed or
// out-of-range q values are treated as 1.0; a bare type becomes type/*.
func parseAccept(header string) []mediaRange {
	var ranges []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		params := strings.Split(part, ";")
		mt := strings.ToLower(strings.TrimSpace(params[0]))
		if mt == "" {
			continue
		}
		mr := mediaRange{q: 1.0}
		if typ, sub, ok := strings.Cut(mt, "/"); ok {
			mr.typ, mr.subtype = strings.TrimSpace(typ), strings.TrimSpace(sub)
		} else {
			mr.typ, mr.subtype = mt, "*"
		}
		for _, p := range params[1:] {
			key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
			if !ok || strings.TrimSpace(key) != "q" {
				continue
			}
			if q, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil && q >= 0 && q <= 1 {
				mr.q = q
			}
		}
		ranges = append(ranges, mr)
	}
	return ranges
}

// specificity ranks how closely r names the given format (json or cbor).
// -1 means no match.
func (r mediaRange) specificity(format string) int {
	switch {
	case r.typ == "*" && r.subtype == "*":
		return 0
	case r.typ != "application":
		return -1
	case r.subtype == "*":
		return 1
	case r.subtype == format || r.subtype == "*+"+format:
		return 2
	case r.subtype == "problem+"+format:
		return 3
	default:
		return -1
	}
}

// preference returns the q value of the most specific range matching format.
func preference(ranges []mediaRange, format string) (q float64, spec int) {
	spec = -1
	for _, r := range ranges {
		s := r.specificity(format)
		if s > spec || (s == spec && r.q > q) {
			spec, q = s, r.q
		}
	}
	if spec < 0 {
		return 0, -1
	}
	return q, spec
}

// selectFormat reports whether the client prefers CBOR over JSON. The q value
// decides first and specificity breaks ties; JSON wins anything left.
func selectFormat(accept string) bool {
	if accept == "" {
		return false
	}
	ranges := parseAccept(accept)
	cborQ, cborSpec := preference(ranges, "cbor")
	jsonQ, jsonSpec := preference(ranges, "json")
	if cborQ <= 0 {
		return false
	}
	return cborQ > jsonQ || (cborQ == jsonQ && cborSpec > jsonSpec)
}
