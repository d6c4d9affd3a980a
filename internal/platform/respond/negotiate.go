package respond

import (
	"strconv"
	"strings"
)

type format int

const (
	formatJSON format = iota
	formatCBOR
)

// mediaMatch is the best Accept range seen for a format: highest quality first,
// then the most specific range among equal qualities.
type mediaMatch struct {
	q           float64
	specificity int
	matched     bool
}

func (m *mediaMatch) offer(q float64, specificity int) {
	if !m.matched || q > m.q || (q == m.q && specificity > m.specificity) {
		*m = mediaMatch{q: q, specificity: specificity, matched: true}
	}
}

// selectFormat picks the problem encoding for an Accept header. JSON is the default:
// wildcards only ever grant JSON, and CBOR must be requested explicitly with a strictly
// higher quality or, at equal quality, a more specific range (problem+cbor over json).
func selectFormat(accept string) format {
	var jsonMatch, cborMatch mediaMatch
	for _, part := range strings.Split(accept, ",") {
		mediaType, q, ok := parseMediaRange(part)
		if !ok {
			continue
		}
		switch mediaType {
		case "application/problem+cbor":
			cborMatch.offer(q, 3)
		case "application/cbor":
			cborMatch.offer(q, 2)
		case "application/problem+json":
			jsonMatch.offer(q, 3)
		case "application/json":
			jsonMatch.offer(q, 2)
		case "application/*":
			jsonMatch.offer(q, 1)
		case "*/*":
			jsonMatch.offer(q, 0)
		}
	}

	if !cborMatch.matched || cborMatch.q <= 0 {
		return formatJSON
	}
	if !jsonMatch.matched || cborMatch.q > jsonMatch.q {
		return formatCBOR
	}
	if cborMatch.q == jsonMatch.q && cborMatch.specificity > jsonMatch.specificity {
		return formatCBOR
	}
	return formatJSON
}

// parseMediaRange returns the lower-cased media type and its quality. A missing or
// malformed q parameter counts as 1; values outside [0,1] are clamped.
func parseMediaRange(part string) (string, float64, bool) {
	params := strings.Split(part, ";")
	mediaType := strings.ToLower(strings.TrimSpace(params[0]))
	if mediaType == "" || !strings.Contains(mediaType, "/") {
		return "", 0, false
	}
	q := 1.0
	for _, p := range params[1:] {
		key, value, found := strings.Cut(strings.TrimSpace(p), "=")
		if !found || strings.TrimSpace(strings.ToLower(key)) != "q" {
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			continue
		}
		q = min(max(parsed, 0), 1)
	}
	return mediaType, q, true
}
