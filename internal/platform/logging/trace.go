package logging

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// W3C Trace Context: {version}-{trace-id}-{parent-id}-{trace-flags}
var traceparentRe = regexp.MustCompile(`^([0-9a-fA-F]{2})-([0-9a-fA-F]{32})-([0-9a-fA-F]{16})-([0-9a-fA-F]{2})$`)

var (
	projectIDOnce   sync.Once
	cachedProjectID string
)

// cloudTrace is a traceparent header resolved against a Google Cloud project.
type cloudTrace struct {
	resource string
	spanID   string
	sampled  bool
}

// parseTraceparent returns ok=false when the header is malformed or no project is known.
func parseTraceparent(header, projectID string) (cloudTrace, bool) {
	if projectID == "" {
		return cloudTrace{}, false
	}
	m := traceparentRe.FindStringSubmatch(header)
	if len(m) != 5 {
		return cloudTrace{}, false
	}
	return cloudTrace{
		resource: fmt.Sprintf("projects/%s/traces/%s", projectID, m[2]),
		spanID:   m[3],
		sampled:  m[4] == "01",
	}, true
}

func (t cloudTrace) fields() []zap.Field {
	return []zap.Field{
		zap.String("logging.googleapis.com/trace", t.resource),
		zap.String("logging.googleapis.com/spanId", t.spanID),
		zap.Bool("logging.googleapis.com/trace_sampled", t.sampled),
	}
}

// requestLogger derives a logger carrying trace and request id fields. It returns
// the correlation id to store in the context: the trace resource, else the request id.
func requestLogger(base *zap.Logger, header, projectID, requestID string) (*zap.Logger, string) {
	if base == nil {
		base = zap.NewNop()
	}
	var fields []zap.Field
	correlation := requestID
	if trace, ok := parseTraceparent(header, projectID); ok {
		fields = append(fields, trace.fields()...)
		correlation = trace.resource
	}
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base, correlation
	}
	return base.With(fields...), correlation
}

func resolveProjectID() string {
	projectIDOnce.Do(func() {
		for _, key := range []string{"GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "GCLOUD_PROJECT", "PROJECT_ID"} {
			if v := os.Getenv(key); v != "" {
				cachedProjectID = v
				return
			}
		}
	})
	return cachedProjectID
}
