package metrics

import (
	"strconv"
	"time"

	"github.com/rodaworks/academy/internal/observability/statsd"
)

// RequestMetric captures details about a completed HTTP request for metric emission.
type RequestMetric struct {
	Method   string
	Route    string
	Status   int
	Duration time.Duration
}

// EmitHTTPRequest emits standardised request metrics: a counter tagged with
// method/route/status and a duration timing.
func EmitHTTPRequest(sink statsd.Sink, in RequestMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"method": in.Method,
		"route":  in.Route,
		"status": strconv.Itoa(in.Status),
	}

	sink.Count("http.requests", 1, tags)

	if in.Duration > 0 {
		sink.Timing("http.request_duration", in.Duration, CloneTags(tags))
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
