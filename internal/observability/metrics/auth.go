package metrics

import "github.com/rodaworks/academy/internal/observability/statsd"

// EmitLogin counts credential login attempts, tagged by outcome.
func EmitLogin(sink statsd.Sink, success bool) {
	if sink == nil {
		return
	}

	result := "failure"
	if success {
		result = "success"
	}
	sink.Count("auth.logins", 1, map[string]string{"result": result})
}
