// Package metrics names the console's metrics and their tags in one place.
package metrics

import (
	"time"

	obserrors "github.com/wishara/admin-console/internal/observability/errors"
	"github.com/wishara/admin-console/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// EmitAuth counts a session lifecycle event: login, logout or teardown.
func EmitAuth(sink statsd.Sink, event string, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"event": event, "result": result(err)}
	if err != nil {
		tags["error_class"] = obserrors.Classify(err)
	}
	sink.Count("auth.event", 1, tags)
}

// EmitBackendCall records one content API round trip.
func EmitBackendCall(sink statsd.Sink, method string, status int, d time.Duration) {
	if sink == nil {
		return
	}
	class := "5xx"
	switch {
	case status == 0:
		class = "transport"
	case status < 300:
		class = "2xx"
	case status < 500:
		class = "4xx"
	}
	tags := map[string]string{"method": method, "status_class": class}
	sink.Count("backend.request", 1, tags)
	sink.Timing("backend.duration", d, tags)
}

// EmitPushTransition counts a notification token lifecycle transition.
func EmitPushTransition(sink statsd.Sink, from, to string) {
	if sink == nil {
		return
	}
	sink.Count("push.transition", 1, map[string]string{"from": from, "to": to})
}
