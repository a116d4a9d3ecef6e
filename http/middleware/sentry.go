package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/xy-planning-network/switchback"
)

// ReportPanic encloses the env and returns an Adapter that,
// outside development, wraps the passed in http.Handler in sentryhttp.Handle
// in order to report panics before passing them on.
func ReportPanic(env switchback.Environment) Adapter {
	if env.IsDevelopment() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: true,
	})

	return func(h http.Handler) http.Handler {
		return sh.Handle(h)
	}
}
