package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/2beens/gymprogress/internal/telemetry/metrics"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicRecovery turns a handler panic into a 500. The panic is counted, added
// to the request span and sent to sentry when it is set up.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				log.WithFields(log.Fields{
					"method": req.Method,
					"path":   req.URL.Path,
				}).Errorf("panic serving request: %v\n%s", rec, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				span := trace.SpanFromContext(req.Context())
				span.RecordError(fmt.Errorf("panic: %v", rec))
				span.SetStatus(codes.Error, "panic")
				sentry.CurrentHub().Recover(rec)

				http.Error(w, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, req)
		})
	}
}
