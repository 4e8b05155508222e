package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogRequest traces each request on the way in and its status and duration on
// the way out.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			entry := log.WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"route":  routeTemplate(r),
				"owner":  r.Header.Get(HeaderOwnerID),
			})
			entry.WithField("ua", r.Header.Get("User-Agent")).Trace(" ====> request")

			started := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			entry.WithFields(log.Fields{
				"status":   rw.statusCode,
				"duration": time.Since(started).String(),
			}).Trace(" <==== response")
		})
	}
}
