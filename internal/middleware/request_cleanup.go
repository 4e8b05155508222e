package middleware

import (
	"io"
	"net/http"
)

// bodies bigger than this are closed without draining
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest consumes what is left of the request body once the
// handler returns, so the keep-alive connection can take the next request.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil || r.Body == http.NoBody {
				return
			}
			_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
			_ = r.Body.Close()
		})
	}
}
