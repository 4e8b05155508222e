package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	HeaderOwnerID     = "X-Owner-ID"
	HeaderProxySecret = "X-Proxy-Secret"
)

// OwnerMiddlewareHandler trusts the owner id set by the fronting auth proxy.
type OwnerMiddlewareHandler struct {
	proxySecret          string
	allowedPaths         map[string]bool
	allowedPathsPrefixes []string
}

// NewOwnerMiddlewareHandler checks the proxy secret header on every owner
// request when proxySecret is set.
func NewOwnerMiddlewareHandler(proxySecret string) *OwnerMiddlewareHandler {
	return &OwnerMiddlewareHandler{
		proxySecret: proxySecret,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
		},
		allowedPathsPrefixes: []string{
			// the catalog is not owner scoped
			"/gym/exercises",
		},
	}
}

func (h *OwnerMiddlewareHandler) pathIsAlwaysAllowed(path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	for _, prefix := range h.allowedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *OwnerMiddlewareHandler) OwnerCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.owner")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			ownerID := strings.TrimSpace(r.Header.Get(HeaderOwnerID))
			secretOK := h.proxySecret == "" ||
				subtle.ConstantTimeCompare([]byte(r.Header.Get(HeaderProxySecret)), []byte(h.proxySecret)) == 1

			if ownerID != "" && secretOK {
				span.SetAttributes(attribute.String("owner.id", ownerID))
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r.WithContext(gym.WithOwner(ctx, ownerID)))
				return
			}

			if h.pathIsAlwaysAllowed(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if !secretOK {
				log.Warnf("[owner middleware] bad proxy secret => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "bad-proxy-secret")
				return
			}

			log.Tracef("[missing owner] [owner middleware] unauthorized => %s", r.URL.Path)
			http.Error(w, "no can do", http.StatusUnauthorized)
			span.SetStatus(codes.Error, "missing-owner")
		})
	}
}
