package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestOwnerMiddlewareHandler_OwnerCheck(t *testing.T) {
	testCases := []struct {
		name               string
		proxySecret        string
		path               string
		method             string
		ownerHeader        string
		secretHeader       string
		expectedStatusCode int
		expectedOwner      string
	}{
		{
			name:               "OwnerHeader",
			path:               "/gym/sessions",
			method:             "GET",
			ownerHeader:        "u1",
			expectedStatusCode: http.StatusOK,
			expectedOwner:      "u1",
		},
		{
			name:               "MissingOwner",
			path:               "/gym/sessions",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "BlankOwner",
			path:               "/gym/templates",
			method:             "POST",
			ownerHeader:        "   ",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "CatalogWithoutOwner",
			path:               "/gym/exercises",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "MCPWithoutOwner",
			path:               "/mcp",
			method:             "POST",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "MCPWithoutProxySecret",
			proxySecret:        "s3cret",
			path:               "/mcp",
			method:             "POST",
			ownerHeader:        "u1",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "Options",
			path:               "/gym/sessions",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "ProxySecretMatches",
			proxySecret:        "s3cret",
			path:               "/gym/plans",
			method:             "GET",
			ownerHeader:        "u2",
			secretHeader:       "s3cret",
			expectedStatusCode: http.StatusOK,
			expectedOwner:      "u2",
		},
		{
			name:               "ProxySecretWrong",
			proxySecret:        "s3cret",
			path:               "/gym/plans",
			method:             "GET",
			ownerHeader:        "u2",
			secretHeader:       "guess",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "ProxySecretWrongOnPublicPath",
			proxySecret:        "s3cret",
			path:               "/gym/exercises/Barbell_Curl",
			method:             "GET",
			ownerHeader:        "u2",
			secretHeader:       "guess",
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotOwner string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotOwner, _ = gym.OwnerFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := middleware.NewOwnerMiddlewareHandler(tc.proxySecret).OwnerCheck()(next)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.ownerHeader != "" {
				req.Header.Set(middleware.HeaderOwnerID, tc.ownerHeader)
			}
			if tc.secretHeader != "" {
				req.Header.Set(middleware.HeaderProxySecret, tc.secretHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectedOwner, gotOwner)
		})
	}
}
