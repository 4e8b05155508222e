package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/docstore/memstore"
	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/gym/catalog"
	"github.com/2beens/gymprogress/internal/gym/coverage"
	"github.com/2beens/gymprogress/internal/gym/sessions"
	"github.com/2beens/gymprogress/internal/middleware"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
)

var now = time.Date(2025, 3, 5, 19, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithSecret(t, "")
}

func newTestServerWithSecret(t *testing.T, proxySecret string) *httptest.Server {
	t.Helper()

	exercises, err := catalog.LoadExercises("gym/catalog/testdata/exercises.json")
	require.NoError(t, err)

	s := &Server{
		config: &config.Config{
			AllowedOrigins:     []string{"http://localhost:3000"},
			WeekStartsLocation: "UTC",
		},
		versionInfo:    "abc123",
		proxySecret:    proxySecret,
		docs:           memstore.New(),
		closeStore:     func() error { return nil },
		catalog:        catalog.New(exercises, 1),
		clock:          gym.FixedClock(now),
		metricsManager: metrics.NewTestManager(),
		otelShutdown:   func() {},
	}
	router, err := s.routerSetup()
	require.NoError(t, err)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func doRequest(t *testing.T, method, url, owner string, body any) (int, []byte) {
	t.Helper()
	header := http.Header{}
	if owner != "" {
		header.Set(middleware.HeaderOwnerID, owner)
	}
	return doRequestWithHeader(t, method, url, header, body)
}

func doRequestWithHeader(t *testing.T, method, url string, header http.Header, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func TestServer_PublicRoutes(t *testing.T) {
	ts := newTestServer(t)

	status, body := doRequest(t, http.MethodGet, ts.URL+"/", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "I'm OK, thanks", string(body))

	status, body = doRequest(t, http.MethodGet, ts.URL+"/version", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "abc123", string(body))

	status, body = doRequest(t, http.MethodGet, ts.URL+"/gym/exercises?q=curl", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Alternate_Incline_Dumbbell_Curl")

	status, _ = doRequest(t, http.MethodGet, ts.URL+"/gym/templates", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestServer_WorkoutFlow(t *testing.T) {
	ts := newTestServer(t)
	const owner = "u1"

	bench := gym.ExerciseRef{
		ExerciseID:       "Barbell_Bench_Press_-_Medium_Grip",
		Name:             "Barbell Bench Press - Medium Grip",
		PrimaryMuscles:   []string{"chest"},
		SecondaryMuscles: []string{"shoulders", "triceps"},
	}

	status, body := doRequest(t, http.MethodPost, ts.URL+"/gym/templates", owner, map[string]any{
		"name": "Push",
		"refs": []gym.ExerciseRef{bench},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var created map[string]string
	require.NoError(t, json.Unmarshal(body, &created))
	templateID := created["id"]
	require.NotEmpty(t, templateID)

	status, body = doRequest(t, http.MethodPost, ts.URL+"/gym/sessions", owner, map[string]string{
		"templateId": templateID,
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var session sessions.SessionResponse
	require.NoError(t, json.Unmarshal(body, &session))
	require.Len(t, session.Exercises, 1)
	require.Len(t, session.Exercises[0].Sets, 3)
	assert.Equal(t, gym.StatusInProgress, session.Status)

	// another owner sees nothing
	status, _ = doRequest(t, http.MethodGet, ts.URL+"/gym/sessions/"+session.ID, "u2", nil)
	assert.Equal(t, http.StatusNotFound, status)

	exercise := session.Exercises[0]
	for _, set := range exercise.Sets {
		status, body = doRequest(t, http.MethodPost, ts.URL+"/gym/sessions/"+session.ID+"/toggle", owner, map[string]string{
			"exerciseId": exercise.ID,
			"setId":      set.ID,
		})
		require.Equal(t, http.StatusOK, status, string(body))
	}

	status, body = doRequest(t, http.MethodPost, ts.URL+"/gym/sessions/"+session.ID+"/finish", owner, map[string]bool{})
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &session))
	assert.Equal(t, gym.StatusFinished, session.Status)

	status, body = doRequest(t, http.MethodGet, ts.URL+"/gym/coverage/week", owner, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var week coverage.Week
	require.NoError(t, json.Unmarshal(body, &week))
	assert.Equal(t, 1, week.SessionCount)
	assert.Equal(t, []string{"chest", "deltoids", "triceps"}, week.Slugs)

	status, body = doRequest(t, http.MethodGet, fmt.Sprintf("%s/gym/coverage/week?offset=%d", ts.URL, -1), owner, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &week))
	assert.Zero(t, week.SessionCount)
}

type headerRoundTripper struct {
	header http.Header
}

func (rt headerRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	for k, v := range rt.header {
		r.Header[k] = v
	}
	return http.DefaultTransport.RoundTrip(r)
}

func connectMCP(ctx context.Context, endpoint string, header http.Header) (*mcp.ClientSession, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: "server-test", Version: "0.0.1"}, nil)
	return client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Transport: headerRoundTripper{header: header}},
		MaxRetries: -1,
	}, nil)
}

func ownerHeader(owner, secret string) http.Header {
	header := http.Header{}
	header.Set(middleware.HeaderOwnerID, owner)
	header.Set(middleware.HeaderProxySecret, secret)
	return header
}

func TestServer_MCPRequiresOwner(t *testing.T) {
	const secret = "s3cret"
	ts := newTestServerWithSecret(t, secret)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, body := doRequestWithHeader(t, http.MethodPost, ts.URL+"/gym/templates", ownerHeader("victim", secret), map[string]any{
		"name": "Victim Secret Plan",
		"refs": []gym.ExerciseRef{{ExerciseID: "Barbell_Curl", Name: "Barbell Curl", PrimaryMuscles: []string{"biceps"}}},
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	// no owner, no secret
	_, err := connectMCP(ctx, ts.URL+"/mcp", http.Header{})
	require.Error(t, err)

	// owner without the proxy secret
	noSecret := http.Header{}
	noSecret.Set(middleware.HeaderOwnerID, "victim")
	_, err = connectMCP(ctx, ts.URL+"/mcp", noSecret)
	require.Error(t, err)

	callTemplates := func(session *mcp.ClientSession) string {
		res, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      "get_templates",
			Arguments: map[string]any{"owner_id": "victim"},
		})
		require.NoError(t, err)
		require.Len(t, res.Content, 1)
		text, ok := res.Content[0].(*mcp.TextContent)
		require.True(t, ok)
		return text.Text
	}

	// another authenticated owner cannot read victim's data through owner_id
	intruder, err := connectMCP(ctx, ts.URL+"/mcp", ownerHeader("intruder", secret))
	require.NoError(t, err)
	defer intruder.Close()
	assert.NotContains(t, callTemplates(intruder), "Victim Secret Plan")

	owner, err := connectMCP(ctx, ts.URL+"/mcp", ownerHeader("victim", secret))
	require.NoError(t, err)
	defer owner.Close()
	assert.Contains(t, callTemplates(owner), "Victim Secret Plan")
}
