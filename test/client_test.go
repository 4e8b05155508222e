package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/2beens/gymprogress/internal/middleware"

	"github.com/stretchr/testify/require"
)

// do sends a request as ownerID and returns the status and body.
func (s *IntegrationTestSuite) do(ctx context.Context, method, path, ownerID string, body any) (int, []byte) {
	t := s.T()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), reader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ownerID != "" {
		req.Header.Set(middleware.HeaderOwnerID, ownerID)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) decode(raw []byte, v any) {
	require.NoError(s.T(), json.Unmarshal(raw, v), string(raw))
}
