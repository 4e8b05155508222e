package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/2beens/gymprogress/internal/gym"
	"github.com/2beens/gymprogress/internal/middleware"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const dateLayout = "2006-01-02"

// Transport decides where a tool call takes its owner from.
type Transport int

const (
	// TransportHTTP reads the owner from the authenticated request only.
	TransportHTTP Transport = iota
	// TransportStdio trusts the owner_id tool argument; the local user owns the process.
	TransportStdio
)

// Handler parses tool input, calls the service and formats the MCP result.
type Handler struct {
	service   contextService
	transport Transport
}

func NewHandler(service contextService, transport Transport) *Handler {
	return &Handler{
		service:   service,
		transport: transport,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// resolveOwner takes the owner checked by the owner middleware. Session
// contexts outlive the request that opened them, so the per-request header
// is read as well. The tool argument only counts over stdio.
func (h *Handler) resolveOwner(ctx context.Context, req *mcp.CallToolRequest, fromInput string) (string, bool) {
	if ownerID, ok := gym.OwnerFromContext(ctx); ok {
		return ownerID, true
	}
	if req != nil && req.Extra != nil && req.Extra.Header != nil {
		ownerID := strings.TrimSpace(req.Extra.Header.Get(middleware.HeaderOwnerID))
		return ownerID, ownerID != ""
	}
	if h.transport != TransportStdio {
		return "", false
	}
	return fromInput, fromInput != ""
}

func (h *Handler) GetStoreSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

// SessionsTimeRangeInput is the input for get_sessions_for_time_range.
type SessionsTimeRangeInput struct {
	OwnerID  string `json:"owner_id,omitempty" jsonschema:"Owner whose sessions to read; only used by the stdio server"`
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date, inclusive (YYYY-MM-DD)"`
}

func (h *Handler) GetSessionsForTimeRangeTool() func(context.Context, *mcp.CallToolRequest, SessionsTimeRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in SessionsTimeRangeInput) (*mcp.CallToolResult, any, error) {
		ownerID, ok := h.resolveOwner(ctx, req, in.OwnerID)
		if !ok {
			return errorResult("Missing owner_id"), nil, nil
		}
		from, err := time.Parse(dateLayout, in.FromDate)
		if err != nil {
			return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
		}
		to, err := time.Parse(dateLayout, in.ToDate)
		if err != nil {
			return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
		}
		// to_date is inclusive, the range query is not
		to = to.AddDate(0, 0, 1)

		list, err := h.service.ListSessions(ctx, ownerID, from, to)
		if err != nil {
			return errorResult("Error listing sessions: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// WeekCoverageInput is the input for get_week_coverage.
type WeekCoverageInput struct {
	OwnerID string `json:"owner_id,omitempty" jsonschema:"Owner whose coverage to read; only used by the stdio server"`
	Offset  int    `json:"offset,omitempty" jsonschema:"Weeks back from the current week (0 current, -1 last week); future weeks clamp to the current one"`
}

func (h *Handler) GetWeekCoverageTool() func(context.Context, *mcp.CallToolRequest, WeekCoverageInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in WeekCoverageInput) (*mcp.CallToolResult, any, error) {
		ownerID, ok := h.resolveOwner(ctx, req, in.OwnerID)
		if !ok {
			return errorResult("Missing owner_id"), nil, nil
		}
		week, err := h.service.GetWeekCoverage(ctx, ownerID, in.Offset)
		if err != nil {
			return errorResult("Error fetching coverage: " + err.Error()), nil, nil
		}
		return jsonResult(week), nil, nil
	}
}

// OwnerInput is the input for tools that only need the owner.
type OwnerInput struct {
	OwnerID string `json:"owner_id,omitempty" jsonschema:"Owner to read for; only used by the stdio server"`
}

func (h *Handler) GetTemplatesTool() func(context.Context, *mcp.CallToolRequest, OwnerInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in OwnerInput) (*mcp.CallToolResult, any, error) {
		ownerID, ok := h.resolveOwner(ctx, req, in.OwnerID)
		if !ok {
			return errorResult("Missing owner_id"), nil, nil
		}
		list, err := h.service.ListTemplates(ctx, ownerID)
		if err != nil {
			return errorResult("Error listing templates: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

func (h *Handler) GetPlansTool() func(context.Context, *mcp.CallToolRequest, OwnerInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, in OwnerInput) (*mcp.CallToolResult, any, error) {
		ownerID, ok := h.resolveOwner(ctx, req, in.OwnerID)
		if !ok {
			return errorResult("Missing owner_id"), nil, nil
		}
		list, err := h.service.ListPlans(ctx, ownerID)
		if err != nil {
			return errorResult("Error listing plans: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// SearchExercisesInput is the input for search_exercises.
type SearchExercisesInput struct {
	Query string   `json:"query,omitempty" jsonschema:"Case-insensitive part of the exercise name"`
	Tags  []string `json:"tags,omitempty" jsonschema:"Required tags, e.g. Dumbbell, Core"`
}

func (h *Handler) SearchExercisesTool() func(context.Context, *mcp.CallToolRequest, SearchExercisesInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SearchExercisesInput) (*mcp.CallToolResult, any, error) {
		return jsonResult(h.service.SearchExercises(ctx, in.Query, in.Tags)), nil, nil
	}
}
