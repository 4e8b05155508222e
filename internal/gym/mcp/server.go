package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server exposing workout history, weekly muscle
// coverage, templates, plans and the exercise catalog. The schema tool is only
// registered when deps.Schema is set.
// Mounted at /mcp by internal/server and served over stdio by cmd/gym_mcp.
func NewServer(deps Deps, transport Transport) *mcp.Server {
	h := NewHandler(NewContextService(deps), transport)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymprogress-context",
		Version: "1.0.0",
	}, nil)

	if deps.Schema != nil {
		mcp.AddTool(s, &mcp.Tool{
			Name:        "get_store_schema",
			Description: "Returns the layout of the postgres document store: the documents table (owner_id, collection, id, data JSONB) and, per collection, document counts and the top-level keys of data. Use when you need to query the backend storage directly.",
		}, h.GetStoreSchemaTool())
	}

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_sessions_for_time_range",
		Description: "Returns workout sessions started within the given date range, latest first, with per-exercise done sets and volume. Args: from_date, to_date (YYYY-MM-DD, inclusive).",
	}, h.GetSessionsForTimeRangeTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_week_coverage",
		Description: "Returns the muscle slugs and body groups trained in a calendar week (Monday to Monday). Arg: offset in weeks back from the current one (0 or negative).",
	}, h.GetWeekCoverageTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_templates",
		Description: "Returns all workout templates with their exercises and target sets, newest first.",
	}, h.GetTemplatesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_plans",
		Description: "Returns all training plans with their workouts, rep ranges and current weights.",
	}, h.GetPlansTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "search_exercises",
		Description: "Searches the exercise catalog by name and tags (Cardio, Bodyweight, Dumbbell, Cable, Machine, Core, Back, Arms).",
	}, h.SearchExercisesTool())

	return s
}
