package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with the fitness analytics tools: recent workouts,
// workout analysis, exercise history, plateau detection, muscle balance and hevy sync.
// Served over stdio by cmd/fitsync_mcp and mounted at /mcp by the main service.
func NewServer(service contextService, defaultUserID string) *mcp.Server {
	h := NewHandler(service, defaultUserID)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fitsync",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_recent_workouts",
		Description: "Returns the most recent workouts (newest first) with duration, volume, sets and muscle groups. Duplicates recorded by a wearable are hidden. Optional: limit (default 10).",
	}, h.GetRecentWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_analysis",
		Description: "Returns training frequency for the last N days: workouts per week, rest gaps, volume trend, a 0-100 consistency score and the workout type distribution. Optional: days (default 30).",
	}, h.GetWorkoutAnalysisTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_history",
		Description: "Returns per-session history of one exercise (max weight, sets, volume), personal records and the progression trend. Arg: exercise_name (case-insensitive, partial names match); optional: days (default 90).",
	}, h.GetExerciseHistoryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "detect_plateaus",
		Description: "Checks whether the working weight of an exercise stalled over the last 5 sessions of the past 90 days and returns recommendations when it did. Arg: exercise_name.",
	}, h.DetectPlateausTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "assess_muscle_balance",
		Description: "Returns the muscle group distribution of the last 90 days compared to ideal ranges, imbalances, the push/pull ratio check and a 0-100 balance score.",
	}, h.AssessMuscleBalanceTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_health_metrics",
		Description: "Returns daily health metrics of the last N days: days with data, coverage percentage, per metric averages and the last 7 days. Optional: days (default 30), metrics (default steps, weight_lbs, active_calories, exercise_minutes).",
	}, h.GetHealthMetricsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "sync_hevy_workouts",
		Description: "Pulls all workouts from Hevy into the local cache and returns how many were processed, saved, skipped and discarded as duplicates.",
	}, h.SyncHevyWorkoutsTool())

	return s
}

// NewHTTPHandler serves the server over the streamable HTTP transport.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
